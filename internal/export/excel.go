package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/recruitflow/recruiter/internal/recruiting"
)

const applicationsSheet = "Postulaciones"

var baseHeaders = []string{
	"ID", "Nombre", "Email", "Estado", "Puntaje", "Mejor vacante",
	"Resumen del CV", "Evaluación", "Reevaluado por", "Fecha de postulación",
}

// WriteApplications writes one row per application with a column per posting
// title found in the match percentages.
func WriteApplications(w io.Writer, apps []recruiting.Application) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", applicationsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titles := postingTitles(apps)

	headers := make([]any, 0, len(baseHeaders)+len(titles))
	for _, h := range baseHeaders {
		headers = append(headers, h)
	}
	for _, title := range titles {
		headers = append(headers, title+" (%)")
	}

	if err := f.SetSheetRow(applicationsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(applicationsSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, app := range apps {
		row := make([]any, 0, len(headers))
		row = append(row,
			app.ID,
			app.FullName,
			app.Email,
			string(app.Status),
			app.Evaluation.FitScore,
			app.Evaluation.BestMatch,
			app.Evaluation.ResumeSummary,
			app.Evaluation.EvaluationText,
			app.ReevaluatedBy,
			app.CreatedAt.UTC().Format("2006-01-02 15:04"),
		)
		for _, title := range titles {
			if pct, ok := app.Evaluation.MatchPercentages[title]; ok {
				row = append(row, pct)
			} else {
				row = append(row, "")
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(applicationsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(applicationsSheet, "B", "C", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(applicationsSheet, "G", "H", 60); err != nil {
		return err
	}
	if err := f.SetPanes(applicationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func postingTitles(apps []recruiting.Application) []string {
	seen := map[string]struct{}{}
	for _, app := range apps {
		for title := range app.Evaluation.MatchPercentages {
			seen[title] = struct{}{}
		}
	}

	titles := make([]string, 0, len(seen))
	for title := range seen {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}
