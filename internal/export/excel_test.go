package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/recruiting"
)

func TestWriteApplications(t *testing.T) {
	apps := []recruiting.Application{
		{
			ID: "1", FullName: "Ana Pérez", Email: "ana@example.com", Status: recruiting.StatusPending,
			CreatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
			Evaluation: ai.EvaluationResult{
				FitScore: 82, BestMatch: "Backend Engineer",
				MatchPercentages: map[string]int{"Backend Engineer": 82, "QA Engineer": 40},
			},
		},
		{
			ID: "2", FullName: "Luis Gómez", Email: "luis@example.com", Status: recruiting.StatusRejected,
			Evaluation: ai.EvaluationResult{FitScore: 50, BestMatch: "Sin vacantes activas", MatchPercentages: map[string]int{}},
		},
	}

	var buf bytes.Buffer
	if err := WriteApplications(&buf, apps); err != nil {
		t.Fatalf("WriteApplications() failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(applicationsSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}

	header := rows[0]
	if len(header) != len(baseHeaders)+2 {
		t.Fatalf("unexpected header %v", header)
	}
	if header[len(baseHeaders)] != "Backend Engineer (%)" || header[len(baseHeaders)+1] != "QA Engineer (%)" {
		t.Fatalf("unexpected posting columns %v", header[len(baseHeaders):])
	}

	first := rows[1]
	if first[1] != "Ana Pérez" || first[4] != "82" || first[len(baseHeaders)] != "82" || first[len(baseHeaders)+1] != "40" {
		t.Fatalf("unexpected first row %v", first)
	}
	if first[9] != "2026-01-02 03:04" {
		t.Fatalf("unexpected date %q", first[9])
	}

	second := rows[2]
	if second[3] != "rejected" || second[5] != "Sin vacantes activas" {
		t.Fatalf("unexpected second row %v", second)
	}
}

func TestWriteApplicationsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteApplications(&buf, nil); err != nil {
		t.Fatalf("WriteApplications() should handle empty input: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}
