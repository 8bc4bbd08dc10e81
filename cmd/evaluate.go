package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/ai"
	intlogger "github.com/recruitflow/recruiter/internal/logger"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <resume-file>",
	Short: "Evaluate a local resume against the active job postings without storing it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		evaluate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringP("name", "n", "", "candidate full name")
	evaluateCmd.Flags().StringP("cover-letter", "c", "", "path to a cover letter text file")
	evaluateCmd.Flags().Bool("print-json", false, "print the evaluation result as json")
}

func evaluate(cmd *cobra.Command, path string) {
	ctx := context.Background()
	logger := newLogger()

	a, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("starting the recruiter", zap.Error(err))
	}
	defer a.Close()

	doc, err := readDocument(path)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}

	name, _ := cmd.Flags().GetString("name")
	candidate := ai.CandidateProfile{FullName: name, Resume: doc}

	if letterPath, _ := cmd.Flags().GetString("cover-letter"); letterPath != "" {
		letter, err := os.ReadFile(letterPath)
		if err != nil {
			logger.Fatal("reading cover letter", zap.Error(err))
		}
		candidate.CoverLetter = string(letter)
	}

	logger.Info("evaluating resume",
		append(intlogger.StringFields(
			intlogger.StringField{Key: "file", Value: filepath.Base(path)},
			intlogger.StringField{Key: "mime_type", Value: doc.MIMEType},
		), zap.Int("bytes", len(doc.Data)))...,
	)

	result := a.pipeline.Evaluate(ctx, candidate)

	if asJSON, _ := cmd.Flags().GetBool("print-json"); asJSON {
		pretty, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(pretty))
		return
	}

	printEvaluation(result)
}

func readDocument(path string) (ai.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ai.Document{}, err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return ai.Document{Filename: filepath.Base(path), MIMEType: mimeType, Data: data}, nil
}

func printEvaluation(result *ai.EvaluationResult) {
	fmt.Printf("Puntaje: %d\n", result.FitScore)
	fmt.Printf("Mejor vacante: %s\n", result.BestMatch)
	fmt.Printf("Resumen del CV: %s\n", result.ResumeSummary)

	if len(result.MatchPercentages) > 0 {
		fmt.Println("Coincidencia por vacante:")
		for _, title := range sortedKeys(result.MatchPercentages) {
			fmt.Printf("  - %s: %d%%\n", title, result.MatchPercentages[title])
		}
	}

	fmt.Printf("\n%s\n", result.EvaluationText)
}
