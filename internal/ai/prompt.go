package ai

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

//go:embed prompt.md
var promptTemplate string

// ErrNoPostings is returned by BuildPrompt when there is nothing to evaluate against.
var ErrNoPostings = errors.New("no active job postings")

const (
	notSpecified        = "No especificado"
	coverLetterMissing  = "No proporcionada"
	candidateNameAbsent = "No indicado"
)

// BuildPrompt renders the evaluation instructions for the given postings and candidate.
// The resume itself travels as a separate document part and is not inlined here.
func BuildPrompt(postings []JobPosting, candidate CandidateProfile) (string, error) {
	if len(postings) == 0 {
		return "", ErrNoPostings
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate: {{CANDIDATE_NAME}}\n{{COVER_LETTER}}\n\nPostings:\n{{POSTINGS}}\n\n" +
			"RESUME_SUMMARY:\nFIT_SCORE:\nBEST_MATCH:\nMATCH_PERCENTAGES:\n{{PERCENTAGE_LINES}}\nEVALUACIÓN DETALLADA:"
	}

	replacer := strings.NewReplacer(
		"{{CANDIDATE_NAME}}", orDefault(singleLine(candidate.FullName), candidateNameAbsent),
		"{{COVER_LETTER}}", orDefault(strings.TrimSpace(candidate.CoverLetter), coverLetterMissing),
		"{{POSTINGS}}", formatPostings(postings),
		"{{PERCENTAGE_LINES}}", formatPercentageLines(postings),
	)

	return replacer.Replace(template), nil
}

func formatPostings(postings []JobPosting) string {
	var sb strings.Builder
	for i, p := range postings {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "### %d. %s\n", i+1, singleLine(p.Title))
		fmt.Fprintf(&sb, "- Departamento: %s\n", orDefault(singleLine(p.Department), notSpecified))
		fmt.Fprintf(&sb, "- Ubicación: %s\n", orDefault(singleLine(p.Location), notSpecified))
		fmt.Fprintf(&sb, "- Requisitos: %s\n", orDefault(strings.TrimSpace(p.Requirements), notSpecified))
		fmt.Fprintf(&sb, "- Responsabilidades: %s\n", orDefault(strings.TrimSpace(p.Responsibilities), notSpecified))
		fmt.Fprintf(&sb, "- Guía de entrevista: %s\n", orDefault(strings.TrimSpace(p.InterviewGuidelines), notSpecified))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatPercentageLines(postings []JobPosting) string {
	lines := make([]string, 0, len(postings))
	for _, p := range postings {
		lines = append(lines, fmt.Sprintf("- %s: <porcentaje>%%", singleLine(p.Title)))
	}
	return strings.Join(lines, "\n")
}

// singleLine collapses whitespace so that titles cannot break the line-based reply contract.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
