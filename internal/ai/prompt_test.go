package ai

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildPromptIncludesContract(t *testing.T) {
	postings := []JobPosting{
		{Title: "Backend Engineer", Department: "Tecnología", Location: "Remoto", Requirements: "Go, SQL", Active: true},
		{Title: "Data  Analyst\n", Requirements: "SQL", InterviewGuidelines: "Caso práctico", Active: true},
	}
	candidate := CandidateProfile{FullName: "Ana Pérez", CoverLetter: "Me interesa el rol."}

	prompt, err := BuildPrompt(postings, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"RESUME_SUMMARY:",
		"FIT_SCORE:",
		"BEST_MATCH:",
		"MATCH_PERCENTAGES:",
		"EVALUACIÓN DETALLADA:",
		"- Backend Engineer: <porcentaje>%",
		"- Data Analyst: <porcentaje>%",
		"### 1. Backend Engineer",
		"### 2. Data Analyst",
		"- Guía de entrevista: Caso práctico",
		"- Ubicación: No especificado",
		"Ana Pérez",
		"Me interesa el rol.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	if strings.Contains(prompt, "{{") {
		t.Fatalf("unreplaced placeholder in prompt:\n%s", prompt)
	}
}

func TestBuildPromptMissingCoverLetter(t *testing.T) {
	prompt, err := BuildPrompt([]JobPosting{{Title: "QA", Active: true}}, CandidateProfile{FullName: "Luis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, coverLetterMissing) {
		t.Fatalf("expected cover letter placeholder in prompt")
	}
}

func TestBuildPromptNoPostings(t *testing.T) {
	_, err := BuildPrompt(nil, CandidateProfile{FullName: "Luis"})
	if !errors.Is(err, ErrNoPostings) {
		t.Fatalf("expected ErrNoPostings, got %v", err)
	}
}
