package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/recruitflow/recruiter/internal/ai"
)

type stubGenerator struct {
	calls    int
	response string
	err      error
}

func (s *stubGenerator) GenerateWithDocument(context.Context, string, ai.Document) (string, error) {
	s.calls++
	return s.response, s.err
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestEvaluatorMissingCredential(t *testing.T) {
	evaluator := NewEvaluator(nil, zap.NewNop(), 0)

	got := evaluator.Invoke(context.Background(), "prompt", ai.Document{Data: []byte("pdf")})

	if got.FitScore != 50 {
		t.Fatalf("expected 50, got %d", got.FitScore)
	}
	if got.BestMatch != "N/A" {
		t.Fatalf("unexpected best match %q", got.BestMatch)
	}
	if got.ResumeSummary != "Error: No se pudo procesar el CV" {
		t.Fatalf("unexpected summary %q", got.ResumeSummary)
	}
	if len(got.MatchPercentages) != 0 {
		t.Fatalf("expected empty percentages, got %v", got.MatchPercentages)
	}
}

func TestEvaluatorParsesReply(t *testing.T) {
	stub := &stubGenerator{response: "FIT_SCORE: 130\nBEST_MATCH: Backend Engineer\nMATCH_PERCENTAGES:\n- Backend Engineer: 90%"}
	evaluator := NewEvaluator(stub, zap.NewNop(), 0)

	got := evaluator.Invoke(context.Background(), "prompt", ai.Document{})

	if stub.calls != 1 {
		t.Fatalf("expected one call, got %d", stub.calls)
	}
	if got.FitScore != 100 || got.BestMatch != "Backend Engineer" || got.MatchPercentages["Backend Engineer"] != 90 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestEvaluatorFailureClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		bestMatch   string
		summary     string
		textContain string
	}{
		{
			name:      "unauthorized",
			err:       genai.APIError{Code: http.StatusUnauthorized, Status: "UNAUTHENTICATED", Message: "invalid credentials"},
			bestMatch: ai.AuthFailureBestMatch,
			summary:   ai.DefaultResumeSummary,
		},
		{
			name:      "invalid api key reported as bad request",
			err:       fmt.Errorf("generate content: %w", genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT", Message: "API key not valid. Please pass a valid API key."}),
			bestMatch: ai.AuthFailureBestMatch,
			summary:   ai.DefaultResumeSummary,
		},
		{
			name:        "unreadable document",
			err:         &genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT", Message: "The document has no pages."},
			bestMatch:   ai.BadRequestBestMatch,
			summary:     ai.BadRequestSummary,
			textContain: "The document has no pages.",
		},
		{
			name:      "server error",
			err:       genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"},
			bestMatch: ai.UnknownFailureBestMatch,
			summary:   ai.DefaultResumeSummary,
		},
		{
			name:      "timeout",
			err:       fmt.Errorf("generate content: %w", context.DeadlineExceeded),
			bestMatch: ai.UnknownFailureBestMatch,
			summary:   ai.DefaultResumeSummary,
		},
		{
			name:      "transport",
			err:       errors.New("dial tcp: connection refused"),
			bestMatch: ai.UnknownFailureBestMatch,
			summary:   ai.DefaultResumeSummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			evaluator := NewEvaluator(&stubGenerator{err: tt.err}, zap.NewNop(), 0)

			got := evaluator.Invoke(context.Background(), "prompt", ai.Document{})

			if got.FitScore != ai.DefaultFitScore {
				t.Fatalf("expected default score, got %d", got.FitScore)
			}
			if got.BestMatch != tt.bestMatch {
				t.Fatalf("expected best match %q, got %q", tt.bestMatch, got.BestMatch)
			}
			if got.ResumeSummary != tt.summary {
				t.Fatalf("expected summary %q, got %q", tt.summary, got.ResumeSummary)
			}
			if got.EvaluationText == "" {
				t.Fatal("expected explanatory text")
			}
			if tt.textContain != "" && !strings.Contains(got.EvaluationText, tt.textContain) {
				t.Fatalf("expected evaluation text to contain %q, got %q", tt.textContain, got.EvaluationText)
			}
			if got.MatchPercentages == nil {
				t.Fatal("expected non-nil percentages")
			}
		})
	}
}

func TestEvaluatorLogsRequestAndResponse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: "FIT_SCORE: 70"}
	evaluator := NewEvaluator(stub, zap.New(core), 5)

	evaluator.Invoke(context.Background(), "a very long prompt", ai.Document{})

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}

	request := entries[0].ContextMap()
	if request["ai_provider"] != ProviderName || request["ai_model"] != "stub-model" {
		t.Fatalf("expected common fields, got %v", request)
	}
	if request["prompt_preview"] != "a ver..." {
		t.Fatalf("unexpected preview %v", request["prompt_preview"])
	}
	if entries[1].Message != "gemini generate content response" {
		t.Fatalf("unexpected message %q", entries[1].Message)
	}
}

func TestEvaluatorLogsFailureClass(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	stub := &stubGenerator{err: genai.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED"}}
	evaluator := NewEvaluator(stub, zap.New(core), 0)

	evaluator.Invoke(context.Background(), "prompt", ai.Document{})

	entries := logs.FilterMessage("gemini evaluation failed").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("expected one failure log, got %d", len(entries))
	}
	if entries[0].ContextMap()["failure"] != "auth" {
		t.Fatalf("unexpected failure class %v", entries[0].ContextMap()["failure"])
	}
}
