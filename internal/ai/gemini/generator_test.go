package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/recruitflow/recruiter/internal/ai"
)

type fakeModels struct {
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	deadline bool

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGenerateWithDocumentSendsInlineData(t *testing.T) {
	models := &fakeModels{resp: textResponse("FIT_SCORE: 80", "  ", "BEST_MATCH: QA")}
	g := newGenerator(models, "", 0)

	doc := ai.Document{Filename: "cv.pdf", Data: []byte("%PDF-1.7")}
	out, err := g.GenerateWithDocument(context.Background(), "evalúa", doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "FIT_SCORE: 80\nBEST_MATCH: QA" {
		t.Fatalf("unexpected output %q", out)
	}
	if models.model != defaultModel {
		t.Fatalf("expected default model, got %q", models.model)
	}
	if !models.deadline {
		t.Fatal("expected bounded context")
	}
	if len(models.contents) != 1 || len(models.contents[0].Parts) != 2 {
		t.Fatalf("unexpected contents %+v", models.contents)
	}

	blob := models.contents[0].Parts[0].InlineData
	if blob == nil || blob.MIMEType != "application/pdf" || string(blob.Data) != "%PDF-1.7" {
		t.Fatalf("unexpected inline data %+v", blob)
	}
	if models.contents[0].Parts[1].Text != "evalúa" {
		t.Fatalf("unexpected prompt part %q", models.contents[0].Parts[1].Text)
	}
}

func TestGenerateWithDocumentWithoutData(t *testing.T) {
	models := &fakeModels{resp: textResponse("ok")}
	g := newGenerator(models, "gemini-pro", time.Second)

	if _, err := g.GenerateWithDocument(context.Background(), "prompt", ai.Document{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models.contents[0].Parts) != 1 {
		t.Fatalf("expected prompt only, got %d parts", len(models.contents[0].Parts))
	}
	if models.model != "gemini-pro" {
		t.Fatalf("unexpected model %q", models.model)
	}
}

func TestGeneratorErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		models *fakeModels
		prompt string
	}{
		{name: "empty prompt", models: &fakeModels{resp: textResponse("ok")}, prompt: "  "},
		{name: "provider error", models: &fakeModels{err: errors.New("boom")}, prompt: "p"},
		{name: "empty response", models: &fakeModels{resp: &genai.GenerateContentResponse{}}, prompt: "p"},
		{name: "nil response", models: &fakeModels{}, prompt: "p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := newGenerator(tt.models, "", 0)
			if _, err := g.GenerateWithDocument(context.Background(), tt.prompt, ai.Document{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCompleteSetsSystemInstruction(t *testing.T) {
	models := &fakeModels{resp: textResponse("respuesta")}
	g := newGenerator(models, "", 0)

	out, err := g.Complete(context.Background(), "sistema", "pregunta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "respuesta" {
		t.Fatalf("unexpected output %q", out)
	}
	if models.config == nil || models.config.SystemInstruction == nil {
		t.Fatal("expected system instruction")
	}
	if got := models.config.SystemInstruction.Parts[0].Text; got != "sistema" {
		t.Fatalf("unexpected system instruction %q", got)
	}
	if models.config.Temperature == nil {
		t.Fatal("expected temperature to be set")
	}
}

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), " ", "", 0); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
