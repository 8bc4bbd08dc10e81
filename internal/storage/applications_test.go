package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/recruiting"
)

func newApplication(email string) *recruiting.Application {
	return &recruiting.Application{
		FullName:    "Ana Pérez",
		Email:       email,
		CoverLetter: "Hola",
		Resume:      ai.Document{Filename: "cv.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.7")},
		Status:      recruiting.StatusPending,
		Evaluation: ai.EvaluationResult{
			EvaluationText:   "Buen perfil",
			FitScore:         77,
			ResumeSummary:    "Resumen",
			BestMatch:        "Backend Engineer",
			MatchPercentages: map[string]int{"Backend Engineer": 77, "QA": 140},
		},
	}
}

func TestApplicationRepositoryRoundTrip(t *testing.T) {
	repo := NewApplicationRepository(openTestDB(t))
	ctx := context.Background()

	app := newApplication("ana@example.com")
	if err := repo.Create(ctx, app); err != nil {
		t.Fatalf("create: %v", err)
	}
	if app.ID == "" || app.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps, got %+v", app)
	}

	got, err := repo.Get(ctx, app.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Resume.Data) != "%PDF-1.7" || got.Resume.MIMEType != "application/pdf" {
		t.Fatalf("unexpected resume %+v", got.Resume)
	}
	if got.Evaluation.FitScore != 77 || got.Evaluation.MatchPercentages["QA"] != 140 || got.Evaluation.MatchPercentages["Backend Engineer"] != 77 {
		t.Fatalf("unexpected evaluation %+v", got.Evaluation)
	}
	if got.Status != recruiting.StatusPending {
		t.Fatalf("unexpected status %s", got.Status)
	}

	exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
	if err != nil || !exists {
		t.Fatalf("expected email to exist, got %v (%v)", exists, err)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, recruiting.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepositoryUniqueEmail(t *testing.T) {
	repo := NewApplicationRepository(openTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, newApplication("ana@example.com")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, newApplication("ana@example.com")); !errors.Is(err, recruiting.ErrDuplicateApplication) {
		t.Fatalf("expected ErrDuplicateApplication, got %v", err)
	}
}

func TestApplicationRepositoryUpdates(t *testing.T) {
	repo := NewApplicationRepository(openTestDB(t))
	ctx := context.Background()

	app := newApplication("luis@example.com")
	if err := repo.Create(ctx, app); err != nil {
		t.Fatalf("create: %v", err)
	}

	at := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	result := ai.EvaluationResult{EvaluationText: "otra", FitScore: 40, ResumeSummary: "s", BestMatch: "QA", MatchPercentages: map[string]int{"QA": 40}}
	if err := repo.UpdateEvaluation(ctx, app.ID, result, "lucia", at); err != nil {
		t.Fatalf("update evaluation: %v", err)
	}
	if err := repo.UpdateStatus(ctx, app.ID, recruiting.StatusReviewed); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.Get(ctx, app.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Evaluation.FitScore != 40 || len(got.Evaluation.MatchPercentages) != 1 || got.Status != recruiting.StatusReviewed {
		t.Fatalf("unexpected application %+v", got)
	}
	if got.ReevaluatedBy != "lucia" || got.ReevaluatedAt == nil || !got.ReevaluatedAt.Equal(at) {
		t.Fatalf("unexpected reevaluation audit %+v", got)
	}

	if err := repo.UpdateEvaluation(ctx, "missing", result, "x", at); !errors.Is(err, recruiting.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "missing", recruiting.StatusAccepted); !errors.Is(err, recruiting.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepositoryList(t *testing.T) {
	repo := NewApplicationRepository(openTestDB(t))
	ctx := context.Background()

	first := newApplication("a@example.com")
	second := newApplication("b@example.com")
	second.Status = recruiting.StatusAccepted
	for _, app := range []*recruiting.Application{first, second} {
		if err := repo.Create(ctx, app); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := repo.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 applications, got %d (%v)", len(all), err)
	}
	if len(all[0].Resume.Data) != 0 {
		t.Fatal("list must not load resume bytes")
	}

	accepted, err := repo.List(ctx, recruiting.StatusAccepted)
	if err != nil || len(accepted) != 1 || accepted[0].Email != "b@example.com" {
		t.Fatalf("unexpected filtered list %+v (%v)", accepted, err)
	}
}

func TestRecruitingServiceOverStorage(t *testing.T) {
	db := openTestDB(t)
	postings := NewPostingRepository(db)
	if _, err := postings.Create(context.Background(), ai.JobPosting{Title: "Backend Engineer", Active: true}); err != nil {
		t.Fatalf("create posting: %v", err)
	}

	invoker := invokerFunc(func(_ context.Context, prompt string, _ ai.Document) *ai.EvaluationResult {
		return ai.ParseReply("FIT_SCORE: 88\nBEST_MATCH: Backend Engineer\nMATCH_PERCENTAGES:\n- Backend Engineer: 88%")
	})
	pipeline := ai.NewPipeline(postings, invoker, nil)
	service := recruiting.NewService(NewApplicationRepository(db), pipeline, nil)

	sub := recruiting.Submission{
		FullName: "Ana Pérez",
		Email:    "ana@example.com",
		Resume:   ai.Document{Filename: "cv.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")},
	}

	app, err := service.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	stored, err := service.Get(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Evaluation.FitScore != 88 || stored.Evaluation.MatchPercentages["Backend Engineer"] != 88 {
		t.Fatalf("unexpected stored evaluation %+v", stored.Evaluation)
	}

	if _, err := service.Submit(context.Background(), sub); !errors.Is(err, recruiting.ErrDuplicateApplication) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

type invokerFunc func(ctx context.Context, prompt string, doc ai.Document) *ai.EvaluationResult

func (f invokerFunc) Invoke(ctx context.Context, prompt string, doc ai.Document) *ai.EvaluationResult {
	return f(ctx, prompt, doc)
}
