package recruiting

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/logger"
)

// Repository persists applications.
type Repository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, app *Application) error
	Get(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, status Status) ([]Application, error)
	UpdateEvaluation(ctx context.Context, id string, result ai.EvaluationResult, actor string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// Evaluator runs the evaluation pipeline for one candidate.
type Evaluator interface {
	Evaluate(ctx context.Context, candidate ai.CandidateProfile) *ai.EvaluationResult
}

// Submission is the raw candidate input.
type Submission struct {
	FullName    string
	Email       string
	CoverLetter string
	Resume      ai.Document
}

// Service handles candidate submissions and their admin follow-up.
type Service struct {
	repo      Repository
	evaluator Evaluator
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, evaluator Evaluator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, evaluator: evaluator, logger: log, now: time.Now}
}

// Submit validates the submission, evaluates it and stores it as pending.
// Evaluation never fails the submission; only validation and storage errors are returned.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Application, error) {
	sub, err := normalizeSubmission(sub)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(logger.CandidateFields(sub.FullName, sub.Email)...)

	exists, err := s.repo.ExistsByEmail(ctx, sub.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		log.Info("duplicate application rejected")
		return nil, ErrDuplicateApplication
	}

	app := &Application{
		FullName:    sub.FullName,
		Email:       sub.Email,
		CoverLetter: sub.CoverLetter,
		Resume:      sub.Resume,
		Status:      StatusPending,
	}

	app.Evaluation = s.evaluate(ctx, app.Profile())

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, ErrDuplicateApplication) {
			log.Info("duplicate application rejected on insert")
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("store application: %w", err)
	}

	log.Info("application submitted",
		zap.String("id", app.ID),
		zap.Int("fit_score", app.Evaluation.FitScore),
		zap.String("best_match", app.Evaluation.BestMatch),
	)

	return app, nil
}

// Reevaluate re-runs the evaluation of a stored application against the current postings.
func (s *Service) Reevaluate(ctx context.Context, id, actor string) (*Application, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.evaluate(ctx, app.Profile())
	at := s.now().UTC()
	actor = strings.TrimSpace(actor)

	if err := s.repo.UpdateEvaluation(ctx, app.ID, result, actor, at); err != nil {
		return nil, fmt.Errorf("store reevaluation: %w", err)
	}

	app.Evaluation = result
	app.ReevaluatedBy = actor
	app.ReevaluatedAt = &at

	s.logger.Info("application reevaluated",
		zap.String("id", app.ID),
		zap.Int("fit_score", result.FitScore),
		logger.ActorField(actor),
	)

	return app, nil
}

// SetStatus moves an application through the review workflow.
func (s *Service) SetStatus(ctx context.Context, id string, status Status, actor string) error {
	if _, err := ParseStatus(string(status)); err != nil || status == "" {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("application status changed",
		zap.String("id", id),
		zap.String("status", string(status)),
		logger.ActorField(actor),
	)
	return nil
}

func (s *Service) List(ctx context.Context, status Status) ([]Application, error) {
	return s.repo.List(ctx, status)
}

func (s *Service) Get(ctx context.Context, id string) (*Application, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) evaluate(ctx context.Context, profile ai.CandidateProfile) ai.EvaluationResult {
	result := s.evaluator.Evaluate(ctx, profile)
	if result == nil {
		result = ai.UnknownFailureResult()
	}
	return *result
}

func normalizeSubmission(sub Submission) (Submission, error) {
	sub.FullName = strings.Join(strings.Fields(sub.FullName), " ")
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	sub.CoverLetter = strings.TrimSpace(sub.CoverLetter)

	switch {
	case sub.FullName == "":
		return sub, fmt.Errorf("%w: full name is required", ErrInvalidSubmission)
	case sub.Email == "":
		return sub, fmt.Errorf("%w: email is required", ErrInvalidSubmission)
	case len(sub.Resume.Data) == 0:
		return sub, fmt.Errorf("%w: resume is required", ErrInvalidSubmission)
	}

	addr, err := mail.ParseAddress(sub.Email)
	if err != nil || addr.Address != sub.Email {
		return sub, fmt.Errorf("%w: email is not valid", ErrInvalidSubmission)
	}

	return sub, nil
}
