package recruiting

import (
	"errors"
	"time"

	"github.com/recruitflow/recruiter/internal/ai"
)

var (
	// ErrDuplicateApplication is returned when an application with the same email already exists.
	ErrDuplicateApplication = errors.New("an application with this email already exists")
	// ErrNotFound is returned when the requested application does not exist.
	ErrNotFound = errors.New("application not found")
	// ErrInvalidSubmission wraps validation failures of a submission.
	ErrInvalidSubmission = errors.New("invalid submission")
	// ErrInvalidStatus is returned for unknown application statuses.
	ErrInvalidStatus = errors.New("invalid application status")
)

// Status is the review state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ParseStatus validates s. An empty string is returned as-is so callers can use it as "any".
func ParseStatus(s string) (Status, error) {
	switch status := Status(s); status {
	case "", StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Application is a persisted candidate submission with its latest evaluation.
type Application struct {
	ID            string              `json:"id"`
	FullName      string              `json:"full_name"`
	Email         string              `json:"email"`
	CoverLetter   string              `json:"cover_letter"`
	Resume        ai.Document         `json:"-"`
	Status        Status              `json:"status"`
	Evaluation    ai.EvaluationResult `json:"evaluation"`
	ReevaluatedBy string              `json:"reevaluated_by,omitempty"`
	ReevaluatedAt *time.Time          `json:"reevaluated_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// Profile returns the candidate profile used as evaluation input.
func (a Application) Profile() ai.CandidateProfile {
	return ai.CandidateProfile{
		FullName:    a.FullName,
		CoverLetter: a.CoverLetter,
		Resume:      a.Resume,
	}
}
