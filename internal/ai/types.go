package ai

import "context"

// JobPosting is a vacancy the candidate is evaluated against. It is read-only during evaluation.
type JobPosting struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Department          string `json:"department"`
	Location            string `json:"location"`
	Requirements        string `json:"requirements"`
	Responsibilities    string `json:"responsibilities"`
	InterviewGuidelines string `json:"interview_guidelines"`
	Active              bool   `json:"active"`
}

// Document is a binary file sent to the model provider alongside the prompt.
type Document struct {
	Filename string
	MIMEType string
	Data     []byte
}

// CandidateProfile is the transient evaluation input.
type CandidateProfile struct {
	FullName    string
	CoverLetter string
	Resume      Document
}

// EvaluationResult is always fully populated, even when the model could not be reached.
type EvaluationResult struct {
	EvaluationText   string         `json:"evaluation_text"`
	FitScore         int            `json:"fit_score"`
	ResumeSummary    string         `json:"resume_summary"`
	BestMatch        string         `json:"best_match"`
	MatchPercentages map[string]int `json:"match_percentages"`
}

// Invoker sends a prompt and a document to a model provider. Implementations
// never return an error: provider failures are folded into a degraded result.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, doc Document) *EvaluationResult
}

// PostingSource lists the postings currently open for applications.
type PostingSource interface {
	Active(ctx context.Context) ([]JobPosting, error)
}
