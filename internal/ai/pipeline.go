package ai

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/utils"
)

// Pipeline runs a single candidate evaluation: load postings, build the prompt,
// call the model and parse its reply. It never fails; every failure path ends
// in a degraded but persistable result.
type Pipeline struct {
	postings PostingSource
	invoker  Invoker
	logger   *zap.Logger
}

func NewPipeline(postings PostingSource, invoker Invoker, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		postings: postings,
		invoker:  invoker,
		logger:   logger,
	}
}

func (p *Pipeline) Evaluate(ctx context.Context, candidate CandidateProfile) *EvaluationResult {
	postings, err := p.activePostings(ctx)
	if err != nil {
		p.logger.Error("loading active job postings failed; evaluation skipped", zap.Error(err))
		return UnknownFailureResult()
	}

	if len(postings) == 0 {
		p.logger.Info("no active job postings; skipping model evaluation")
		return NoPostingsResult()
	}

	prompt, err := BuildPrompt(postings, candidate)
	if err != nil {
		p.logger.Error("building evaluation prompt", zap.Error(err))
		return UnknownFailureResult()
	}

	p.logger.Debug("evaluation prompt built",
		zap.Int("postings", len(postings)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.Int("document_bytes", len(candidate.Resume.Data)),
	)

	result := p.invoker.Invoke(ctx, prompt, candidate.Resume)
	if result == nil {
		return UnknownFailureResult()
	}
	if result.MatchPercentages == nil {
		result.MatchPercentages = map[string]int{}
	}
	result.FitScore = utils.Clamp(result.FitScore, 0, 100)

	return result
}

func (p *Pipeline) activePostings(ctx context.Context) ([]JobPosting, error) {
	if p.postings == nil {
		return nil, nil
	}

	all, err := p.postings.Active(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]JobPosting, 0, len(all))
	for _, posting := range all {
		if posting.Active {
			active = append(active, posting)
		}
	}

	return active, nil
}
