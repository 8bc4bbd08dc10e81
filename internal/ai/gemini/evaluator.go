package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/logger"
	"github.com/recruitflow/recruiter/internal/utils"
)

type documentGenerator interface {
	GenerateWithDocument(ctx context.Context, prompt string, doc ai.Document) (string, error)
	Model() string
}

const defaultMaxLogLength = 200

// Evaluator adapts a Gemini generator to ai.Invoker. Every failure is converted
// into a degraded evaluation result.
type Evaluator struct {
	generator documentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewEvaluator builds an Evaluator. A nil generator means no credential is
// configured; Invoke then returns the missing-credential result without any call.
func NewEvaluator(generator documentGenerator, log *zap.Logger, maxLogLength int) *Evaluator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Evaluator{
		generator: generator,
		logger:    logger.WithCommonFields(log, ProviderName, model),
		maxLogLen: maxLogLength,
	}
}

func (e *Evaluator) Invoke(ctx context.Context, prompt string, doc ai.Document) *ai.EvaluationResult {
	if e.generator == nil {
		e.logger.Warn("gemini api key is not configured; returning degraded evaluation")
		return ai.MissingCredentialResult()
	}

	e.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
		zap.String("document_mime", doc.MIMEType),
		zap.Int("document_bytes", len(doc.Data)),
	)

	raw, err := e.generator.GenerateWithDocument(ctx, prompt, doc)
	if err != nil {
		return e.degrade(err)
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return ai.ParseReply(raw)
}

func (e *Evaluator) degrade(err error) *ai.EvaluationResult {
	kind, message := classify(err)

	e.logger.Warn("gemini evaluation failed",
		zap.String("failure", kind.String()),
		zap.String("provider_message", utils.TruncateForLog(message, e.maxLogLen)),
		zap.Error(err),
	)

	switch kind {
	case failureAuth:
		return ai.AuthFailureResult(message)
	case failureBadRequest:
		return ai.BadRequestResult(message)
	default:
		return ai.UnknownFailureResult()
	}
}

type failureKind int

const (
	failureUnknown failureKind = iota
	failureAuth
	failureBadRequest
)

func (k failureKind) String() string {
	switch k {
	case failureAuth:
		return "auth"
	case failureBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// classify maps a provider error to a failure kind and the provider's message.
// Gemini reports an invalid key as 400 INVALID_ARGUMENT, so the message is inspected too.
func classify(err error) (failureKind, string) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return failureUnknown, err.Error()
	}

	message := strings.TrimSpace(apiErr.Message)
	if message == "" {
		message = strings.TrimSpace(apiErr.Status)
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
		return failureAuth, message
	case apiErr.Status == "UNAUTHENTICATED" || apiErr.Status == "PERMISSION_DENIED":
		return failureAuth, message
	case apiErr.Code == http.StatusBadRequest && mentionsAPIKey(message):
		return failureAuth, message
	case apiErr.Code == http.StatusBadRequest:
		return failureBadRequest, message
	default:
		return failureUnknown, message
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}

	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}

	return genai.APIError{}, false
}

func mentionsAPIKey(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "api key") || strings.Contains(lower, "api_key")
}
