package knowledge

import (
	"context"

	"go.uber.org/zap"
)

// FallbackReader serves reads from the primary store and substitutes the
// fallback corpus whenever the primary fails. Writes are not wrapped.
type FallbackReader struct {
	primary  Reader
	fallback Reader
	logger   *zap.Logger
}

// NewFallbackReader wraps primary. A nil primary serves the fallback directly.
func NewFallbackReader(primary, fallback Reader, logger *zap.Logger) *FallbackReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackReader{primary: primary, fallback: fallback, logger: logger}
}

func (r *FallbackReader) Search(ctx context.Context, query string, filter Filter, limit int) ([]Match, error) {
	if r.primary != nil {
		matches, err := r.primary.Search(ctx, query, filter, limit)
		if err == nil {
			return matches, nil
		}
		r.logFallback("search", err)
	}
	return r.fallback.Search(ctx, query, filter, limit)
}

func (r *FallbackReader) ByCategory(ctx context.Context, category string) ([]Item, error) {
	if r.primary != nil {
		items, err := r.primary.ByCategory(ctx, category)
		if err == nil {
			return items, nil
		}
		r.logFallback("by_category", err)
	}
	return r.fallback.ByCategory(ctx, category)
}

func (r *FallbackReader) ByPhase(ctx context.Context, phase int) ([]Item, error) {
	if r.primary != nil {
		items, err := r.primary.ByPhase(ctx, phase)
		if err == nil {
			return items, nil
		}
		r.logFallback("by_phase", err)
	}
	return r.fallback.ByPhase(ctx, phase)
}

func (r *FallbackReader) logFallback(operation string, err error) {
	r.logger.Warn("knowledge store read failed; serving fallback dataset",
		zap.String("operation", operation),
		zap.Error(err),
	)
}
