package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/logger"
)

// Service is the entry point for knowledge reads and admin mutations.
type Service struct {
	reader Reader
	writer Writer
	topN   int
	logger *zap.Logger
}

// NewService builds a Service. reader is expected to be a FallbackReader so
// reads never surface store failures; writer may be nil when no durable store is configured.
func NewService(reader Reader, writer Writer, topN int, log *zap.Logger) *Service {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reader: reader, writer: writer, topN: topN, logger: log}
}

// ErrReadOnly is returned by mutations when no durable store is configured.
var ErrReadOnly = errors.New("knowledge store is read-only")

func (s *Service) Search(ctx context.Context, query string, filter Filter, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = s.topN
	}
	return s.reader.Search(ctx, query, filter, limit)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]Item, error) {
	return s.reader.ByCategory(ctx, category)
}

func (s *Service) ByPhase(ctx context.Context, phase int) ([]Item, error) {
	return s.reader.ByPhase(ctx, phase)
}

// Create validates and stores a new active item attributed to actor.
func (s *Service) Create(ctx context.Context, item Item, actor string) (Item, error) {
	if s.writer == nil {
		return Item{}, ErrReadOnly
	}

	item.Category = strings.TrimSpace(item.Category)
	item.Question = strings.TrimSpace(item.Question)
	item.Answer = strings.TrimSpace(item.Answer)
	item.Keywords = NormalizeKeywords(item.Keywords)
	item.Active = true
	item.CreatedBy = strings.TrimSpace(actor)
	item.UpdatedBy = item.CreatedBy

	if err := item.Validate(); err != nil {
		return Item{}, err
	}

	created, err := s.writer.Create(ctx, item)
	if err != nil {
		return Item{}, fmt.Errorf("create knowledge item: %w", err)
	}

	s.logger.Info("knowledge item created", zap.String("id", created.ID), logger.ActorField(actor))
	return created, nil
}

// Update applies update to the item with the given id.
func (s *Service) Update(ctx context.Context, id string, update Update, actor string) (Item, error) {
	if s.writer == nil {
		return Item{}, ErrReadOnly
	}
	if strings.TrimSpace(id) == "" {
		return Item{}, ErrNotFound
	}

	probe := update.Apply(Item{Category: "-", Question: "-", Answer: "-"})
	if err := probe.Validate(); err != nil {
		return Item{}, err
	}

	updated, err := s.writer.Update(ctx, id, update, strings.TrimSpace(actor))
	if err != nil {
		return Item{}, fmt.Errorf("update knowledge item %s: %w", id, err)
	}

	s.logger.Info("knowledge item updated", zap.String("id", id), logger.ActorField(actor))
	return updated, nil
}

// Deactivate soft-deletes the item; it stays stored but is no longer served.
func (s *Service) Deactivate(ctx context.Context, id, actor string) error {
	if s.writer == nil {
		return ErrReadOnly
	}
	if err := s.writer.Deactivate(ctx, id, strings.TrimSpace(actor)); err != nil {
		return fmt.Errorf("deactivate knowledge item %s: %w", id, err)
	}

	s.logger.Info("knowledge item deactivated", zap.String("id", id), logger.ActorField(actor))
	return nil
}

// Delete removes the item permanently.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if s.writer == nil {
		return ErrReadOnly
	}
	if err := s.writer.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete knowledge item %s: %w", id, err)
	}

	s.logger.Warn("knowledge item deleted", zap.String("id", id), logger.ActorField(actor))
	return nil
}
