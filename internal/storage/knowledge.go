package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/recruitflow/recruiter/internal/knowledge"
)

// KnowledgeRepository is the durable knowledge.Store backed by gorm.
type KnowledgeRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ knowledge.Store = (*KnowledgeRepository)(nil)

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db, now: time.Now}
}

type knowledgeMetadata struct {
	Phase *int `mapstructure:"phase"`
}

// Search narrows candidates in SQL with the same substring conditions the
// index scores on, then ranks them with knowledge.Rank.
func (r *KnowledgeRepository) Search(ctx context.Context, query string, filter knowledge.Filter, limit int) ([]knowledge.Match, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(q) + "%"
	db := r.db.WithContext(ctx)

	matchesQuery := db.
		Where("question_search LIKE ? ESCAPE '!'", pattern).
		Or("answer_search LIKE ? ESCAPE '!'", pattern).
		Or("EXISTS (SELECT 1 FROM knowledge_keywords kk WHERE kk.item_id = knowledge_items.id AND INSTR(?, kk.keyword) > 0)", q)

	items, err := r.find(r.filtered(db, filter).Where(matchesQuery))
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", err)
	}

	return knowledge.Rank(q, items, filter, limit), nil
}

func (r *KnowledgeRepository) ByCategory(ctx context.Context, category string) ([]knowledge.Item, error) {
	items, err := r.find(r.filtered(r.db.WithContext(ctx), knowledge.Filter{Category: category}))
	if err != nil {
		return nil, fmt.Errorf("list knowledge by category: %w", err)
	}
	return items, nil
}

func (r *KnowledgeRepository) ByPhase(ctx context.Context, phase int) ([]knowledge.Item, error) {
	items, err := r.find(r.filtered(r.db.WithContext(ctx), knowledge.Filter{Phase: &phase}))
	if err != nil {
		return nil, fmt.Errorf("list knowledge by phase: %w", err)
	}
	return items, nil
}

// All returns every item, including inactive ones, for admin listings.
func (r *KnowledgeRepository) All(ctx context.Context) ([]knowledge.Item, error) {
	items, err := r.find(r.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}
	return items, nil
}

// Get returns the item with the given id regardless of its active flag.
func (r *KnowledgeRepository) Get(ctx context.Context, id string) (knowledge.Item, error) {
	var record knowledgeRecord
	err := r.db.WithContext(ctx).Preload("Keywords", orderKeywords).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return knowledge.Item{}, knowledge.ErrNotFound
	}
	if err != nil {
		return knowledge.Item{}, fmt.Errorf("get knowledge item: %w", err)
	}
	return toItem(record)
}

func (r *KnowledgeRepository) Create(ctx context.Context, item knowledge.Item) (knowledge.Item, error) {
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}
	now := r.now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	record, err := toRecord(item)
	if err != nil {
		return knowledge.Item{}, err
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return knowledge.Item{}, fmt.Errorf("insert knowledge item: %w", err)
	}

	return toItem(record)
}

// Update applies update inside a transaction. A non-nil keyword list replaces the stored set.
func (r *KnowledgeRepository) Update(ctx context.Context, id string, update knowledge.Update, actor string) (knowledge.Item, error) {
	var updated knowledge.Item

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record knowledgeRecord
		err := tx.Preload("Keywords", orderKeywords).First(&record, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return knowledge.ErrNotFound
		}
		if err != nil {
			return err
		}

		current, err := toItem(record)
		if err != nil {
			return err
		}

		next := update.Apply(current)
		next.UpdatedBy = actor
		next.UpdatedAt = r.now().UTC()

		nextRecord, err := toRecord(next)
		if err != nil {
			return err
		}

		if err := tx.Model(&knowledgeRecord{}).Where("id = ?", id).Updates(map[string]any{
			"category":        nextRecord.Category,
			"question":        nextRecord.Question,
			"answer":          nextRecord.Answer,
			"category_search": nextRecord.CategorySearch,
			"question_search": nextRecord.QuestionSearch,
			"answer_search":   nextRecord.AnswerSearch,
			"metadata":        nextRecord.Metadata,
			"active":          nextRecord.Active,
			"updated_by":      nextRecord.UpdatedBy,
			"updated_at":      nextRecord.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		if update.Keywords != nil {
			if err := tx.Where("item_id = ?", id).Delete(&knowledgeKeyword{}).Error; err != nil {
				return err
			}
			if len(nextRecord.Keywords) > 0 {
				if err := tx.Create(&nextRecord.Keywords).Error; err != nil {
					return err
				}
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, knowledge.ErrNotFound) {
			return knowledge.Item{}, err
		}
		return knowledge.Item{}, fmt.Errorf("update knowledge item: %w", err)
	}

	return updated, nil
}

func (r *KnowledgeRepository) Deactivate(ctx context.Context, id, actor string) error {
	result := r.db.WithContext(ctx).Model(&knowledgeRecord{}).Where("id = ?", id).Updates(map[string]any{
		"active":     false,
		"updated_by": actor,
		"updated_at": r.now().UTC(),
	})
	if result.Error != nil {
		return fmt.Errorf("deactivate knowledge item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return knowledge.ErrNotFound
	}
	return nil
}

func (r *KnowledgeRepository) Delete(ctx context.Context, id string) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&knowledgeKeyword{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&knowledgeRecord{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return fmt.Errorf("delete knowledge item: %w", err)
	}
	if affected == 0 {
		return knowledge.ErrNotFound
	}
	return nil
}

// Count returns the number of stored items, active or not.
func (r *KnowledgeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&knowledgeRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count knowledge items: %w", err)
	}
	return count, nil
}

// Seed inserts items when the store is empty and reports how many were written.
func (r *KnowledgeRepository) Seed(ctx context.Context, items []knowledge.Item, actor string) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i, item := range items {
		item.CreatedBy, item.UpdatedBy = actor, actor
		if _, err := r.Create(ctx, item); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

func (r *KnowledgeRepository) filtered(db *gorm.DB, filter knowledge.Filter) *gorm.DB {
	db = db.Where("active = ?", true)
	if category := strings.TrimSpace(filter.Category); category != "" {
		db = db.Where("category_search = ?", strings.ToLower(category))
	}
	if filter.Phase != nil {
		db = db.Where(datatypes.JSONQuery("metadata").Equals(*filter.Phase, "phase"))
	}
	return db
}

func (r *KnowledgeRepository) find(db *gorm.DB) ([]knowledge.Item, error) {
	var records []knowledgeRecord
	if err := db.Preload("Keywords", orderKeywords).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	items := make([]knowledge.Item, 0, len(records))
	for _, record := range records {
		item, err := toItem(record)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func orderKeywords(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toRecord(item knowledge.Item) (knowledgeRecord, error) {
	metadata := map[string]any{}
	if item.Phase != nil {
		metadata["phase"] = *item.Phase
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return knowledgeRecord{}, fmt.Errorf("encode knowledge metadata: %w", err)
	}

	keywords := knowledge.NormalizeKeywords(item.Keywords)
	rows := make([]knowledgeKeyword, 0, len(keywords))
	for i, kw := range keywords {
		rows = append(rows, knowledgeKeyword{ItemID: item.ID, Keyword: kw, Position: i})
	}

	return knowledgeRecord{
		ID:             item.ID,
		Category:       item.Category,
		Question:       item.Question,
		Answer:         item.Answer,
		CategorySearch: strings.ToLower(strings.TrimSpace(item.Category)),
		QuestionSearch: strings.ToLower(item.Question),
		AnswerSearch:   strings.ToLower(item.Answer),
		Metadata:       datatypes.JSON(raw),
		Active:         item.Active,
		Keywords:       rows,
		CreatedBy:      item.CreatedBy,
		UpdatedBy:      item.UpdatedBy,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}, nil
}

func toItem(record knowledgeRecord) (knowledge.Item, error) {
	metadata, err := decodeMetadata(record.Metadata)
	if err != nil {
		return knowledge.Item{}, fmt.Errorf("knowledge item %s: %w", record.ID, err)
	}

	keywords := make([]string, 0, len(record.Keywords))
	for _, kw := range record.Keywords {
		keywords = append(keywords, kw.Keyword)
	}

	return knowledge.Item{
		ID:        record.ID,
		Category:  record.Category,
		Question:  record.Question,
		Answer:    record.Answer,
		Keywords:  keywords,
		Phase:     metadata.Phase,
		Active:    record.Active,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		CreatedBy: record.CreatedBy,
		UpdatedBy: record.UpdatedBy,
	}, nil
}

func decodeMetadata(raw datatypes.JSON) (knowledgeMetadata, error) {
	var metadata knowledgeMetadata
	if len(raw) == 0 {
		return metadata, nil
	}

	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return metadata, fmt.Errorf("decode metadata: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &metadata,
	})
	if err != nil {
		return metadata, err
	}
	if err := decoder.Decode(values); err != nil {
		return metadata, fmt.Errorf("decode metadata: %w", err)
	}

	return metadata, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
