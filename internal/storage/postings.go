package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recruitflow/recruiter/internal/ai"
)

// ErrPostingNotFound is returned when a job posting id does not exist.
var ErrPostingNotFound = errors.New("job posting not found")

// PostingRepository stores job postings and serves the active ones to the evaluation pipeline.
type PostingRepository struct {
	db *gorm.DB
}

var _ ai.PostingSource = (*PostingRepository)(nil)

func NewPostingRepository(db *gorm.DB) *PostingRepository {
	return &PostingRepository{db: db}
}

// Active returns active postings ordered by title.
func (r *PostingRepository) Active(ctx context.Context) ([]ai.JobPosting, error) {
	return r.list(r.db.WithContext(ctx).Where("active = ?", true))
}

// List returns every posting ordered by title.
func (r *PostingRepository) List(ctx context.Context) ([]ai.JobPosting, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *PostingRepository) Create(ctx context.Context, posting ai.JobPosting) (ai.JobPosting, error) {
	posting.Title = strings.TrimSpace(posting.Title)
	if posting.Title == "" {
		return ai.JobPosting{}, errors.New("job posting title is required")
	}
	if strings.TrimSpace(posting.ID) == "" {
		posting.ID = uuid.NewString()
	}

	record := postingRecord{
		ID:                  posting.ID,
		Title:               posting.Title,
		Department:          strings.TrimSpace(posting.Department),
		Location:            strings.TrimSpace(posting.Location),
		Requirements:        strings.TrimSpace(posting.Requirements),
		Responsibilities:    strings.TrimSpace(posting.Responsibilities),
		InterviewGuidelines: strings.TrimSpace(posting.InterviewGuidelines),
		Active:              posting.Active,
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return ai.JobPosting{}, fmt.Errorf("insert job posting: %w", err)
	}

	return toPosting(record), nil
}

func (r *PostingRepository) SetActive(ctx context.Context, id string, active bool) error {
	result := r.db.WithContext(ctx).Model(&postingRecord{}).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return fmt.Errorf("update job posting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostingNotFound
	}
	return nil
}

func (r *PostingRepository) list(db *gorm.DB) ([]ai.JobPosting, error) {
	var records []postingRecord
	if err := db.Order("title ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}

	postings := make([]ai.JobPosting, 0, len(records))
	for _, record := range records {
		postings = append(postings, toPosting(record))
	}
	return postings, nil
}

func toPosting(record postingRecord) ai.JobPosting {
	return ai.JobPosting{
		ID:                  record.ID,
		Title:               record.Title,
		Department:          record.Department,
		Location:            record.Location,
		Requirements:        record.Requirements,
		Responsibilities:    record.Responsibilities,
		InterviewGuidelines: record.InterviewGuidelines,
		Active:              record.Active,
	}
}
