package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/recruitflow/recruiter/internal/ai"
	"github.com/recruitflow/recruiter/internal/recruiting"
)

// ApplicationRepository persists candidate applications. The unique index on
// email turns a concurrent duplicate insert into recruiting.ErrDuplicateApplication.
type ApplicationRepository struct {
	db *gorm.DB
}

var _ recruiting.Repository = (*ApplicationRepository)(nil)

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&applicationRecord{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count applications by email: %w", err)
	}
	return count > 0, nil
}

func (r *ApplicationRepository) Create(ctx context.Context, app *recruiting.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}

	record := fromApplication(app)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return recruiting.ErrDuplicateApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}

	app.CreatedAt = record.CreatedAt
	app.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id string) (*recruiting.Application, error) {
	var record applicationRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, recruiting.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return toApplication(record)
}

// List returns applications newest first. An empty status lists all of them.
// Resume bytes are not loaded.
func (r *ApplicationRepository) List(ctx context.Context, status recruiting.Status) ([]recruiting.Application, error) {
	db := r.db.WithContext(ctx).Omit("resume")
	if status != "" {
		db = db.Where("status = ?", string(status))
	}

	var records []applicationRecord
	if err := db.Order("created_at DESC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]recruiting.Application, 0, len(records))
	for _, record := range records {
		app, err := toApplication(record)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

func (r *ApplicationRepository) UpdateEvaluation(ctx context.Context, id string, result ai.EvaluationResult, actor string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&applicationRecord{}).Where("id = ?", id).Updates(map[string]any{
		"fit_score":         result.FitScore,
		"best_match":        result.BestMatch,
		"resume_summary":    result.ResumeSummary,
		"evaluation_text":   result.EvaluationText,
		"match_percentages": percentagesToJSON(result.MatchPercentages),
		"reevaluated_by":    actor,
		"reevaluated_at":    at,
	})
	if res.Error != nil {
		return fmt.Errorf("update application evaluation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return recruiting.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status recruiting.Status) error {
	res := r.db.WithContext(ctx).Model(&applicationRecord{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("update application status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return recruiting.ErrNotFound
	}
	return nil
}

func fromApplication(app *recruiting.Application) applicationRecord {
	return applicationRecord{
		ID:               app.ID,
		FullName:         app.FullName,
		Email:            app.Email,
		CoverLetter:      app.CoverLetter,
		ResumeFilename:   app.Resume.Filename,
		ResumeMIME:       app.Resume.MIMEType,
		Resume:           app.Resume.Data,
		Status:           string(app.Status),
		FitScore:         app.Evaluation.FitScore,
		BestMatch:        app.Evaluation.BestMatch,
		ResumeSummary:    app.Evaluation.ResumeSummary,
		EvaluationText:   app.Evaluation.EvaluationText,
		MatchPercentages: percentagesToJSON(app.Evaluation.MatchPercentages),
		ReevaluatedBy:    app.ReevaluatedBy,
		ReevaluatedAt:    app.ReevaluatedAt,
		CreatedAt:        app.CreatedAt,
		UpdatedAt:        app.UpdatedAt,
	}
}

func toApplication(record applicationRecord) (*recruiting.Application, error) {
	percentages := map[string]int{}
	if len(record.MatchPercentages) > 0 {
		if err := mapstructure.WeakDecode(map[string]any(record.MatchPercentages), &percentages); err != nil {
			return nil, fmt.Errorf("application %s: decode match percentages: %w", record.ID, err)
		}
	}

	return &recruiting.Application{
		ID:          record.ID,
		FullName:    record.FullName,
		Email:       record.Email,
		CoverLetter: record.CoverLetter,
		Resume: ai.Document{
			Filename: record.ResumeFilename,
			MIMEType: record.ResumeMIME,
			Data:     record.Resume,
		},
		Status: recruiting.Status(record.Status),
		Evaluation: ai.EvaluationResult{
			EvaluationText:   record.EvaluationText,
			FitScore:         record.FitScore,
			ResumeSummary:    record.ResumeSummary,
			BestMatch:        record.BestMatch,
			MatchPercentages: percentages,
		},
		ReevaluatedBy: record.ReevaluatedBy,
		ReevaluatedAt: record.ReevaluatedAt,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}, nil
}

func percentagesToJSON(values map[string]int) datatypes.JSONMap {
	result := make(datatypes.JSONMap, len(values))
	for k, v := range values {
		result[k] = v
	}
	return result
}
