package storage

import (
	"time"

	"gorm.io/datatypes"
)

type knowledgeRecord struct {
	ID             string             `gorm:"primaryKey;size:36"`
	Category       string             `gorm:"size:120;not null;index"`
	Question       string             `gorm:"type:text;not null"`
	Answer         string             `gorm:"type:text;not null"`
	CategorySearch string             `gorm:"size:120;index"`
	QuestionSearch string             `gorm:"type:text"`
	AnswerSearch   string             `gorm:"type:text"`
	Metadata       datatypes.JSON     `gorm:"type:json"`
	Active         bool               `gorm:"not null;index"`
	Keywords       []knowledgeKeyword `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedBy      string             `gorm:"size:120"`
	UpdatedBy      string             `gorm:"size:120"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (knowledgeRecord) TableName() string { return "knowledge_items" }

type knowledgeKeyword struct {
	ID       uint   `gorm:"primaryKey"`
	ItemID   string `gorm:"size:36;not null;index"`
	Keyword  string `gorm:"size:120;not null"`
	Position int    `gorm:"not null"`
}

func (knowledgeKeyword) TableName() string { return "knowledge_keywords" }

type postingRecord struct {
	ID                  string `gorm:"primaryKey;size:36"`
	Title               string `gorm:"size:200;not null"`
	Department          string `gorm:"size:120"`
	Location            string `gorm:"size:120"`
	Requirements        string `gorm:"type:text"`
	Responsibilities    string `gorm:"type:text"`
	InterviewGuidelines string `gorm:"type:text"`
	Active              bool   `gorm:"not null;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (postingRecord) TableName() string { return "job_postings" }

type applicationRecord struct {
	ID               string            `gorm:"primaryKey;size:36"`
	FullName         string            `gorm:"size:200;not null"`
	Email            string            `gorm:"size:254;not null;uniqueIndex"`
	CoverLetter      string            `gorm:"type:text"`
	ResumeFilename   string            `gorm:"size:255"`
	ResumeMIME       string            `gorm:"size:100"`
	Resume           []byte            `gorm:"not null"`
	Status           string            `gorm:"size:20;not null;index"`
	FitScore         int               `gorm:"not null"`
	BestMatch        string            `gorm:"size:255"`
	ResumeSummary    string            `gorm:"type:text"`
	EvaluationText   string            `gorm:"type:text"`
	MatchPercentages datatypes.JSONMap `gorm:"type:json"`
	ReevaluatedBy    string            `gorm:"size:120"`
	ReevaluatedAt    *time.Time
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (applicationRecord) TableName() string { return "applications" }
