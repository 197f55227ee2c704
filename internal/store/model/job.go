package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Document struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID       string    `gorm:"not null;type:VARCHAR(255)"`
	FileName    string    `gorm:"not null;type:TEXT"`
	FilePath    string    `gorm:"not null;type:TEXT"`
	ContentType string    `gorm:"type:VARCHAR(255)"`
	Size        int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
}

// ExtractionJob tracks one parse/classify run over an uploaded document.
type ExtractionJob struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	OrgID        string    `gorm:"not null;type:VARCHAR(255)"`
	DocumentID   uuid.UUID `gorm:"not null;type:VARCHAR(255)"`
	Document     *Document `gorm:"foreignKey:DocumentID;references:ID;constraint:OnDelete:CASCADE;"`
	Status       string    `gorm:"not null;type:VARCHAR(20);default:'pending'"`
	DocumentType string    `gorm:"type:VARCHAR(100)"`
	ErrorMessage *string   `gorm:"type:TEXT"`
	CreatedAt    time.Time `gorm:"not null"`
	FinishedAt   *time.Time
}
