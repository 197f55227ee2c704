package store

import (
	"context"
	"errors"
	"time"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job interface {
	Create(ctx context.Context, job model.ExtractionJob) (*model.ExtractionJob, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ExtractionJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Complete(ctx context.Context, id uuid.UUID, documentType string) error
	Fail(ctx context.Context, id uuid.UUID, message string) error
}

type JobStore struct {
	db *gorm.DB
}

var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (j *JobStore) Create(ctx context.Context, job model.ExtractionJob) (*model.ExtractionJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}
	if result := getDB(ctx, j.db).Omit("Document").Create(&job); result.Error != nil {
		return nil, result.Error
	}
	return &job, nil
}

func (j *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.ExtractionJob, error) {
	var job model.ExtractionJob
	result := getDB(ctx, j.db).Preload("Document").First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (j *JobStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return j.update(ctx, id, map[string]any{"status": status})
}

func (j *JobStore) Complete(ctx context.Context, id uuid.UUID, documentType string) error {
	return j.update(ctx, id, map[string]any{
		"status":        model.JobStatusCompleted,
		"document_type": documentType,
		"finished_at":   time.Now().UTC(),
	})
}

func (j *JobStore) Fail(ctx context.Context, id uuid.UUID, message string) error {
	return j.update(ctx, id, map[string]any{
		"status":        model.JobStatusFailed,
		"error_message": message,
		"finished_at":   time.Now().UTC(),
	})
}

func (j *JobStore) update(ctx context.Context, id uuid.UUID, values map[string]any) error {
	result := getDB(ctx, j.db).Model(&model.ExtractionJob{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
