package store

import (
	"context"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Preview() Preview
	ApprovalLog() ApprovalLog
	Job() Job
	Document() Document
	Target() Target
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	preview     Preview
	approvalLog ApprovalLog
	job         Job
	document    Document
	target      Target
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		preview:     NewPreviewStore(db),
		approvalLog: NewApprovalLogStore(db),
		job:         NewJobStore(db),
		document:    NewDocumentStore(db),
		target:      NewTargetStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Preview() Preview {
	return s.preview
}

func (s *DataStore) ApprovalLog() ApprovalLog {
	return s.approvalLog
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Document() Document {
	return s.document
}

func (s *DataStore) Target() Target {
	return s.target
}

// InitialMigration creates the schema from the models. Postgres deployments use the
// goose migrations instead; this path serves sqlite and local development.
func (s *DataStore) InitialMigration() error {
	models := []any{
		&model.Document{},
		&model.ExtractionJob{},
		&model.ExtractionPreview{},
		&model.ApprovalLog{},
	}
	for _, m := range model.TargetModels() {
		models = append(models, m)
	}
	return s.db.AutoMigrate(models...)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
