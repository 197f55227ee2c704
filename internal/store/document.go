package store

import (
	"context"
	"errors"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document interface {
	Create(ctx context.Context, doc model.Document) (*model.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
}

type DocumentStore struct {
	db *gorm.DB
}

var _ Document = (*DocumentStore)(nil)

func NewDocumentStore(db *gorm.DB) Document {
	return &DocumentStore{db: db}
}

func (d *DocumentStore) Create(ctx context.Context, doc model.Document) (*model.Document, error) {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if result := getDB(ctx, d.db).Create(&doc); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &doc, nil
}

func (d *DocumentStore) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if result := getDB(ctx, d.db).First(&doc, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &doc, nil
}
