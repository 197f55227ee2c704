package store

import (
	"context"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalLog interface {
	Create(ctx context.Context, entry model.ApprovalLog) (*model.ApprovalLog, error)
	List(ctx context.Context, filter *ApprovalLogQueryFilter) (model.ApprovalLogList, error)
}

type ApprovalLogStore struct {
	db *gorm.DB
}

// Make sure we conform to ApprovalLog interface
var _ ApprovalLog = (*ApprovalLogStore)(nil)

func NewApprovalLogStore(db *gorm.DB) ApprovalLog {
	return &ApprovalLogStore{db: db}
}

func (a *ApprovalLogStore) Create(ctx context.Context, entry model.ApprovalLog) (*model.ApprovalLog, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if result := getDB(ctx, a.db).Create(&entry); result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

func (a *ApprovalLogStore) List(ctx context.Context, filter *ApprovalLogQueryFilter) (model.ApprovalLogList, error) {
	var entries model.ApprovalLogList
	tx := getDB(ctx, a.db).Model(&entries).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&entries); result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
