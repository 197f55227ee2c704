package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type SortOrder int

const (
	SortByCreatedTimeDesc SortOrder = iota
	SortByCreatedTimeAsc
)

type PreviewQueryFilter BaseQuerier

func NewPreviewQueryFilter() *PreviewQueryFilter {
	return &PreviewQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *PreviewQueryFilter) ByStatus(status string) *PreviewQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("validation_status = ?", status)
	})
	return f
}

func (f *PreviewQueryFilter) ByOrgID(orgID string) *PreviewQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}

func (f *PreviewQueryFilter) ByTargetTable(table string) *PreviewQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("target_table = ?", table)
	})
	return f
}

func (f *PreviewQueryFilter) ByIDs(ids []uuid.UUID) *PreviewQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id IN ?", ids)
	})
	return f
}

type PreviewQueryOptions BaseQuerier

func NewPreviewQueryOptions() *PreviewQueryOptions {
	return &PreviewQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *PreviewQueryOptions) WithSortOrder(sort SortOrder) *PreviewQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByCreatedTimeAsc:
			return tx.Order("created_at ASC")
		default:
			return tx.Order("created_at DESC")
		}
	})
	return o
}

func (o *PreviewQueryOptions) WithLimit(limit int) *PreviewQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

// WithJobAndDocument preloads the originating job and its document metadata.
func (o *PreviewQueryOptions) WithJobAndDocument() *PreviewQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Job.Document")
	})
	return o
}

type ApprovalLogQueryFilter BaseQuerier

func NewApprovalLogQueryFilter() *ApprovalLogQueryFilter {
	return &ApprovalLogQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *ApprovalLogQueryFilter) ByPreviewID(id uuid.UUID) *ApprovalLogQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("preview_id = ?", id)
	})
	return f
}

func (f *ApprovalLogQueryFilter) ByJobID(id uuid.UUID) *ApprovalLogQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", id)
	})
	return f
}

func (f *ApprovalLogQueryFilter) ByAction(action string) *ApprovalLogQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("action = ?", action)
	})
	return f
}

func (f *ApprovalLogQueryFilter) ByOrgID(orgID string) *ApprovalLogQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("org_id = ?", orgID)
	})
	return f
}
