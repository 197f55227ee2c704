package service

import (
	"github.com/google/uuid"
)

type PreviewFilterFunc func(f *PreviewFilter)

type PreviewFilter struct {
	OrgID       string
	TargetTable string
	Limit       int
}

func NewPreviewFilter(filters ...PreviewFilterFunc) *PreviewFilter {
	f := &PreviewFilter{}
	for _, fn := range filters {
		fn(f)
	}
	return f
}

func (f *PreviewFilter) WithOption(o PreviewFilterFunc) *PreviewFilter {
	o(f)
	return f
}

func WithOrgID(orgID string) PreviewFilterFunc {
	return func(f *PreviewFilter) {
		f.OrgID = orgID
	}
}

func WithTargetTable(table string) PreviewFilterFunc {
	return func(f *PreviewFilter) {
		f.TargetTable = table
	}
}

func WithLimit(limit int) PreviewFilterFunc {
	return func(f *PreviewFilter) {
		f.Limit = limit
	}
}

type AuditFilter struct {
	OrgID     string
	PreviewID *uuid.UUID
	JobID     *uuid.UUID
	Action    string
}
