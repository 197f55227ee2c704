package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/esgdesk/extraction-review/internal/events"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/esgdesk/extraction-review/pkg/metrics"
	"go.uber.org/zap"
)

type AuditStatus string

const (
	AuditLogged AuditStatus = "logged"
	AuditFailed AuditStatus = "failed"
)

// EventWriter is satisfied by *events.EventProducer.
type EventWriter interface {
	Write(ctx context.Context, kind string, body io.Reader) error
}

// AuditWriter appends approval log entries. Appending happens after the review action
// committed, so a failure here is reported and logged but never undoes the action.
type AuditWriter struct {
	store       store.Store
	eventWriter EventWriter
}

func NewAuditWriter(s store.Store, ew EventWriter) *AuditWriter {
	return &AuditWriter{store: s, eventWriter: ew}
}

func (a *AuditWriter) Append(ctx context.Context, entry model.ApprovalLog) (AuditStatus, error) {
	logger := zap.S().Named("audit_writer")

	created, err := a.store.ApprovalLog().Create(ctx, entry)
	if err != nil {
		metrics.IncreaseAuditFailureMetric()
		logger.Errorw("failed to write approval log", "error", err, "preview_id", entry.PreviewID, "action", entry.Action)
		return AuditFailed, err
	}

	a.publish(ctx, created)
	return AuditLogged, nil
}

func (a *AuditWriter) List(ctx context.Context, filter *AuditFilter) (model.ApprovalLogList, error) {
	storeFilter := store.NewApprovalLogQueryFilter()
	if filter != nil {
		if filter.OrgID != "" {
			storeFilter = storeFilter.ByOrgID(filter.OrgID)
		}
		if filter.PreviewID != nil {
			storeFilter = storeFilter.ByPreviewID(*filter.PreviewID)
		}
		if filter.JobID != nil {
			storeFilter = storeFilter.ByJobID(*filter.JobID)
		}
		if filter.Action != "" {
			storeFilter = storeFilter.ByAction(filter.Action)
		}
	}
	return a.store.ApprovalLog().List(ctx, storeFilter)
}

func (a *AuditWriter) publish(ctx context.Context, entry *model.ApprovalLog) {
	if a.eventWriter == nil {
		return
	}

	data, err := json.Marshal(events.ApprovalLogEvent{
		ID:                  entry.ID,
		PreviewID:           entry.PreviewID,
		JobID:               entry.JobID,
		OrgID:               entry.OrgID,
		Action:              entry.Action,
		ItemsCount:          entry.ItemsCount,
		HighConfidenceCount: entry.HighConfidenceCount,
		CreatedAt:           entry.CreatedAt,
	})
	if err != nil {
		return
	}

	if err := a.eventWriter.Write(ctx, events.ApprovalLogCreatedKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("audit_writer").Errorw("failed to write event", "error", err, "event_kind", events.ApprovalLogCreatedKind)
	}
}
