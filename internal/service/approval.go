package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/esgdesk/extraction-review/internal/confidence"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/esgdesk/extraction-review/pkg/metrics"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Outcome is the result of a committed review action. The action itself is final;
// Audit tells whether its approval log entry was written too.
type Outcome struct {
	Preview  model.ExtractionPreview
	Action   string
	TargetID uuid.UUID
	Edits    []model.FieldEdit
	Audit    AuditStatus
	AuditErr error
}

type BatchItemResult struct {
	PreviewID uuid.UUID
	Outcome   *Outcome
	Err       error
}

func (r BatchItemResult) Succeeded() bool {
	return r.Err == nil
}

type BatchResult struct {
	Items    []BatchItemResult
	Approved int
	Failed   int
	Elapsed  time.Duration
}

type ApprovalService struct {
	store store.Store
	audit *AuditWriter
}

func NewApprovalService(s store.Store, audit *AuditWriter) *ApprovalService {
	return &ApprovalService{store: s, audit: audit}
}

// Approve reconciles a pending preview into its target table. editedFields, when not
// nil, replaces the extracted fields and the audit entry records the difference.
func (a *ApprovalService) Approve(ctx context.Context, id uuid.UUID, editedFields map[string]any) (*Outcome, error) {
	return a.approve(ctx, id, editedFields, false)
}

// BatchApprove approves the previews one after the other in the given order. A failed
// item does not stop the batch and successful items are never reverted. When any item
// failed the per-item results come back together with ErrBatchPartialFailure.
func (a *ApprovalService) BatchApprove(ctx context.Context, ids []uuid.UUID) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{Items: make([]BatchItemResult, 0, len(ids))}

	for _, id := range ids {
		var (
			outcome *Outcome
			err     error
		)
		if err = ctx.Err(); err == nil {
			outcome, err = a.approve(ctx, id, nil, true)
		}

		result.Items = append(result.Items, BatchItemResult{PreviewID: id, Outcome: outcome, Err: err})
		if err != nil {
			result.Failed++
			metrics.IncreaseBatchItemMetric("failed")
			zap.S().Named("approval_service").Warnw("batch item failed", "preview_id", id, "error", err)
			continue
		}
		result.Approved++
		metrics.IncreaseBatchItemMetric("approved")
	}
	result.Elapsed = time.Since(start)

	zap.S().Named("approval_service").Infow("batch approval finished",
		"total", len(ids), "approved", result.Approved, "failed", result.Failed, "elapsed", result.Elapsed)

	if result.Failed > 0 {
		return result, NewErrBatchPartialFailure(result.Failed, len(ids))
	}
	return result, nil
}

// Reject closes a pending preview without touching any target table. reason is
// stored as given.
func (a *ApprovalService) Reject(ctx context.Context, id uuid.UUID, reason string) (*Outcome, error) {
	start := time.Now()

	preview, err := a.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.store.Preview().Transition(ctx, id, model.PreviewStatusPending, model.PreviewStatusRejected); err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			return nil, NewErrPreviewNotPending(id, "concurrent review")
		}
		return nil, err
	}
	markReviewed(preview, model.PreviewStatusRejected)

	entry := model.ApprovalLog{
		PreviewID:             preview.ID,
		JobID:                 preview.ExtractionJobID,
		OrgID:                 preview.OrgID,
		Action:                model.ApprovalActionRejected,
		ItemsCount:            len(preview.ExtractedFields),
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}
	if reason != "" {
		entry.RejectionReason = &reason
	}

	return a.finish(ctx, preview, entry, uuid.Nil, nil, start), nil
}

func (a *ApprovalService) approve(ctx context.Context, id uuid.UUID, editedFields map[string]any, batch bool) (*Outcome, error) {
	start := time.Now()

	preview, err := a.getPending(ctx, id)
	if err != nil {
		return nil, err
	}

	original := preview.Fields()
	fields := original
	if editedFields != nil {
		fields = editedFields
	}

	if !validation.IsKnownTable(preview.TargetTable) {
		return nil, NewErrUnknownTargetTable(preview.TargetTable)
	}
	if errs := validation.Validate(preview.TargetTable, fields); !errs.Valid() {
		return nil, NewErrValidation(errs)
	}

	targetID, err := a.reconcile(ctx, preview, fields)
	if err != nil {
		return nil, err
	}
	markReviewed(preview, model.PreviewStatusApproved)

	entry := model.ApprovalLog{
		PreviewID:  preview.ID,
		JobID:      preview.ExtractionJobID,
		OrgID:      preview.OrgID,
		Action:     model.ApprovalActionApproved,
		ItemsCount: len(original),
	}

	var edits []model.FieldEdit
	switch {
	case batch:
		entry.Action = model.ApprovalActionBatchApproved
		high := confidence.CountAtLeast(preview.Scores(), confidence.BatchLaneThreshold)
		entry.HighConfidenceCount = &high
	case editedFields != nil:
		edits = diffFields(original, editedFields)
		if len(edits) > 0 {
			entry.Action = model.ApprovalActionEdited
			entry.EditedFields = datatypes.NewJSONType(edits)
		}
	}
	entry.ProcessingTimeSeconds = time.Since(start).Seconds()

	return a.finish(ctx, preview, entry, targetID, edits, start), nil
}

// reconcile moves the preview out of Pendente and inserts the fields in one
// transaction. The status update only matches a still pending row, so a concurrent
// approval of the same preview cannot insert a second target row.
func (a *ApprovalService) reconcile(ctx context.Context, preview *model.ExtractionPreview, fields map[string]any) (uuid.UUID, error) {
	txCtx, err := a.store.NewTransactionContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	if err := a.store.Preview().Transition(txCtx, preview.ID, model.PreviewStatusPending, model.PreviewStatusApproved); err != nil {
		_, _ = store.Rollback(txCtx)
		if errors.Is(err, store.ErrStatusConflict) {
			return uuid.Nil, NewErrPreviewNotPending(preview.ID, "concurrent review")
		}
		return uuid.Nil, err
	}

	targetID, err := a.store.Target().Insert(txCtx, preview.TargetTable, preview.OrgID, fields)
	if err != nil {
		_, _ = store.Rollback(txCtx)
		metrics.IncreaseReconciliationFailureMetric(preview.TargetTable)
		zap.S().Named("approval_service").Errorw("reconciliation failed", "preview_id", preview.ID, "target_table", preview.TargetTable, "error", err)
		return uuid.Nil, NewErrReconciliation(preview.TargetTable, err)
	}

	if _, err := store.Commit(txCtx); err != nil {
		return uuid.Nil, NewErrReconciliation(preview.TargetTable, err)
	}
	return targetID, nil
}

func (a *ApprovalService) finish(ctx context.Context, preview *model.ExtractionPreview, entry model.ApprovalLog, targetID uuid.UUID, edits []model.FieldEdit, start time.Time) *Outcome {
	status, auditErr := a.audit.Append(ctx, entry)

	metrics.IncreaseReviewActionMetric(entry.Action, preview.TargetTable)
	metrics.ObserveReviewActionDuration(entry.Action, time.Since(start).Seconds())

	zap.S().Named("approval_service").Infow("preview reviewed",
		"preview_id", preview.ID, "action", entry.Action, "target_table", preview.TargetTable, "audit", status)

	return &Outcome{
		Preview:  *preview,
		Action:   entry.Action,
		TargetID: targetID,
		Edits:    edits,
		Audit:    status,
		AuditErr: auditErr,
	}
}

func (a *ApprovalService) getPending(ctx context.Context, id uuid.UUID) (*model.ExtractionPreview, error) {
	preview, err := a.store.Preview().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPreviewNotFound(id)
		}
		return nil, err
	}
	if !preview.IsPending() {
		return nil, NewErrPreviewNotPending(id, preview.ValidationStatus)
	}
	return preview, nil
}

func markReviewed(p *model.ExtractionPreview, status string) {
	now := time.Now().UTC()
	p.ValidationStatus = status
	p.ReviewedAt = &now
	p.UpdatedAt = now
}

// diffFields lists, sorted by name, every field whose value differs between the
// extraction and the reviewer's edits. A field dropped by the edit has a nil new value.
func diffFields(original, edited map[string]any) []model.FieldEdit {
	original, edited = model.PlainFields(original), model.PlainFields(edited)
	names := make(map[string]struct{}, len(original)+len(edited))
	for k := range original {
		names[k] = struct{}{}
	}
	for k := range edited {
		names[k] = struct{}{}
	}

	edits := []model.FieldEdit{}
	for name := range names {
		oldValue, newValue := original[name], edited[name]
		if cmp.Equal(oldValue, newValue) {
			continue
		}
		edits = append(edits, model.FieldEdit{Field: name, OldValue: oldValue, NewValue: newValue})
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Field < edits[j].Field })
	return edits
}
