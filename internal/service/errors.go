package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrPreviewNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "extraction preview")
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "extraction job")
}

type ErrPreviewNotPending struct {
	error
}

func NewErrPreviewNotPending(id uuid.UUID, status string) *ErrPreviewNotPending {
	return &ErrPreviewNotPending{fmt.Errorf("extraction preview %s was already reviewed (%s)", id, status)}
}

// ErrValidation carries the per-field validation result that blocked an approval.
type ErrValidation struct {
	error
	Fields validation.Errors
}

func NewErrValidation(fields validation.Errors) *ErrValidation {
	return &ErrValidation{
		error:  fmt.Errorf("required fields missing: %s", strings.Join(fields.Fields(), ", ")),
		Fields: fields,
	}
}

// ErrReconciliation reports a failed insert into the target table. The store's
// message is kept verbatim for the reviewer.
type ErrReconciliation struct {
	error
	cause error
}

func NewErrReconciliation(table string, cause error) *ErrReconciliation {
	return &ErrReconciliation{
		error: fmt.Errorf("failed to insert into %s: %s", table, cause),
		cause: cause,
	}
}

func (e *ErrReconciliation) Unwrap() error {
	return e.cause
}

type ErrUnknownTargetTable struct {
	error
}

func NewErrUnknownTargetTable(table string) *ErrUnknownTargetTable {
	return &ErrUnknownTargetTable{fmt.Errorf("unknown target table %q", table)}
}

// ErrBatchPartialFailure is returned by a batch approval where at least one item failed.
// The per-item results are returned alongside it.
type ErrBatchPartialFailure struct {
	error
	Failed int
	Total  int
}

func NewErrBatchPartialFailure(failed, total int) *ErrBatchPartialFailure {
	return &ErrBatchPartialFailure{
		error:  fmt.Errorf("%d of %d previews could not be approved", failed, total),
		Failed: failed,
		Total:  total,
	}
}

type ErrClassification struct {
	error
}

func NewErrClassification(jobID uuid.UUID, cause error) *ErrClassification {
	return &ErrClassification{fmt.Errorf("classification of job %s failed: %w", jobID, cause)}
}

type ErrBadRequest struct {
	error
}

func NewErrBadRequest(message string) *ErrBadRequest {
	return &ErrBadRequest{errors.New(message)}
}
