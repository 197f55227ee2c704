package service

import (
	"context"
	"errors"

	"github.com/esgdesk/extraction-review/internal/review"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/google/uuid"
)

type ReviewService struct {
	store store.Store
}

func NewReviewService(s store.Store) *ReviewService {
	return &ReviewService{store: s}
}

// ListPending returns the previews awaiting review, newest first, with their job and
// document preloaded.
func (r *ReviewService) ListPending(ctx context.Context, filter *PreviewFilter) (model.ExtractionPreviewList, error) {
	storeFilter := store.NewPreviewQueryFilter().ByStatus(model.PreviewStatusPending)
	opts := store.NewPreviewQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc).WithJobAndDocument()

	if filter != nil {
		if filter.OrgID != "" {
			storeFilter = storeFilter.ByOrgID(filter.OrgID)
		}
		if filter.TargetTable != "" {
			storeFilter = storeFilter.ByTargetTable(filter.TargetTable)
		}
		if filter.Limit > 0 {
			opts = opts.WithLimit(filter.Limit)
		}
	}

	return r.store.Preview().List(ctx, storeFilter, opts)
}

// GetQueue fetches the pending previews once and splits them into both lanes.
func (r *ReviewService) GetQueue(ctx context.Context, filter *PreviewFilter) (review.Queue, error) {
	previews, err := r.ListPending(ctx, filter)
	if err != nil {
		return review.Queue{}, err
	}
	return review.BuildQueue(previews), nil
}

func (r *ReviewService) GetPreview(ctx context.Context, id uuid.UUID) (review.Item, error) {
	preview, err := r.store.Preview().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return review.Item{}, NewErrPreviewNotFound(id)
		}
		return review.Item{}, err
	}
	return review.NewItem(*preview), nil
}

// ValidateFields runs the required-field check of the preview's target table over a
// candidate field set, typically the reviewer's current edits.
func (r *ReviewService) ValidateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (validation.Errors, error) {
	preview, err := r.store.Preview().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrPreviewNotFound(id)
		}
		return nil, err
	}
	if fields == nil {
		fields = preview.Fields()
	}
	return validation.Validate(preview.TargetTable, fields), nil
}
