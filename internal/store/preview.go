package store

import (
	"context"
	"errors"
	"time"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Preview interface {
	List(ctx context.Context, filter *PreviewQueryFilter, opts *PreviewQueryOptions) (model.ExtractionPreviewList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ExtractionPreview, error)
	Create(ctx context.Context, preview model.ExtractionPreview) (*model.ExtractionPreview, error)
	Transition(ctx context.Context, id uuid.UUID, from, to string) error
	CountByTargetTable(ctx context.Context, status string) (map[string]int64, error)
}

type PreviewStore struct {
	db *gorm.DB
}

// Make sure we conform to Preview interface
var _ Preview = (*PreviewStore)(nil)

func NewPreviewStore(db *gorm.DB) Preview {
	return &PreviewStore{db: db}
}

func (p *PreviewStore) List(ctx context.Context, filter *PreviewQueryFilter, opts *PreviewQueryOptions) (model.ExtractionPreviewList, error) {
	var previews model.ExtractionPreviewList
	tx := getDB(ctx, p.db).Model(&previews)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&previews); result.Error != nil {
		return nil, result.Error
	}
	return previews, nil
}

func (p *PreviewStore) Get(ctx context.Context, id uuid.UUID) (*model.ExtractionPreview, error) {
	var preview model.ExtractionPreview
	result := getDB(ctx, p.db).Preload("Job.Document").First(&preview, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &preview, nil
}

func (p *PreviewStore) Create(ctx context.Context, preview model.ExtractionPreview) (*model.ExtractionPreview, error) {
	if preview.ID == uuid.Nil {
		preview.ID = uuid.New()
	}
	if preview.ValidationStatus == "" {
		preview.ValidationStatus = model.PreviewStatusPending
	}

	if result := getDB(ctx, p.db).Omit("Job").Create(&preview); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &preview, nil
}

// Transition moves a preview from one status to another. The update only applies while
// the row still holds the expected status, so two reviewers racing on the same preview
// cannot both win: the loser gets ErrStatusConflict.
func (p *PreviewStore) Transition(ctx context.Context, id uuid.UUID, from, to string) error {
	now := time.Now().UTC()
	result := getDB(ctx, p.db).
		Model(&model.ExtractionPreview{}).
		Where("id = ? AND validation_status = ?", id, from).
		Updates(map[string]any{
			"validation_status": to,
			"reviewed_at":       now,
			"updated_at":        now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

func (p *PreviewStore) CountByTargetTable(ctx context.Context, status string) (map[string]int64, error) {
	var rows []struct {
		TargetTable string
		Total       int64
	}
	result := getDB(ctx, p.db).
		Model(&model.ExtractionPreview{}).
		Select("target_table, COUNT(*) AS total").
		Where("validation_status = ?", status).
		Group("target_table").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.TargetTable] = r.Total
	}
	return counts, nil
}
