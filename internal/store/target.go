package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Target reconciles approved field sets into the domain tables.
type Target interface {
	Insert(ctx context.Context, table string, orgID string, fields map[string]any) (uuid.UUID, error)
	Count(ctx context.Context, table string) (int64, error)
}

type TargetStore struct {
	db     *gorm.DB
	tables map[string]any
}

var _ Target = (*TargetStore)(nil)

func NewTargetStore(db *gorm.DB) Target {
	return &TargetStore{db: db, tables: model.TargetModels()}
}

// Insert writes one row built from fields. id, org_id and created_at are owned by the
// service and override whatever the extraction carried under those names. Nested
// values are stored as their JSON text.
func (t *TargetStore) Insert(ctx context.Context, table string, orgID string, fields map[string]any) (uuid.UUID, error) {
	if _, ok := t.tables[table]; !ok {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrUnknownTargetTable, table)
	}
	if len(fields) == 0 {
		return uuid.Nil, ErrEmptyReconciliation
	}

	id := uuid.New()
	row := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		switch v.(type) {
		case map[string]any, []any:
			b, err := json.Marshal(v)
			if err != nil {
				return uuid.Nil, fmt.Errorf("field %s: %w", k, err)
			}
			row[k] = string(b)
		default:
			row[k] = v
		}
	}
	row["id"] = id.String()
	row["org_id"] = orgID
	row["created_at"] = time.Now().UTC()

	if result := getDB(ctx, t.db).Table(table).Create(row); result.Error != nil {
		return uuid.Nil, result.Error
	}
	return id, nil
}

func (t *TargetStore) Count(ctx context.Context, table string) (int64, error) {
	if _, ok := t.tables[table]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTargetTable, table)
	}
	var count int64
	if result := getDB(ctx, t.db).Table(table).Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
