package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ApprovalActionApproved      = "approved"
	ApprovalActionEdited        = "edited"
	ApprovalActionBatchApproved = "batch_approved"
	ApprovalActionRejected      = "rejected"
)

// FieldEdit records a single field changed by a reviewer before approval.
type FieldEdit struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// ApprovalLog is an immutable audit record, one per review action.
type ApprovalLog struct {
	ID                    uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	PreviewID             uuid.UUID `gorm:"not null;type:VARCHAR(255);index:approval_logs_preview_id_idx"`
	JobID                 uuid.UUID `gorm:"not null;type:VARCHAR(255)"`
	OrgID                 string    `gorm:"not null;type:VARCHAR(255)"`
	Action                string    `gorm:"not null;type:VARCHAR(20)"`
	ItemsCount            int       `gorm:"not null;default:0"`
	HighConfidenceCount   *int
	EditedFields          datatypes.JSONType[[]FieldEdit]
	RejectionReason       *string   `gorm:"type:TEXT"`
	ProcessingTimeSeconds float64   `gorm:"not null;default:0"`
	CreatedAt             time.Time `gorm:"not null"`
}

type ApprovalLogList []ApprovalLog

func (ApprovalLog) TableName() string { return "extraction_approval_logs" }

func (a ApprovalLog) Edits() []FieldEdit {
	return a.EditedFields.Data()
}

func (a ApprovalLog) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
