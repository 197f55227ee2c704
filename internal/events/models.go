package events

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalLogEvent struct {
	ID                  uuid.UUID `json:"id"`
	PreviewID           uuid.UUID `json:"preview_id"`
	JobID               uuid.UUID `json:"job_id"`
	OrgID               string    `json:"org_id"`
	Action              string    `json:"action"`
	ItemsCount          int       `json:"items_count"`
	HighConfidenceCount *int      `json:"high_confidence_count,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

type JobEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	DocumentID   uuid.UUID `json:"document_id"`
	OrgID        string    `json:"org_id"`
	Status       string    `json:"status"`
	PreviewCount int       `json:"preview_count"`
	Error        string    `json:"error,omitempty"`
}
