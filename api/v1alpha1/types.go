// Package v1alpha1 holds the JSON request and response bodies of the review API.
package v1alpha1

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type SuggestedMappings struct {
	NormalizedFields    map[string]any    `json:"normalized_fields,omitempty"`
	AppliedCorrections  []string          `json:"applied_corrections,omitempty"`
	DataQualityIssues   []string          `json:"data_quality_issues,omitempty"`
	ExtractionReasoning map[string]string `json:"extraction_reasoning,omitempty"`
}

type Preview struct {
	Id                uuid.UUID          `json:"id"`
	ExtractionJobId   uuid.UUID          `json:"extraction_job_id"`
	OrgId             string             `json:"org_id"`
	TargetTable       string             `json:"target_table"`
	ExtractedFields   map[string]any     `json:"extracted_fields"`
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`
	SuggestedMappings *SuggestedMappings `json:"suggested_mappings,omitempty"`
	ValidationStatus  string             `json:"validation_status"`
	FileName          *string            `json:"file_name,omitempty"`
	FilePath          *string            `json:"file_path,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	ReviewedAt        *time.Time         `json:"reviewed_at,omitempty"`
}

type FieldView struct {
	Name        string  `json:"name"`
	Value       any     `json:"value"`
	Normalized  any     `json:"normalized,omitempty"`
	Confidence  float64 `json:"confidence"`
	NeedsReview bool    `json:"needs_review"`
	Error       string  `json:"error,omitempty"`
}

type QueueItem struct {
	Preview           Preview           `json:"preview"`
	AverageConfidence float64           `json:"average_confidence"`
	Band              string            `json:"band"`
	DirectApprove     bool              `json:"direct_approve"`
	NeedsReview       []string          `json:"needs_review"`
	ValidationErrors  map[string]string `json:"validation_errors"`
	Fields            []FieldView       `json:"fields,omitempty"`
}

func (QueueItem) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Queue struct {
	HighConfidence []QueueItem `json:"high_confidence"`
	Individual     []QueueItem `json:"individual"`
	Total          int         `json:"total"`
}

func (Queue) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type FieldEdit struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

type ApprovalLog struct {
	Id                    uuid.UUID   `json:"id"`
	PreviewId             uuid.UUID   `json:"preview_id"`
	JobId                 uuid.UUID   `json:"job_id"`
	OrgId                 string      `json:"org_id"`
	Action                string      `json:"action"`
	ItemsCount            int         `json:"items_count"`
	HighConfidenceCount   *int        `json:"high_confidence_count,omitempty"`
	EditedFields          []FieldEdit `json:"edited_fields,omitempty"`
	RejectionReason       *string     `json:"rejection_reason,omitempty"`
	ProcessingTimeSeconds float64     `json:"processing_time_seconds"`
	CreatedAt             time.Time   `json:"created_at"`
}

type ApprovalLogList []ApprovalLog

func (ApprovalLogList) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ApproveRequest struct {
	EditedFields map[string]any `json:"edited_fields,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type BatchApproveRequest struct {
	PreviewIds []uuid.UUID `json:"preview_ids" validate:"required,min=1,max=500,dive,preview_id"`
}

type ValidateRequest struct {
	Fields map[string]any `json:"fields"`
}

type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

func (ValidateResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ReviewOutcome struct {
	Preview     Preview     `json:"preview"`
	Action      string      `json:"action"`
	TargetId    *uuid.UUID  `json:"target_id,omitempty"`
	Edits       []FieldEdit `json:"edits,omitempty"`
	AuditStatus string      `json:"audit_status"`
	AuditError  *string     `json:"audit_error,omitempty"`
}

func (ReviewOutcome) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type BatchItem struct {
	PreviewId uuid.UUID      `json:"preview_id"`
	Succeeded bool           `json:"succeeded"`
	Outcome   *ReviewOutcome `json:"outcome,omitempty"`
	Error     *string        `json:"error,omitempty"`
}

type BatchApproveResponse struct {
	Items         []BatchItem `json:"items"`
	Approved      int         `json:"approved"`
	Failed        int         `json:"failed"`
	ElapsedMillis int64       `json:"elapsed_ms"`
	Message       *string     `json:"message,omitempty"`
}

func (BatchApproveResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Document struct {
	Id          uuid.UUID `json:"id"`
	OrgId       string    `json:"org_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

type Job struct {
	Id           uuid.UUID  `json:"id"`
	DocumentId   uuid.UUID  `json:"document_id"`
	OrgId        string     `json:"org_id"`
	Status       string     `json:"status"`
	DocumentType string     `json:"document_type,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func (Job) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type UploadResponse struct {
	Document Document  `json:"document"`
	Job      *Job      `json:"job"`
	Previews []Preview `json:"previews"`
}

func (UploadResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Error struct {
	Message   string            `json:"message"`
	RequestId *string           `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (Error) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Health struct {
	Status string `json:"status"`
}

func (Health) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
