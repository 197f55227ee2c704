package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Review states of an extraction preview. Both terminal states are final.
const (
	PreviewStatusPending  = "Pendente"
	PreviewStatusApproved = "Aprovado"
	PreviewStatusRejected = "Rejeitado"
)

// SuggestedMappings is the auxiliary block returned by the classifier next to the raw fields.
type SuggestedMappings struct {
	NormalizedFields    map[string]any    `json:"normalized_fields,omitempty"`
	AppliedCorrections  []string          `json:"applied_corrections,omitempty"`
	DataQualityIssues   []string          `json:"data_quality_issues,omitempty"`
	ExtractionReasoning map[string]string `json:"extraction_reasoning,omitempty"`
}

type ExtractionPreview struct {
	ID                uuid.UUID                              `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	ExtractionJobID   uuid.UUID                              `gorm:"not null;type:VARCHAR(255);index:extraction_previews_job_id_idx"`
	Job               *ExtractionJob                         `gorm:"foreignKey:ExtractionJobID;references:ID;constraint:OnDelete:CASCADE;"`
	OrgID             string                                 `gorm:"not null;type:VARCHAR(255);index:extraction_previews_org_id_idx"`
	TargetTable       string                                 `gorm:"not null;type:VARCHAR(100)"`
	ExtractedFields   datatypes.JSONMap                      `gorm:"not null"`
	ConfidenceScores  datatypes.JSONType[map[string]float64] `gorm:"not null"`
	SuggestedMappings datatypes.JSONType[SuggestedMappings]
	ValidationStatus  string    `gorm:"not null;type:VARCHAR(20);default:'Pendente';index:extraction_previews_status_idx"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time
	ReviewedAt        *time.Time
}

type ExtractionPreviewList []ExtractionPreview

// Fields returns a copy of the extracted fields as a plain map.
func (p ExtractionPreview) Fields() map[string]any {
	return PlainFields(p.ExtractedFields)
}

// PlainFields copies fields into the types encoding/json produces for an untyped
// document, so numbers are float64 whether they came from a request or from a
// JSON column scanned as json.Number. Values that cannot be encoded are copied as is.
func PlainFields(fields map[string]any) map[string]any {
	plain := make(map[string]any, len(fields))
	if len(fields) == 0 {
		return plain
	}
	if raw, err := json.Marshal(fields); err == nil {
		decoded := map[string]any{}
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded
		}
	}
	for k, v := range fields {
		plain[k] = v
	}
	return plain
}

// Scores returns the confidence map, never nil.
func (p ExtractionPreview) Scores() map[string]float64 {
	scores := p.ConfidenceScores.Data()
	if scores == nil {
		return map[string]float64{}
	}
	return scores
}

func (p ExtractionPreview) IsPending() bool {
	return p.ValidationStatus == PreviewStatusPending
}

func (p ExtractionPreview) String() string {
	val, _ := json.Marshal(p)
	return string(val)
}
