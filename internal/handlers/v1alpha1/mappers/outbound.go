package mappers

import (
	api "github.com/esgdesk/extraction-review/api/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/review"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/google/uuid"
)

func PreviewToApi(p model.ExtractionPreview) api.Preview {
	preview := api.Preview{
		Id:               p.ID,
		ExtractionJobId:  p.ExtractionJobID,
		OrgId:            p.OrgID,
		TargetTable:      p.TargetTable,
		ExtractedFields:  p.Fields(),
		ConfidenceScores: p.Scores(),
		ValidationStatus: p.ValidationStatus,
		CreatedAt:        p.CreatedAt,
		ReviewedAt:       p.ReviewedAt,
	}

	sm := p.SuggestedMappings.Data()
	if len(sm.NormalizedFields) > 0 || len(sm.AppliedCorrections) > 0 || len(sm.DataQualityIssues) > 0 || len(sm.ExtractionReasoning) > 0 {
		preview.SuggestedMappings = &api.SuggestedMappings{
			NormalizedFields:    sm.NormalizedFields,
			AppliedCorrections:  sm.AppliedCorrections,
			DataQualityIssues:   sm.DataQualityIssues,
			ExtractionReasoning: sm.ExtractionReasoning,
		}
	}

	if p.Job != nil && p.Job.Document != nil {
		preview.FileName = &p.Job.Document.FileName
		preview.FilePath = &p.Job.Document.FilePath
	}

	return preview
}

func PreviewListToApi(previews model.ExtractionPreviewList) []api.Preview {
	out := make([]api.Preview, 0, len(previews))
	for _, p := range previews {
		out = append(out, PreviewToApi(p))
	}
	return out
}

// QueueItemToApi includes the per-field breakdown only for the summary view.
func QueueItemToApi(item review.Item, view review.View) api.QueueItem {
	out := api.QueueItem{
		Preview:           PreviewToApi(item.Preview),
		AverageConfidence: item.AverageConfidence,
		Band:              string(item.Band),
		DirectApprove:     item.DirectApprove,
		NeedsReview:       item.NeedsReview,
		ValidationErrors:  ValidationErrorsToApi(item.ValidationErrors),
	}
	if out.NeedsReview == nil {
		out.NeedsReview = []string{}
	}

	if view == review.ViewSummary {
		summary := review.Summarize(item)
		out.Fields = make([]api.FieldView, 0, len(summary))
		for _, f := range summary {
			out.Fields = append(out.Fields, api.FieldView{
				Name:        f.Name,
				Value:       f.Value,
				Normalized:  f.Normalized,
				Confidence:  f.Confidence,
				NeedsReview: f.NeedsReview,
				Error:       f.Error,
			})
		}
	}

	return out
}

// QueueToApi renders expanded previews raw and the rest in view.
func QueueToApi(q review.Queue, view review.View, expanded review.Expansion) api.Queue {
	out := api.Queue{
		HighConfidence: make([]api.QueueItem, 0, len(q.HighConfidence)),
		Individual:     make([]api.QueueItem, 0, len(q.Individual)),
		Total:          q.Len(),
	}
	for _, item := range q.HighConfidence {
		out.HighConfidence = append(out.HighConfidence, QueueItemToApi(item, view.For(item.Preview.ID, expanded)))
	}
	for _, item := range q.Individual {
		out.Individual = append(out.Individual, QueueItemToApi(item, view.For(item.Preview.ID, expanded)))
	}
	return out
}

func ValidationErrorsToApi(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, kind := range errs {
		out[field] = string(kind)
	}
	return out
}

func FieldEditsToApi(edits []model.FieldEdit) []api.FieldEdit {
	if len(edits) == 0 {
		return nil
	}
	out := make([]api.FieldEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, api.FieldEdit{Field: e.Field, OldValue: e.OldValue, NewValue: e.NewValue})
	}
	return out
}

func OutcomeToApi(o *service.Outcome) api.ReviewOutcome {
	out := api.ReviewOutcome{
		Preview:     PreviewToApi(o.Preview),
		Action:      o.Action,
		Edits:       FieldEditsToApi(o.Edits),
		AuditStatus: string(o.Audit),
	}
	if o.TargetID != uuid.Nil {
		id := o.TargetID
		out.TargetId = &id
	}
	if o.AuditErr != nil {
		msg := o.AuditErr.Error()
		out.AuditError = &msg
	}
	return out
}

func BatchResultToApi(r *service.BatchResult) api.BatchApproveResponse {
	out := api.BatchApproveResponse{
		Items:         make([]api.BatchItem, 0, len(r.Items)),
		Approved:      r.Approved,
		Failed:        r.Failed,
		ElapsedMillis: r.Elapsed.Milliseconds(),
	}
	for _, item := range r.Items {
		bi := api.BatchItem{PreviewId: item.PreviewID, Succeeded: item.Succeeded()}
		if item.Outcome != nil {
			o := OutcomeToApi(item.Outcome)
			bi.Outcome = &o
		}
		if item.Err != nil {
			msg := item.Err.Error()
			bi.Error = &msg
		}
		out.Items = append(out.Items, bi)
	}
	return out
}

func ApprovalLogToApi(l model.ApprovalLog) api.ApprovalLog {
	return api.ApprovalLog{
		Id:                    l.ID,
		PreviewId:             l.PreviewID,
		JobId:                 l.JobID,
		OrgId:                 l.OrgID,
		Action:                l.Action,
		ItemsCount:            l.ItemsCount,
		HighConfidenceCount:   l.HighConfidenceCount,
		EditedFields:          FieldEditsToApi(l.Edits()),
		RejectionReason:       l.RejectionReason,
		ProcessingTimeSeconds: l.ProcessingTimeSeconds,
		CreatedAt:             l.CreatedAt,
	}
}

func ApprovalLogListToApi(logs model.ApprovalLogList) api.ApprovalLogList {
	out := make(api.ApprovalLogList, 0, len(logs))
	for _, l := range logs {
		out = append(out, ApprovalLogToApi(l))
	}
	return out
}

func DocumentToApi(d model.Document) api.Document {
	return api.Document{
		Id:          d.ID,
		OrgId:       d.OrgID,
		FileName:    d.FileName,
		FilePath:    d.FilePath,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt,
	}
}

func JobToApi(j model.ExtractionJob) api.Job {
	return api.Job{
		Id:           j.ID,
		DocumentId:   j.DocumentID,
		OrgId:        j.OrgID,
		Status:       j.Status,
		DocumentType: j.DocumentType,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		FinishedAt:   j.FinishedAt,
	}
}

func UploadResultToApi(r *service.UploadResult) api.UploadResponse {
	job := JobToApi(r.Job)
	return api.UploadResponse{
		Document: DocumentToApi(r.Document),
		Job:      &job,
		Previews: PreviewListToApi(r.Previews),
	}
}
