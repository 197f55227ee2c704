package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/esgdesk/extraction-review/internal/classifier"
	"github.com/esgdesk/extraction-review/internal/confidence"
	"github.com/esgdesk/extraction-review/internal/events"
	"github.com/esgdesk/extraction-review/internal/storage"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/esgdesk/extraction-review/internal/validation"
	"github.com/esgdesk/extraction-review/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type UploadForm struct {
	OrgID       string
	FileName    string
	ContentType string
	Data        []byte
}

type UploadResult struct {
	Document model.Document
	Job      model.ExtractionJob
	Previews model.ExtractionPreviewList
}

// DocumentService takes an uploaded document through storage and classification
// and leaves one pending preview per recognised extraction.
type DocumentService struct {
	store       store.Store
	storage     storage.Storage
	classifier  classifier.Classifier
	eventWriter EventWriter
}

func NewDocumentService(s store.Store, st storage.Storage, c classifier.Classifier, ew EventWriter) *DocumentService {
	return &DocumentService{store: s, storage: st, classifier: c, eventWriter: ew}
}

// Upload stores the file and runs the classifier synchronously. Once the job exists,
// classification problems do not fail the call: the job is marked failed and returned
// together with an ErrClassification.
func (d *DocumentService) Upload(ctx context.Context, form UploadForm) (*UploadResult, error) {
	if form.OrgID == "" {
		return nil, NewErrBadRequest("org_id is required")
	}
	if len(form.Data) == 0 {
		return nil, NewErrBadRequest("file is empty")
	}

	logger := zap.S().Named("document_service")

	docID := uuid.New()
	key := storage.ObjectKey(form.OrgID, docID, form.FileName)
	if err := d.storage.Upload(ctx, key, form.Data, form.ContentType); err != nil {
		return nil, err
	}

	doc, job, err := d.createJob(ctx, model.Document{
		ID:          docID,
		OrgID:       form.OrgID,
		FileName:    form.FileName,
		FilePath:    key,
		ContentType: form.ContentType,
		Size:        int64(len(form.Data)),
	})
	if err != nil {
		if derr := d.storage.Delete(ctx, key); derr != nil {
			logger.Warnw("failed to remove orphan object", "key", key, "error", derr)
		}
		return nil, err
	}
	logger.Infow("document stored", "document_id", doc.ID, "job_id", job.ID, "key", key)

	result := &UploadResult{Document: *doc, Job: *job}

	previews, documentType, err := d.classify(ctx, doc, job)
	if err != nil {
		cerr := NewErrClassification(job.ID, err)
		d.failJob(ctx, &result.Job, cerr)
		return result, cerr
	}

	if err := d.store.Job().Complete(ctx, job.ID, documentType); err != nil {
		return result, err
	}
	result.Job.Status = model.JobStatusCompleted
	result.Job.DocumentType = documentType
	result.Previews = previews

	metrics.IncreaseExtractionJobMetric(model.JobStatusCompleted)
	d.publish(ctx, events.JobEvent{
		JobID:        job.ID,
		DocumentID:   doc.ID,
		OrgID:        doc.OrgID,
		Status:       model.JobStatusCompleted,
		PreviewCount: len(previews),
	})
	return result, nil
}

func (d *DocumentService) createJob(ctx context.Context, doc model.Document) (*model.Document, *model.ExtractionJob, error) {
	ctx, err := d.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, nil, err
	}

	created, err := d.store.Document().Create(ctx, doc)
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, nil, err
	}

	job, err := d.store.Job().Create(ctx, model.ExtractionJob{
		OrgID:      created.OrgID,
		DocumentID: created.ID,
		Status:     model.JobStatusProcessing,
	})
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return created, job, nil
}

// classify calls the gateway and persists its extractions as pending previews. All
// previews of a job are written in one transaction, so a bad extraction leaves none.
func (d *DocumentService) classify(ctx context.Context, doc *model.Document, job *model.ExtractionJob) (model.ExtractionPreviewList, string, error) {
	classification, err := d.classifier.Classify(ctx, classifier.Request{
		DocumentID:  doc.ID,
		JobID:       job.ID,
		OrgID:       doc.OrgID,
		FileName:    doc.FileName,
		FilePath:    doc.FilePath,
		ContentType: doc.ContentType,
	})
	if err != nil {
		return nil, "", err
	}

	for _, e := range classification.Extractions {
		if !validation.IsKnownTable(e.TargetTable) {
			return nil, "", NewErrUnknownTargetTable(e.TargetTable)
		}
	}

	txCtx, err := d.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, "", err
	}

	previews := make(model.ExtractionPreviewList, 0, len(classification.Extractions))
	for _, e := range classification.Extractions {
		fields := e.ExtractedFields
		if fields == nil {
			fields = map[string]any{}
		}
		preview, err := d.store.Preview().Create(txCtx, model.ExtractionPreview{
			ExtractionJobID:   job.ID,
			OrgID:             doc.OrgID,
			TargetTable:       e.TargetTable,
			ExtractedFields:   datatypes.JSONMap(fields),
			ConfidenceScores:  datatypes.NewJSONType(confidence.NormalizeScores(e.ConfidenceScores)),
			SuggestedMappings: datatypes.NewJSONType(e.SuggestedMappings),
		})
		if err != nil {
			_, _ = store.Rollback(txCtx)
			return nil, "", fmt.Errorf("failed to persist extraction for %s: %w", e.TargetTable, err)
		}
		previews = append(previews, *preview)
	}

	if _, err := store.Commit(txCtx); err != nil {
		return nil, "", err
	}
	return previews, classification.DocumentType, nil
}

func (d *DocumentService) failJob(ctx context.Context, job *model.ExtractionJob, cause error) {
	logger := zap.S().Named("document_service")
	logger.Errorw("extraction job failed", "job_id", job.ID, "error", cause)

	msg := cause.Error()
	if err := d.store.Job().Fail(ctx, job.ID, msg); err != nil {
		logger.Errorw("failed to mark job as failed", "job_id", job.ID, "error", err)
	}
	job.Status = model.JobStatusFailed
	job.ErrorMessage = &msg

	metrics.IncreaseExtractionJobMetric(model.JobStatusFailed)
	d.publish(ctx, events.JobEvent{
		JobID:      job.ID,
		DocumentID: job.DocumentID,
		OrgID:      job.OrgID,
		Status:     model.JobStatusFailed,
		Error:      msg,
	})
}

func (d *DocumentService) GetJob(ctx context.Context, id uuid.UUID) (*model.ExtractionJob, error) {
	job, err := d.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

func (d *DocumentService) publish(ctx context.Context, e events.JobEvent) {
	if d.eventWriter == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := d.eventWriter.Write(ctx, events.JobFinishedKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("document_service").Errorw("failed to write event", "error", err, "event_kind", events.JobFinishedKind)
	}
}
