package v1alpha1

import (
	"net/http"

	api "github.com/esgdesk/extraction-review/api/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/events"
	"github.com/esgdesk/extraction-review/internal/handlers/validator"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/go-chi/chi/v5"
)

const defaultMaxUploadBytes int64 = 20 << 20

type ServiceHandler struct {
	reviewSrv      *service.ReviewService
	approvalSrv    *service.ApprovalService
	auditWriter    *service.AuditWriter
	documentSrv    *service.DocumentService
	broadcaster    *events.Broadcaster
	validator      *validator.Validator
	maxUploadBytes int64
}

type HandlerOption func(h *ServiceHandler)

// WithMaxUploadBytes caps the size of a multipart document upload.
func WithMaxUploadBytes(n int64) HandlerOption {
	return func(h *ServiceHandler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// WithBroadcaster enables the approval log stream.
func WithBroadcaster(b *events.Broadcaster) HandlerOption {
	return func(h *ServiceHandler) {
		h.broadcaster = b
	}
}

func NewServiceHandler(
	reviewSrv *service.ReviewService,
	approvalSrv *service.ApprovalService,
	auditWriter *service.AuditWriter,
	documentSrv *service.DocumentService,
	opts ...HandlerOption,
) *ServiceHandler {
	h := &ServiceHandler{
		reviewSrv:      reviewSrv,
		approvalSrv:    approvalSrv,
		auditWriter:    auditWriter,
		documentSrv:    documentSrv,
		maxUploadBytes: defaultMaxUploadBytes,
		validator: validator.NewValidator().
			Register(validator.NewPreviewValidationRules()...).
			Register(validator.NewDocumentValidationRules()...),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/previews", func(r chi.Router) {
			r.Get("/pending", h.ListPendingPreviews)
			r.Post("/batch-approve", h.BatchApprovePreviews)
			r.Post("/batch-approve/high-confidence", h.BatchApproveHighConfidence)
			r.Get("/{id}", h.GetPreview)
			r.Post("/{id}/validate", h.ValidatePreview)
			r.Post("/{id}/approve", h.ApprovePreview)
			r.Post("/{id}/reject", h.RejectPreview)
		})

		r.Get("/approval-logs", h.ListApprovalLogs)
		if h.broadcaster != nil {
			r.Get("/approval-logs/stream", h.StreamApprovalLogs)
		}

		r.Post("/documents", h.UploadDocument)
		r.Get("/jobs/{id}", h.GetJob)
	})
}

// (GET /health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, api.Health{Status: "ok"})
}
