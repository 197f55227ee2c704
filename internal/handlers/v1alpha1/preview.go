package v1alpha1

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	api "github.com/esgdesk/extraction-review/api/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/handlers/v1alpha1/mappers"
	"github.com/esgdesk/extraction-review/internal/review"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

type pendingQuery struct {
	TargetTable string `validate:"omitempty,target_table"`
	Limit       int    `validate:"gte=0,lte=1000"`
}

// (GET /api/v1/previews/pending)
func (h *ServiceHandler) ListPendingPreviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := pendingQuery{TargetTable: q.Get("target_table")}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			badRequest(w, r, "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	if err := h.validator.Struct(query); err != nil {
		writeError(w, r, err)
		return
	}
	expanded, err := parseExpansion(q["expand"])
	if err != nil {
		badRequest(w, r, "expand must list preview ids")
		return
	}

	filter := service.NewPreviewFilter(
		service.WithOrgID(q.Get("org_id")),
		service.WithTargetTable(query.TargetTable),
		service.WithLimit(query.Limit),
	)

	queue, err := h.reviewSrv.GetQueue(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.QueueToApi(queue, review.ParseView(q.Get("view")), expanded))
}

// parseExpansion accepts repeated or comma separated preview ids.
func parseExpansion(values []string) (review.Expansion, error) {
	ids := []uuid.UUID{}
	for _, v := range values {
		for _, raw := range strings.Split(v, ",") {
			if raw = strings.TrimSpace(raw); raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return review.Expansion{}, err
			}
			ids = append(ids, id)
		}
	}
	return review.NewSelection(ids...), nil
}

// (GET /api/v1/previews/{id})
func (h *ServiceHandler) GetPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "preview")
	if !ok {
		return
	}

	item, err := h.reviewSrv.GetPreview(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.QueueItemToApi(item, review.ParseView(r.URL.Query().Get("view"))))
}

// (POST /api/v1/previews/{id}/validate)
func (h *ServiceHandler) ValidatePreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "preview")
	if !ok {
		return
	}

	var req api.ValidateRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	errs, err := h.reviewSrv.ValidateFields(r.Context(), id, req.Fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, api.ValidateResponse{Valid: errs.Valid(), Errors: mappers.ValidationErrorsToApi(errs)})
}

// (POST /api/v1/previews/{id}/approve)
func (h *ServiceHandler) ApprovePreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "preview")
	if !ok {
		return
	}

	var req api.ApproveRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	outcome, err := h.approvalSrv.Approve(r.Context(), id, req.EditedFields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.OutcomeToApi(outcome))
}

// (POST /api/v1/previews/{id}/reject)
func (h *ServiceHandler) RejectPreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "preview")
	if !ok {
		return
	}

	var req api.RejectRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	outcome, err := h.approvalSrv.Reject(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.OutcomeToApi(outcome))
}

// (POST /api/v1/previews/batch-approve)
func (h *ServiceHandler) BatchApprovePreviews(w http.ResponseWriter, r *http.Request) {
	var req api.BatchApproveRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, r, err)
		return
	}

	h.batchApprove(w, r, req.PreviewIds)
}

// (POST /api/v1/previews/batch-approve/high-confidence)
//
// Approves every preview currently in the high-confidence lane of the caller's queue.
func (h *ServiceHandler) BatchApproveHighConfidence(w http.ResponseWriter, r *http.Request) {
	filter := service.NewPreviewFilter(service.WithOrgID(r.URL.Query().Get("org_id")))

	queue, err := h.reviewSrv.GetQueue(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	selection := review.NewSelection().SelectAll(queue.HighConfidence)
	h.batchApprove(w, r, selection.IDs())
}

// batchApprove answers 200 when every item was approved and 409 with the same body
// when at least one failed.
func (h *ServiceHandler) batchApprove(w http.ResponseWriter, r *http.Request, ids []uuid.UUID) {
	result, err := h.approvalSrv.BatchApprove(r.Context(), ids)

	var partial *service.ErrBatchPartialFailure
	switch {
	case err == nil:
		respond(w, r, http.StatusOK, mappers.BatchResultToApi(result))
	case errors.As(err, &partial) && result != nil:
		resp := mappers.BatchResultToApi(result)
		msg := partial.Error()
		resp.Message = &msg
		respond(w, r, http.StatusConflict, resp)
	default:
		writeError(w, r, err)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, r, "invalid "+resource+" id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeOptional decodes a JSON body into v. An empty body leaves v untouched.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, r, "invalid request body")
		return false
	}
	return true
}
