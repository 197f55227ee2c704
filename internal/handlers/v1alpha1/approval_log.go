package v1alpha1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/esgdesk/extraction-review/internal/handlers/v1alpha1/mappers"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const streamKeepAlive = 15 * time.Second

type approvalLogQuery struct {
	Action string `validate:"omitempty,oneof=approved edited batch_approved rejected"`
}

// (GET /api/v1/approval-logs)
func (h *ServiceHandler) ListApprovalLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := approvalLogQuery{Action: q.Get("action")}
	if err := h.validator.Struct(query); err != nil {
		writeError(w, r, err)
		return
	}

	filter := &service.AuditFilter{OrgID: q.Get("org_id"), Action: query.Action}
	for param, dst := range map[string]**uuid.UUID{"preview_id": &filter.PreviewID, "job_id": &filter.JobID} {
		v := q.Get(param)
		if v == "" {
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			badRequest(w, r, fmt.Sprintf("invalid %s", param))
			return
		}
		*dst = &id
	}

	logs, err := h.auditWriter.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if logs == nil {
		logs = model.ApprovalLogList{}
	}

	respond(w, r, http.StatusOK, mappers.ApprovalLogListToApi(logs))
}

// (GET /api/v1/approval-logs/stream)
//
// Streams review events as Server-Sent Events until the client goes away. Each event
// is a structured CloudEvent; clients are expected to re-fetch the queue on receipt.
func (h *ServiceHandler) StreamApprovalLogs(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, fmt.Errorf("streaming is not supported by the response writer"))
		return
	}

	ch, cancel := h.broadcaster.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	logger := zap.S().Named("approval_log_stream")
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case e, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				logger.Errorw("failed to encode event", "error", err, "id", e.ID())
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID(), e.Type(), data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
