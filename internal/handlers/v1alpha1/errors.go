package v1alpha1

import (
	"errors"
	"net/http"

	api "github.com/esgdesk/extraction-review/api/v1alpha1"
	"github.com/esgdesk/extraction-review/internal/handlers/v1alpha1/mappers"
	"github.com/esgdesk/extraction-review/internal/handlers/validator"
	"github.com/esgdesk/extraction-review/internal/service"
	"github.com/esgdesk/extraction-review/pkg/requestid"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

func respond(w http.ResponseWriter, r *http.Request, status int, v render.Renderer) {
	render.Status(r, status)
	if err := render.Render(w, r, v); err != nil {
		zap.S().Named("handlers").Errorw("failed to render response", "error", err)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	respond(w, r, http.StatusBadRequest, api.Error{Message: message, RequestId: requestid.FromContextPtr(r.Context())})
}

// writeError maps service errors onto HTTP status codes. Anything unknown is logged
// and reported as a 500 without leaking its message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := api.Error{Message: err.Error(), RequestId: requestid.FromContextPtr(r.Context())}

	var (
		notFound       *service.ErrResourceNotFound
		notPending     *service.ErrPreviewNotPending
		validationErr  *service.ErrValidation
		reconciliation *service.ErrReconciliation
		unknownTable   *service.ErrUnknownTargetTable
		badReq         *service.ErrBadRequest
		invalidReq     *validator.ErrInvalidRequest
		classification *service.ErrClassification
		tooLarge       *http.MaxBytesError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		body.Fields = mappers.ValidationErrorsToApi(validationErr.Fields)
	case errors.As(err, &badReq), errors.As(err, &invalidReq):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &notPending):
		status = http.StatusConflict
	case errors.As(err, &reconciliation), errors.As(err, &unknownTable):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &classification):
		status = http.StatusBadGateway
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	default:
		zap.S().Named("handlers").Errorw("request failed", "error", err, "path", r.URL.Path, "request_id", requestid.FromRequest(r))
		body.Message = "internal server error"
	}

	respond(w, r, status, body)
}
