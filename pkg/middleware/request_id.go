package middleware

import (
	"net/http"

	"github.com/esgdesk/extraction-review/pkg/requestid"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestID reuses the caller's X-Request-Id header, then chi's generated ID, and
// finally a fresh UUID. The chosen ID is stored in the context and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestid.Header)
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = requestid.Generate()
		}

		w.Header().Set(requestid.Header, requestID)
		next.ServeHTTP(w, r.WithContext(requestid.ToContext(r.Context(), requestID)))
	})
}
