package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/forcegraph/pkg/observability"
)

// requestLogger tags each request with an id, reports it to the HTTP hooks
// and logs its completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, duration)

		logger := s.logger.With("request_id", requestID, "method", r.Method, "path", r.URL.Path,
			"status", status, "duration", duration.Round(time.Microsecond))
		if status >= http.StatusInternalServerError {
			logger.Error("request failed")
		} else {
			logger.Debug("request completed")
		}
	})
}
