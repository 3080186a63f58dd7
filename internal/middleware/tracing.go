package middleware

import (
	"net/http"
	"time"

	"github.com/R3E-Network/rainwater/internal/logging"
)

// TraceIDHeader carries the request trace ID in both directions.
const TraceIDHeader = "X-Trace-ID"

// maxTraceIDLength bounds caller-supplied trace IDs.
const maxTraceIDLength = 128

// TracingMiddleware tags each request with a trace ID, echoes it in the
// response and logs the request once it completes.
type TracingMiddleware struct {
	logger *logging.Logger
}

// NewTracingMiddleware creates a tracing middleware logging to logger.
func NewTracingMiddleware(logger *logging.Logger) *TracingMiddleware {
	return &TracingMiddleware{logger: logger}
}

// Handler wraps next with trace propagation and request logging.
func (m *TracingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := incomingTraceID(r)
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set(TraceIDHeader, traceID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		m.logger.LogRequest(ctx, r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}

// incomingTraceID returns the caller's trace ID when it is a short token of
// letters, digits, '-', '_' or '.', and a fresh one otherwise.
func incomingTraceID(r *http.Request) string {
	id := r.Header.Get(TraceIDHeader)
	if id == "" || len(id) > maxTraceIDLength {
		return logging.NewTraceID()
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return logging.NewTraceID()
		}
	}
	return id
}
