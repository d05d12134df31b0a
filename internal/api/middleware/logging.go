package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	apiContext "linkshelf/internal/api/context"
	"linkshelf/internal/pkg/errors"
)

const RequestIDHeader = "X-Request-ID"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkshelf_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkshelf_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// responseWriter captures what the request log line needs.
type responseWriter struct {
	http.ResponseWriter
	status   int
	identity string
	errKind  errors.Kind
	errCause error
}

func (w *responseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) RecordError(err error) {
	w.errKind = errors.KindOf(err)
	w.errCause = err
}

func (w *responseWriter) RecordIdentity(id string) {
	w.identity = id
}

// RequestLogger assigns a request id, echoes it in X-Request-ID and writes
// one log line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)

		ctx := context.WithValue(r.Context(), apiContext.RequestID, reqID)
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r.WithContext(ctx))

		if rw.status == 0 {
			rw.status = http.StatusOK
		}
		elapsed := time.Since(start)

		httpRequests.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
		httpDuration.WithLabelValues(r.Method).Observe(elapsed.Seconds())

		var event *zerolog.Event
		switch {
		case rw.status >= 500:
			event = log.Error().Err(rw.errCause)
		case rw.status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("req_uuid", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("duration", elapsed).
			Str("user_id", rw.identity).
			Str("error_type", string(rw.errKind)).
			Msg("request")
	})
}
