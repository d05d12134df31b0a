package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	apiContext "linkshelf/internal/api/context"
	"linkshelf/internal/pkg/errors"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	captureLogs(t)

	var seen string
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = apiContext.RequestIDFrom(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health_check", nil))

	if seen == "" {
		t.Fatal("Expected request id in context")
	}
	if rr.Header().Get(RequestIDHeader) != seen {
		t.Errorf("Expected header %s, got %s", seen, rr.Header().Get(RequestIDHeader))
	}

	const incoming = "0b8a1d4e-3c0f-4f3e-9a53-6f1f3b1f2a10"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Errorf("Expected incoming request id to be kept, got %s", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\nforged")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not a uuid\nforged" {
		t.Error("Expected invalid request id to be replaced")
	}
}

func TestRequestLogger_LogsErrorKindAndIdentity(t *testing.T) {
	buf := captureLogs(t)

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec, ok := w.(identityRecorder); ok {
			rec.RecordIdentity("user:42")
		}
		errors.Write(w, apiContext.RequestIDFrom(r.Context()), errors.New(errors.KindInvalidToken, nil))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/links", nil))

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("Failed to decode log line %q: %v", buf.String(), err)
	}

	if line["error_type"] != string(errors.KindInvalidToken) {
		t.Errorf("Expected error_type InvalidToken, got %v", line["error_type"])
	}
	if line["user_id"] != "user:42" {
		t.Errorf("Expected user_id user:42, got %v", line["user_id"])
	}
	if line["status"] != float64(http.StatusBadRequest) {
		t.Errorf("Expected status 400, got %v", line["status"])
	}

	var body errors.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.RequestID != line["req_uuid"] {
		t.Errorf("Expected body req_uuid %v, got %s", line["req_uuid"], body.RequestID)
	}
}
