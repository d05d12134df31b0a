package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	apiContext "linkshelf/internal/api/context"
	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/audit"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errors.Write(w, apiContext.RequestIDFrom(r.Context()), err)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return errors.New(errors.KindInvalidInput, err)
	}
	return nil
}

// recordAudit writes an audit entry. A failed write is logged and does not
// fail the request.
func recordAudit(logger *audit.Logger, r *http.Request, actor, action, resourceID string, metadata map[string]interface{}) {
	if logger == nil {
		return
	}
	if err := logger.Record(r.Context(), r, actor, action, resourceID, metadata); err != nil {
		log.Error().
			Err(err).
			Str("req_uuid", apiContext.RequestIDFrom(r.Context())).
			Str("action", action).
			Msg("failed to write audit log")
	}
}
