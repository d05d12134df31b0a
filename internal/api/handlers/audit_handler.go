package handlers

import (
	"encoding/json"
	"net/http"

	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/audit"
	"linkshelf/internal/platform/auth"
)

type AuditHandler struct {
	logger *audit.Logger
}

func NewAuditHandler(logger *audit.Logger) *AuditHandler {
	return &AuditHandler{logger: logger}
}

type AuditEntryResponse struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	ResourceID string          `json:"resource_id"`
	Metadata   json.RawMessage `json:"metadata"`
	IPAddress  string          `json:"ip_address"`
	UserAgent  string          `json:"user_agent"`
	CreatedAt  int64           `json:"created_at"`
}

// List returns the caller's own recent account events.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := h.logger.ListByActor(r.Context(), id.String())
	if err != nil {
		writeError(w, r, errors.New(errors.KindInternal, err))
		return
	}

	resp := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, AuditEntryResponse{
			ID:         e.ID,
			Action:     e.Action,
			ResourceID: e.ResourceID,
			Metadata:   json.RawMessage(e.Metadata),
			IPAddress:  e.IPAddress,
			UserAgent:  e.UserAgent,
			CreatedAt:  e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
