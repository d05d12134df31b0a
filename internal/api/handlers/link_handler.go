package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"linkshelf/internal/engine/links"
	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/auth"
)

type LinkHandler struct {
	service *links.Service
}

func NewLinkHandler(service *links.Service) *LinkHandler {
	return &LinkHandler{service: service}
}

type CreateLinkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Note  string `json:"note"`
}

type LinkResponse struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Note         string    `json:"note"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	link, err := h.service.CreateLink(r.Context(), id.String(), &links.Link{URL: req.URL, Title: req.Title, Note: req.Note})
	if err != nil {
		var verr *links.ValidationError
		if stderrors.As(err, &verr) {
			writeError(w, r, errors.New(errors.KindInvalidInput, err))
			return
		}
		writeError(w, r, errors.New(errors.KindCreateLinkFail, err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"result": map[string]interface{}{
			"url":     link.URL,
			"success": true,
		},
	})
}

func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := h.service.ListLinks(r.Context(), id.String())
	if err != nil {
		writeError(w, r, errors.New(errors.KindGetLinksFail, err))
		return
	}

	resp := make([]LinkResponse, 0, len(saved))
	for _, l := range saved {
		resp = append(resp, LinkResponse{
			ID:           l.ID,
			URL:          l.URL,
			Title:        l.Title,
			Note:         l.Note,
			BookmarkedAt: time.Unix(l.CreatedAt, 0).UTC(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *LinkHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.service.ClearLinks(r.Context(), id.String())
	if err != nil {
		writeError(w, r, errors.New(errors.KindClearLinksFail, err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted": n})
}
