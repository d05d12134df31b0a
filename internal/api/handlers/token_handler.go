package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apiContext "linkshelf/internal/api/context"
	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/audit"
	"linkshelf/internal/platform/auth"
	"linkshelf/internal/platform/identity"
	"linkshelf/internal/platform/models"
	"linkshelf/internal/platform/repositories"
)

const tokenTable = "token"

type TokenHandler struct {
	repo  *repositories.TokenRepository
	gen   *auth.KeyGenerator
	audit *audit.Logger
}

func NewTokenHandler(repo *repositories.TokenRepository, gen *auth.KeyGenerator, auditLogger *audit.Logger) *TokenHandler {
	return &TokenHandler{repo: repo, gen: gen, audit: auditLogger}
}

type CreateTokenRequest struct {
	Name string `json:"name"`
}

type CreateTokenResponse struct {
	Token string `json:"token"`
}

type TokenListItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShortToken string `json:"short_token"`
}

// Create issues an API key. The full key appears in this response only;
// the store keeps the long token's digest.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, r, errors.New(errors.KindInvalidInput, stderrors.New("name is required")))
		return
	}

	key, digest, err := h.gen.Generate()
	if err != nil {
		writeError(w, r, errors.New(errors.KindGenTokenFail, err))
		return
	}

	token := &models.Token{
		TokenHash:  digest,
		Name:       req.Name,
		ShortToken: key.ShortToken(),
		User:       owner.String(),
	}
	if err := h.repo.Create(r.Context(), token); err != nil {
		writeError(w, r, errors.New(errors.KindGenTokenFail, err))
		return
	}

	recordAudit(h.audit, r, owner.String(), audit.ActionTokenCreate, tokenTable+":"+token.ID, map[string]interface{}{
		"name":        token.Name,
		"short_token": token.ShortToken,
	})

	log.Info().
		Str("req_uuid", apiContext.RequestIDFrom(r.Context())).
		Str("user_id", owner.String()).
		Object("api_key", key).
		Msg("api key created")

	writeJSON(w, http.StatusCreated, CreateTokenResponse{Token: key.Encode()})
}

func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := h.repo.ListByUser(r.Context(), owner.String())
	if err != nil {
		writeError(w, r, errors.New(errors.KindGetTokensFail, err))
		return
	}

	items := make([]TokenListItem, 0, len(tokens))
	for _, t := range tokens {
		items = append(items, TokenListItem{
			ID:         tokenTable + ":" + t.ID,
			Name:       t.Name,
			ShortToken: t.ShortToken,
		})
	}

	writeJSON(w, http.StatusOK, items)
}

// Delete revokes one of the caller's keys. The id is the token:<record>
// form returned by List.
func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	table, record, err := identity.Decompose(apiContext.ParamsFrom(r.Context()).ByName("id"))
	if err != nil || table != tokenTable {
		writeError(w, r, errors.New(errors.KindInvalidDeleteToken, err))
		return
	}

	deleted, err := h.repo.Delete(r.Context(), record, owner.String())
	if err != nil {
		writeError(w, r, errors.New(errors.KindDeleteTokenFail, err))
		return
	}
	if deleted {
		recordAudit(h.audit, r, owner.String(), audit.ActionTokenDelete, tokenTable+":"+record, nil)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted": deleted})
}
