package handlers

import (
	stderrors "errors"
	"net/http"

	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/auth"
	"linkshelf/internal/platform/repositories"
)

type UserHandler struct {
	userRepo *repositories.UserRepository
}

func NewUserHandler(userRepo *repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

type MeResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Me returns the caller, whichever credential scheme was used.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := auth.FromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if id.Table() != userTable {
		writeError(w, r, errors.New(errors.KindMalformedIdentifier, stderrors.New("identity is not a user")))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id.Record())
	if err != nil {
		writeError(w, r, errors.New(errors.KindInternal, err))
		return
	}
	if user == nil {
		// A valid credential whose user is gone.
		writeError(w, r, errors.New(errors.KindInvalidToken, stderrors.New("user no longer exists")))
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{ID: id.String(), Username: user.Username})
}
