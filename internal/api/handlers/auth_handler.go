package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/pkg/validator"
	"linkshelf/internal/platform/audit"
	"linkshelf/internal/platform/auth"
	"linkshelf/internal/platform/identity"
	"linkshelf/internal/platform/models"
	"linkshelf/internal/platform/repositories"
)

const userTable = "user"

type AuthHandler struct {
	userRepo *repositories.UserRepository
	tokenSvc *auth.TokenService
	audit    *audit.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepository, tokenSvc *auth.TokenService, auditLogger *audit.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokenSvc: tokenSvc, audit: auditLogger}
}

type SignupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, r, errors.New(errors.KindInvalidInput, stderrors.New("username and password are required")))
		return
	}
	if err := validator.Username(req.Username); err != nil {
		writeError(w, r, errors.New(errors.KindInvalidInput, err))
		return
	}
	if err := validator.Password(req.Password); err != nil {
		writeError(w, r, errors.New(errors.KindInvalidInput, err))
		return
	}
	if req.Password != req.PasswordConfirm {
		writeError(w, r, errors.New(errors.KindPasswordConfirmMismatch, nil))
		return
	}

	existing, err := h.userRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, errors.New(errors.KindSignUpFail, err))
		return
	}
	if existing != nil {
		writeError(w, r, errors.New(errors.KindUsernameExists, nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, errors.New(errors.KindSignUpFail, err))
		return
	}

	user := &models.User{Username: req.Username, PasswordHash: string(hashed)}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		if stderrors.Is(err, repositories.ErrDuplicate) {
			writeError(w, r, errors.New(errors.KindUsernameExists, err))
			return
		}
		writeError(w, r, errors.New(errors.KindSignUpFail, err))
		return
	}

	resp, err := h.sessionFor(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recordAudit(h.audit, r, resp.ID, audit.ActionSignup, resp.ID, nil)
	log.Info().Str("user_id", resp.ID).Msg("user signed up")
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userRepo.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		writeError(w, r, errors.New(errors.KindSignInFail, err))
		return
	}
	if user == nil {
		writeError(w, r, errors.New(errors.KindInvalidCredentials, nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, r, errors.New(errors.KindInvalidCredentials, nil))
		return
	}

	resp, err := h.sessionFor(user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) sessionFor(user *models.User) (*AuthResponse, error) {
	id, err := identity.New(userTable, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := h.tokenSvc.Issue(id.String(), user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{ID: id.String(), Username: user.Username, Token: token}, nil
}
