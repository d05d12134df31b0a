package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"
	apiContext "linkshelf/internal/api/context"
	"linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/auth"
)

// identityRecorder is implemented by the request logger's writer.
type identityRecorder interface {
	RecordIdentity(id string)
}

type AuthMiddleware struct {
	resolver *auth.Resolver
}

func NewAuthMiddleware(resolver *auth.Resolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Resolve runs credential resolution once and caches the outcome, success
// or failure, on the request context. It never rejects the request itself.
func (m *AuthMiddleware) Resolve(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := m.resolver.Resolve(r.Context(), r.Header)
		if err != nil {
			kind := errors.KindOf(err)
			if status, _ := errors.Status(kind); status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("req_uuid", apiContext.RequestIDFrom(r.Context())).Msg("credential resolution failed")
			}
		} else if rec, ok := w.(identityRecorder); ok {
			rec.RecordIdentity(id.String())
		}

		next(w, r.WithContext(auth.WithResolution(r.Context(), id, err)))
	}
}

// RequireAuth rejects the request unless a prior Resolve produced an
// identity.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.FromContext(r.Context()); err != nil {
			errors.Write(w, apiContext.RequestIDFrom(r.Context()), err)
			return
		}
		next(w, r)
	}
}
