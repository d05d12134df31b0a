package auth

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/rs/zerolog/log"
	apperrors "linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/identity"
)

const (
	AuthorizationHeader = "Authorization"
	APIKeyHeader        = "X-Api-Token"
)

var bearerPattern = regexp.MustCompile(`^Bearer (.+)`)

// KeyRecord is what the key store holds for an issued API key. The long
// token itself is never stored.
type KeyRecord struct {
	Owner      string
	ShortToken string
	Name       string
}

// KeyStore looks up API keys by the digest of their long token. A missing
// key is reported as (nil, nil).
type KeyStore interface {
	FindByDigest(ctx context.Context, digest string) (*KeyRecord, error)
}

// Resolver turns request headers into an Identity. A bearer token always
// wins over an API key; there is no fallback between schemes.
type Resolver struct {
	tokens *TokenService
	keys   KeyStore
}

func NewResolver(tokens *TokenService, keys KeyStore) *Resolver {
	return &Resolver{tokens: tokens, keys: keys}
}

func (r *Resolver) Resolve(ctx context.Context, header http.Header) (identity.Identity, error) {
	var (
		scheme string
		id     identity.Identity
		err    error
	)

	switch {
	case len(header.Values(AuthorizationHeader)) > 0:
		scheme = schemeBearer
		id, err = r.resolveBearer(header.Get(AuthorizationHeader))
	case len(header.Values(APIKeyHeader)) > 0:
		scheme = schemeAPIKey
		id, err = r.resolveAPIKey(ctx, header.Get(APIKeyHeader))
	default:
		scheme = schemeNone
		err = apperrors.New(apperrors.KindMissingAuth, nil)
	}

	if err != nil {
		resolutions.WithLabelValues(scheme, string(apperrors.KindOf(err))).Inc()
		return identity.Identity{}, err
	}
	resolutions.WithLabelValues(scheme, resultOK).Inc()
	return id, nil
}

func (r *Resolver) resolveBearer(value string) (identity.Identity, error) {
	m := bearerPattern.FindStringSubmatch(value)
	if m == nil {
		return identity.Identity{}, apperrors.New(apperrors.KindInvalidAuthHeader, nil)
	}

	claims, err := r.tokens.Verify(m[1])
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Parse(claims.Subject)
}

func (r *Resolver) resolveAPIKey(ctx context.Context, value string) (identity.Identity, error) {
	key, err := ParseAPIKey(value)
	if err != nil {
		return identity.Identity{}, apperrors.New(apperrors.KindInvalidToken, err)
	}

	record, err := r.keys.FindByDigest(ctx, key.LongTokenDigest())
	if err != nil {
		return identity.Identity{}, apperrors.New(apperrors.KindKeyLookupFailed, err)
	}
	// A cancelled request must not publish an identity even if the store
	// answered.
	if err := ctx.Err(); err != nil {
		return identity.Identity{}, apperrors.New(apperrors.KindKeyLookupFailed, err)
	}
	if record == nil {
		return identity.Identity{}, apperrors.New(apperrors.KindInvalidToken, errors.New("no key with digest"))
	}

	log.Debug().Object("api_key", key).Str("name", record.Name).Msg("api key accepted")
	return identity.Parse(record.Owner)
}

type resolutionKey struct{}

// Resolution is the outcome of one Resolve call, cached on the request.
type Resolution struct {
	Identity identity.Identity
	Err      error
}

func WithResolution(ctx context.Context, id identity.Identity, err error) context.Context {
	return context.WithValue(ctx, resolutionKey{}, &Resolution{Identity: id, Err: err})
}

// FromContext returns the cached resolution. ContextNotInitialized means
// no resolution ran for this request, which is a wiring fault rather than a
// missing credential.
func FromContext(ctx context.Context) (identity.Identity, error) {
	res, ok := ctx.Value(resolutionKey{}).(*Resolution)
	if !ok || res == nil {
		return identity.Identity{}, apperrors.New(apperrors.KindContextNotInitialized, nil)
	}
	if res.Err != nil {
		return identity.Identity{}, res.Err
	}
	return res.Identity, nil
}
