package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	apperrors "linkshelf/internal/pkg/errors"
	"linkshelf/internal/platform/config"
)

// signingMethod is pinned; tokens signed with anything else are rejected.
var signingMethod = jwt.SigningMethodHS512

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	config config.JWTConfig
	clock  clockwork.Clock
	parser *jwt.Parser
}

func NewTokenService(cfg config.JWTConfig, clock clockwork.Clock) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("jwt token ttl must be positive")
	}
	return &TokenService{
		config: cfg,
		clock:  clock,
		// Expiry is checked against the injected clock in Verify so an
		// expired token is reported apart from a forged one.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Issue signs a token for subject (a table:record identifier) that expires
// after the configured TTL.
func (s *TokenService) Issue(subject, username string) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", apperrors.New(apperrors.KindTokenCreation, err)
	}
	tokensIssued.Inc()
	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, apperrors.New(apperrors.KindTokenValidation, err)
	}
	if !token.Valid {
		return nil, apperrors.New(apperrors.KindTokenValidation, errors.New("token is not valid"))
	}

	if claims.ExpiresAt == nil {
		return nil, apperrors.New(apperrors.KindTokenValidation, errors.New("token has no exp claim"))
	}
	if now := s.clock.Now(); claims.ExpiresAt.Time.Before(now) {
		return nil, apperrors.New(apperrors.KindTokenExpired,
			fmt.Errorf("token expired at %s", claims.ExpiresAt.Time.UTC().Format("2006-01-02T15:04:05Z")))
	}

	return claims, nil
}
