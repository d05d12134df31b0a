package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mr-tron/base58"
	"linkshelf/internal/platform/config"
)

// KeyGenerator mints prefixed API keys from crypto/rand.
type KeyGenerator struct {
	prefix     string
	shortBytes int
	longBytes  int
	random     io.Reader
}

func NewKeyGenerator(cfg config.APIKeyConfig) (*KeyGenerator, error) {
	if cfg.Prefix == "" || strings.Contains(cfg.Prefix, keySeparator) {
		return nil, fmt.Errorf("invalid api key prefix %q", cfg.Prefix)
	}
	if cfg.ShortTokenBytes <= 0 || cfg.LongTokenBytes <= 0 {
		return nil, errors.New("api key token lengths must be positive")
	}
	return &KeyGenerator{
		prefix:     cfg.Prefix,
		shortBytes: cfg.ShortTokenBytes,
		longBytes:  cfg.LongTokenBytes,
		random:     rand.Reader,
	}, nil
}

func (g *KeyGenerator) token(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base58.Encode(buf), nil
}

// Generate returns a new key and the digest of its long token. The caller
// shows Encode() to the user once and persists only the digest.
func (g *KeyGenerator) Generate() (*PrefixedAPIKey, string, error) {
	short, err := g.token(g.shortBytes)
	if err != nil {
		return nil, "", err
	}
	long, err := g.token(g.longBytes)
	if err != nil {
		return nil, "", err
	}

	key := NewPrefixedAPIKey(g.prefix, short, long)
	keysGenerated.Inc()
	return key, key.LongTokenDigest(), nil
}
