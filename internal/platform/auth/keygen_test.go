package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"linkshelf/internal/platform/config"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func newTestGenerator(t *testing.T) *KeyGenerator {
	t.Helper()
	gen, err := NewKeyGenerator(config.APIKeyConfig{Prefix: "lshelf", ShortTokenBytes: 8, LongTokenBytes: 24})
	require.NoError(t, err)
	return gen
}

func TestNewKeyGenerator_Validation(t *testing.T) {
	tests := map[string]config.APIKeyConfig{
		"empty prefix":      {Prefix: "", ShortTokenBytes: 8, LongTokenBytes: 24},
		"separator prefix":  {Prefix: "ls_shelf", ShortTokenBytes: 8, LongTokenBytes: 24},
		"zero short length": {Prefix: "lshelf", ShortTokenBytes: 0, LongTokenBytes: 24},
		"negative long":     {Prefix: "lshelf", ShortTokenBytes: 8, LongTokenBytes: -1},
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewKeyGenerator(cfg)
			assert.Error(t, err)
		})
	}
}

func TestKeyGenerator_RoundTrip(t *testing.T) {
	configs := []config.APIKeyConfig{
		{Prefix: "lshelf", ShortTokenBytes: 8, LongTokenBytes: 24},
		{Prefix: "x", ShortTokenBytes: 1, LongTokenBytes: 1},
		{Prefix: "prod-key", ShortTokenBytes: 16, LongTokenBytes: 64},
	}

	for _, cfg := range configs {
		gen, err := NewKeyGenerator(cfg)
		require.NoError(t, err)

		for i := 0; i < 50; i++ {
			key, digest, err := gen.Generate()
			require.NoError(t, err)

			parsed, err := ParseAPIKey(key.Encode())
			require.NoError(t, err)
			assert.Equal(t, *key, *parsed)
			assert.Equal(t, cfg.Prefix, parsed.Prefix())

			assert.Equal(t, digest, key.LongTokenDigest())
			assert.Equal(t, digest, parsed.LongTokenDigest())

			for _, tok := range []string{key.ShortToken(), key.LongToken()} {
				assert.NotEmpty(t, tok)
				for _, c := range tok {
					assert.True(t, strings.ContainsRune(base58Alphabet, c), "unexpected rune %q", c)
				}
			}
			assert.Equal(t, cfg.Prefix+"_"+key.ShortToken()+"_***", key.String())
			if cfg.LongTokenBytes >= 16 {
				assert.NotContains(t, key.String(), key.LongToken())
			}
		}
	}
}

func TestKeyGenerator_DigestsAreUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test")
	}
	gen := newTestGenerator(t)

	const samples = 100_000
	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		_, digest, err := gen.Generate()
		require.NoError(t, err)
		if _, dup := seen[digest]; dup {
			t.Fatalf("digest collision after %d keys", i)
		}
		seen[digest] = struct{}{}
	}
}

func TestKeyGenerator_DeterministicSource(t *testing.T) {
	gen := newTestGenerator(t)
	gen.random = bytes.NewReader(bytes.Repeat([]byte{0x01}, 32))

	key, _, err := gen.Generate()
	require.NoError(t, err)

	other := newTestGenerator(t)
	other.random = bytes.NewReader(bytes.Repeat([]byte{0x01}, 32))
	again, _, err := other.Generate()
	require.NoError(t, err)

	assert.Equal(t, key.Encode(), again.Encode())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestKeyGenerator_RandomFailure(t *testing.T) {
	gen := newTestGenerator(t)
	gen.random = failingReader{}

	key, digest, err := gen.Generate()
	require.Error(t, err)
	assert.Nil(t, key)
	assert.Empty(t, digest)
}

func TestKeyGenerator_CountsKeys(t *testing.T) {
	gen := newTestGenerator(t)
	before := testutil.ToFloat64(keysGenerated)

	_, _, err := gen.Generate()
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(keysGenerated))
}
