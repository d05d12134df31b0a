package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const (
	keySeparator = "_"
	keyParts     = 3
	maskedToken  = "***"
)

// ErrEmptyKeyPart is returned when a key has three parts but one is empty.
var ErrEmptyKeyPart = errors.New("api key has an empty part")

// PartCountError is returned when a key does not split into exactly
// prefix, short token and long token.
type PartCountError struct {
	Count int
}

func (e *PartCountError) Error() string {
	return fmt.Sprintf("api key has %d parts, want %d", e.Count, keyParts)
}

// PrefixedAPIKey is a prefix_short_long credential. The long token is the
// secret; every rendering except Encode masks it.
type PrefixedAPIKey struct {
	prefix     string
	shortToken string
	longToken  string
}

func NewPrefixedAPIKey(prefix, shortToken, longToken string) *PrefixedAPIKey {
	return &PrefixedAPIKey{prefix: prefix, shortToken: shortToken, longToken: longToken}
}

func ParseAPIKey(s string) (*PrefixedAPIKey, error) {
	parts := strings.Split(s, keySeparator)
	if len(parts) != keyParts {
		return nil, &PartCountError{Count: len(parts)}
	}
	for _, p := range parts {
		if p == "" {
			return nil, ErrEmptyKeyPart
		}
	}
	return NewPrefixedAPIKey(parts[0], parts[1], parts[2]), nil
}

func (k PrefixedAPIKey) Prefix() string     { return k.prefix }
func (k PrefixedAPIKey) ShortToken() string { return k.shortToken }
func (k PrefixedAPIKey) LongToken() string  { return k.longToken }

// Encode returns the full external form, secret included. It is the only
// way to get the long token out as part of a string.
func (k PrefixedAPIKey) Encode() string {
	return k.prefix + keySeparator + k.shortToken + keySeparator + k.longToken
}

func (k PrefixedAPIKey) LongTokenDigest() string {
	return Digest(k.longToken)
}

func (k PrefixedAPIKey) String() string {
	return k.prefix + keySeparator + k.shortToken + keySeparator + maskedToken
}

func (k PrefixedAPIKey) GoString() string {
	return fmt.Sprintf("PrefixedAPIKey{prefix:%q, shortToken:%q, longToken:%q}", k.prefix, k.shortToken, maskedToken)
}

// Format routes every verb through the masked forms so %d, %x and friends
// cannot print struct fields.
func (k PrefixedAPIKey) Format(f fmt.State, verb rune) {
	switch {
	case verb == 'v' && f.Flag('#'):
		io.WriteString(f, k.GoString())
	case verb == 'q':
		fmt.Fprintf(f, "%q", k.String())
	default:
		io.WriteString(f, k.String())
	}
}

func (k PrefixedAPIKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Prefix     string `json:"prefix"`
		ShortToken string `json:"short_token"`
		LongToken  string `json:"long_token"`
	}{k.prefix, k.shortToken, maskedToken})
}

func (k PrefixedAPIKey) MarshalZerologObject(e *zerolog.Event) {
	e.Str("prefix", k.prefix).Str("short_token", k.shortToken).Str("long_token", maskedToken)
}
