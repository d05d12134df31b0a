// Package identity holds the resolved caller of a request.
package identity

import (
	"fmt"
	"strings"

	"linkshelf/internal/pkg/errors"
)

const separator = ":"

// Identity is a table/record reference such as user:abc123. It is built
// once when a credential is resolved and is immutable afterwards.
type Identity struct {
	table  string
	record string
}

// Decompose splits a composite identifier into its table and record.
// Exactly two non-empty parts are required.
func Decompose(composite string) (string, string, error) {
	parts := strings.Split(composite, separator)
	if len(parts) != 2 {
		return "", "", errors.New(errors.KindMalformedIdentifier,
			fmt.Errorf("identifier has %d parts, want 2", len(parts)))
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", errors.New(errors.KindMalformedIdentifier,
			fmt.Errorf("identifier has an empty part"))
	}
	return parts[0], parts[1], nil
}

func Parse(composite string) (Identity, error) {
	table, record, err := Decompose(composite)
	if err != nil {
		return Identity{}, err
	}
	return Identity{table: table, record: record}, nil
}

// New validates table and record by round-tripping through Decompose, so
// neither may contain the separator.
func New(table, record string) (Identity, error) {
	return Parse(table + separator + record)
}

func (i Identity) Table() string  { return i.table }
func (i Identity) Record() string { return i.record }

func (i Identity) IsZero() bool {
	return i.table == "" && i.record == ""
}

// String returns the serialized table:record form.
func (i Identity) String() string {
	if i.IsZero() {
		return ""
	}
	return i.table + separator + i.record
}
