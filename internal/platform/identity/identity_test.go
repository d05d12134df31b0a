package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkshelf/internal/pkg/errors"
)

func TestDecompose(t *testing.T) {
	tests := map[string]struct {
		input      string
		wantTable  string
		wantRecord string
		wantErr    bool
	}{
		"user record":    {input: "user:abc123", wantTable: "user", wantRecord: "abc123"},
		"token record":   {input: "token:9f2c", wantTable: "token", wantRecord: "9f2c"},
		"no separator":   {input: "user", wantErr: true},
		"three parts":    {input: "a:b:c", wantErr: true},
		"empty table":    {input: ":abc", wantErr: true},
		"empty record":   {input: "user:", wantErr: true},
		"empty string":   {input: "", wantErr: true},
		"only separator": {input: ":", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			table, record, err := Decompose(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.KindMalformedIdentifier, errors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTable, table)
			assert.Equal(t, tc.wantRecord, record)
		})
	}
}

func TestParseAndString(t *testing.T) {
	id, err := Parse("user:abc123")
	require.NoError(t, err)

	assert.Equal(t, "user", id.Table())
	assert.Equal(t, "abc123", id.Record())
	assert.Equal(t, "user:abc123", id.String())
	assert.False(t, id.IsZero())
}

func TestNew(t *testing.T) {
	id, err := New("user", "42")
	require.NoError(t, err)
	assert.Equal(t, "user:42", id.String())

	_, err = New("user", "a:b")
	require.Error(t, err)
	assert.Equal(t, errors.KindMalformedIdentifier, errors.KindOf(err))
}

func TestZeroIdentity(t *testing.T) {
	var id Identity
	assert.True(t, id.IsZero())
	assert.Equal(t, "", id.String())
}
