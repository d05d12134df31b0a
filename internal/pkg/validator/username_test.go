package validator

import (
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "simple", username: "alice"},
		{name: "with punctuation", username: "alice.b_c-d"},
		{name: "too short", username: "al", wantErr: true},
		{name: "too long", username: strings.Repeat("a", 33), wantErr: true},
		{name: "separator", username: "user:alice", wantErr: true},
		{name: "space", username: "alice smith", wantErr: true},
		{name: "leading dot", username: ".alice", wantErr: true},
		{name: "reserved", username: "Admin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Username(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("Username(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	if err := Password("short"); err == nil {
		t.Error("Expected error for short password")
	}
	if err := Password(strings.Repeat("p", 73)); err == nil {
		t.Error("Expected error for password over 72 bytes")
	}
	if err := Password("hunter22"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
