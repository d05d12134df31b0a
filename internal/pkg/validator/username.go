package validator

import (
	"errors"
	"regexp"
	"strings"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	minPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

var reservedUsernames = []string{
	"admin", "root", "system", "api", "me", "support",
}

// Username checks the characters and length of a username. The ':'
// separator of serialized identities is never allowed.
func Username(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return errors.New("username must be between 3 and 32 characters")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username may contain only letters, digits, '.', '_' and '-'")
	}

	lower := strings.ToLower(username)
	for _, reserved := range reservedUsernames {
		if lower == reserved {
			return errors.New("username is reserved")
		}
	}
	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	// bcrypt ignores input beyond 72 bytes
	if len(password) > 72 {
		return errors.New("password must be at most 72 bytes")
	}
	return nil
}
