package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxNameLength = 100

var (
	ErrNameEmpty   = errors.New("name is required")
	ErrNameTooLong = errors.New("name is too long (max 100 characters)")
)

// ValidateName checks a display name after trimming. Length is counted in
// characters, not bytes.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
