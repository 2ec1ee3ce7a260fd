package validation

import (
	"errors"
	"net/mail"
)

// RFC 5321 caps a forward path at 256 octets including the angle brackets.
const MaxEmailLength = 254

var (
	ErrEmailEmpty   = errors.New("email address is required")
	ErrEmailTooLong = errors.New("email address is too long (max 254 characters)")
	ErrEmailInvalid = errors.New("invalid email address format")
)

// ValidateEmail accepts a bare RFC 5322 address. Display names such as
// "Ada <ada@example.com>" are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailEmpty
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}
	return nil
}
