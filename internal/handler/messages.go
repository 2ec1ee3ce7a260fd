package handler

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vibeshare/vibeshare/internal/service"
	"github.com/vibeshare/vibeshare/internal/validation"
)

const genericError = "Something went wrong. Please try again."

var authFormErrors = []error{
	service.ErrInvalidEmail,
	service.ErrNameRequired,
	service.ErrNameTooLong,
	validation.ErrPasswordTooShort,
	validation.ErrPasswordTooLong,
	service.ErrEmailAlreadyExists,
	service.ErrInvalidCredentials,
	service.ErrEmailNotVerified,
	service.ErrPasswordlessLogin,
}

var postFormErrors = []error{
	service.ErrUnauthenticated,
	service.ErrTitleRequired,
	service.ErrInvalidMediaURL,
	service.ErrInvalidCodeLink,
	service.ErrUploadsDisabled,
	service.ErrMediaURLConflict,
	service.ErrInvalidUpload,
}

// formMessage is the text a form shows for err. Only errors in known are
// shown as is; anything else gets the generic message.
func formMessage(err error, known []error) string {
	for _, k := range known {
		if errors.Is(err, k) {
			return capitalize(err.Error())
		}
	}
	return genericError
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	var b strings.Builder
	b.WriteRune(unicode.ToUpper(r))
	b.WriteString(s[size:])
	return b.String()
}
