package validation

import (
	"errors"
	"net/url"
	"strings"
)

// ValidateURL accepts absolute http(s) URLs. Blank input is valid because
// link fields are optional.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if len(raw) > 2048 {
		return errors.New("URL is too long (max 2048 characters)")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return errors.New("invalid URL")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}

	return nil
}
