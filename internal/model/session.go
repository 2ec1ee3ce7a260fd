package model

import "strings"

// Session is the authenticated viewer as seen by handlers and services.
// It never carries credentials.
type Session struct {
	ID    string
	Email string
}

// EmailName returns the local part of the session email.
func (s *Session) EmailName() string {
	name, _, _ := strings.Cut(s.Email, "@")
	return name
}
