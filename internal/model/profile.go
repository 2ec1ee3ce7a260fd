package model

import (
	"net/url"
	"time"
	"unicode/utf8"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

// Profile is the display identity of a user. ID equals the user ID.
type Profile struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	AvatarURL string    `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AvatarURLFor builds the generated avatar for a display name.
func AvatarURLFor(name string) string {
	return avatarBaseURL + url.QueryEscape(name)
}

// Initial returns the first letter of the name, or "?" when unknown.
func (p *Profile) Initial() string {
	if p == nil || p.Name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(p.Name)
	return string(r)
}

// DisplayName returns the name, or "Anonymous" when unknown.
func (p *Profile) DisplayName() string {
	if p == nil || p.Name == "" {
		return "Anonymous"
	}
	return p.Name
}
