package model

import (
	"time"
)

type User struct {
	ID              string     `db:"id"`
	Email           string     `db:"email"`
	PasswordHash    *string    `db:"password_hash"` // Nullable for OAuth-only accounts
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// Session returns the read-only projection of the account handed to handlers.
func (u *User) Session() *Session {
	return &Session{ID: u.ID, Email: u.Email}
}
