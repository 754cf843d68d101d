package entities

import (
	"time"
)

// Session represents a server-side authenticated session. ID is the SHA-256
// hex digest of the raw token handed to the client; the raw token itself is
// never stored.
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ExpiredAt reports whether the session is expired at the given instant.
// A session expiring exactly now is expired.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
