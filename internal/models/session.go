package models

import "time"

// Session is the server-side record behind a login cookie.
type Session struct {
	Token      string    `db:"token"`
	UserID     int64     `db:"user_id"`
	Persistent bool      `db:"persistent"`
	ExpiresAt  time.Time `db:"expires_at"`
	CreatedAt  time.Time `db:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
