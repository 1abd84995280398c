package domain

import "time"

// Session is the server-side record behind an authenticated client.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its absolute lifetime.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
