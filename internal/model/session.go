package model

import "time"

// Session is the server-side record of an authenticated browser.
// The session token itself is never stored; Redis keys are derived from
// its SHA-256 hash and this payload is the value.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ShouldRefresh reports whether the session has passed half of its
// lifetime. The access gate uses this to slide the expiry forward and
// re-issue the cookie so long-lived browsers are not logged out.
func (s *Session) ShouldRefresh(now time.Time) bool {
	lifetime := s.ExpiresAt.Sub(s.CreatedAt)
	if lifetime <= 0 {
		return false
	}
	return now.Sub(s.CreatedAt) > lifetime/2
}
