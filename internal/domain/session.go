package domain

import "time"

// Session is an opaque bearer token bound to a user identity. The token is
// looked up, never decoded.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry at the given
// instant. Validation checks this directly, so a missed purge sweep only
// costs storage, never correctness.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
