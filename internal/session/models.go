package session

import "time"

// Session is a server-side login record. Its id doubles as the token's jti.
type Session struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Expires time.Time `json:"expires"`
}

// Expired reports whether the session's expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expires.After(now)
}
