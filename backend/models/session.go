package models

import "time"

// UserSession is the authenticated state carried by the session cookie.
type UserSession struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's deadline has passed.
func (s *UserSession) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
