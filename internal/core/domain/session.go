package domain

import "time"

// Session is the verified content of an auth token, valid for the request
// that presented it.
type Session struct {
	UserID    string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
