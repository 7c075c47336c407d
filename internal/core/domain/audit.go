package domain

import "time"

// AuthEventType names an entry in the authentication audit trail.
type AuthEventType string

const (
	AuthEventRegister       AuthEventType = "register"
	AuthEventLoginSuccess   AuthEventType = "login_success"
	AuthEventLoginFailure   AuthEventType = "login_failure"
	AuthEventLoginThrottled AuthEventType = "login_throttled"
	AuthEventLogout         AuthEventType = "logout"
	AuthEventProfileUpdate  AuthEventType = "profile_update"
)

// AuthEvent is one audit record. Passwords are never part of it.
type AuthEvent struct {
	Type      AuthEventType `json:"type" bson:"type"`
	UserID    string        `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email     string        `json:"email" bson:"email"`
	IP        string        `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string        `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	At        time.Time     `json:"at" bson:"at"`
}
