package domain

import "time"

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CurrentUser is the restricted projection of a User handed to request
// handlers once a session has been resolved.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Current projects u onto the fields a session is allowed to see.
func (u *User) Current() *CurrentUser {
	if u == nil {
		return nil
	}
	return &CurrentUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}
