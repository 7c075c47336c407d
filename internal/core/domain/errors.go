package domain

import "errors"

// MaxPasswordBytes is the longest password bcrypt accepts, counted in bytes.
const MaxPasswordBytes = 72

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidEvent       = errors.New("invalid event")
)

// HashingError reports a failure inside the password hashing primitive.
// It never carries the plaintext.
type HashingError struct {
	Err error
}

func (e *HashingError) Error() string { return "password hashing failed: " + e.Err.Error() }

func (e *HashingError) Unwrap() error { return e.Err }

// VerificationError reports a stored digest that cannot be parsed. A
// password that simply does not match is not a VerificationError.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string { return "password verification failed: " + e.Err.Error() }

func (e *VerificationError) Unwrap() error { return e.Err }
