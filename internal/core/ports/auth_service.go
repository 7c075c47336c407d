package ports

import (
	"context"
	"time"

	"github.com/eventify/ticketing/internal/core/domain"
)

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// LoginInput carries credentials plus the client metadata recorded in the
// audit trail.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	Name  string
	Email string
}

// AuthService implements the account use cases. Register, Login and
// UpdateProfile all return a freshly issued token for the resulting user.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, in LoginInput) (string, *domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (string, *domain.User, error)
	RecordLogout(session domain.Session, ip, userAgent string)
}

// PasswordHasher hashes and checks passwords. Verify returns (false, nil)
// on a mismatch and an error only for a malformed digest.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, digest string) (bool, error)
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
	TTL() time.Duration
}

// TokenVerifier checks identity tokens. A false result is a normal outcome
// for missing, tampered or expired tokens.
type TokenVerifier interface {
	Verify(token string) (domain.Session, bool)
}

// SessionResolver maps a token, or an already verified session, to the
// account currently behind it.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.CurrentUser, bool)
	Resolve(ctx context.Context, session domain.Session) (*domain.CurrentUser, bool)
}

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {
	Allowed(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// AuditPublisher accepts audit events without blocking the caller.
type AuditPublisher interface {
	Publish(event domain.AuthEvent)
}
