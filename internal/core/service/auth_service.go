package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
	"github.com/eventify/ticketing/internal/pkg/metrics"
)

// AuthService implements registration, login and profile edits.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	audit    ports.AuditPublisher
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the auth use cases. throttle and audit may be nil,
// in which case logins are never throttled and nothing is audited.
func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	throttle ports.LoginThrottle,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = noThrottle{}
	}
	if audit == nil {
		audit = noAudit{}
	}
	return &AuthService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}
	if len(in.Password) > domain.MaxPasswordBytes {
		return "", nil, domain.ErrPasswordTooLong
	}
	if !in.Role.SelfAssignable() {
		return "", nil, domain.ErrInvalidRole
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("password hashing failed")
		return "", nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return "", nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(created.Role)).Inc()
	s.audit.Publish(domain.AuthEvent{Type: domain.AuthEventRegister, UserID: created.ID, Email: created.Email, At: now})
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")

	return token, created, nil
}

// Login checks credentials. Unknown emails and wrong passwords produce the
// same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	event := domain.AuthEvent{Email: email, IP: in.IP, UserAgent: in.UserAgent}

	if !s.throttle.Allowed(ctx, email) {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		s.publish(event, domain.AuthEventLoginThrottled)
		s.log.Info().Str("email", email).Msg("login throttled")
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, s.rejectLogin(ctx, event)
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, in.Password, user.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password digest unusable")
		return "", nil, err
	}
	if !ok {
		event.UserID = user.ID
		return "", nil, s.rejectLogin(ctx, event)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	s.throttle.Reset(ctx, email)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	event.UserID = user.ID
	s.publish(event, domain.AuthEventLoginSuccess)
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return token, user, nil
}

func (s *AuthService) rejectLogin(ctx context.Context, event domain.AuthEvent) error {
	s.throttle.RecordFailure(ctx, event.Email)
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.publish(event, domain.AuthEventLoginFailure)
	s.log.Info().Str("email", event.Email).Msg("login rejected")
	return domain.ErrInvalidCredentials
}

// UpdateProfile edits name and email and reissues the token so the embedded
// email follows the change.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	current, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return "", nil, err
	}

	if email != current.Email {
		existing, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != current.ID:
			return "", nil, domain.ErrEmailTaken
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return "", nil, fmt.Errorf("update profile: %w", err)
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(in.Name), email)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(updated)
	if err != nil {
		return "", nil, err
	}

	s.audit.Publish(domain.AuthEvent{Type: domain.AuthEventProfileUpdate, UserID: updated.ID, Email: updated.Email, At: s.now().UTC()})
	return token, updated, nil
}

// RecordLogout audits a logout. The token itself stays valid until expiry.
func (s *AuthService) RecordLogout(session domain.Session, ip, userAgent string) {
	s.publish(domain.AuthEvent{UserID: session.UserID, Email: session.Email, IP: ip, UserAgent: userAgent}, domain.AuthEventLogout)
}

func (s *AuthService) publish(event domain.AuthEvent, typ domain.AuthEventType) {
	event.Type = typ
	event.At = s.now().UTC()
	s.audit.Publish(event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type noThrottle struct{}

func (noThrottle) Allowed(context.Context, string) bool { return true }
func (noThrottle) RecordFailure(context.Context, string) {}
func (noThrottle) Reset(context.Context, string) {}

type noAudit struct{}

func (noAudit) Publish(domain.AuthEvent) {}
