package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/core/ports"
	"github.com/eventify/ticketing/internal/pkg/metrics"
)

// DefaultLookupTimeout bounds the user lookup behind a session.
const DefaultLookupTimeout = 3 * time.Second

// SessionResolver turns a token into the account currently behind it.
// Every failure, including store errors and timeouts, resolves to "not
// logged in".
type SessionResolver struct {
	tokens  ports.TokenVerifier
	users   ports.UserRepository
	timeout time.Duration
	log     zerolog.Logger
}

func NewSessionResolver(tokens ports.TokenVerifier, users ports.UserRepository, timeout time.Duration, log zerolog.Logger) *SessionResolver {
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &SessionResolver{tokens: tokens, users: users, timeout: timeout, log: log}
}

// CurrentUser verifies token and loads its subject. An invalid token
// returns without touching the store.
func (r *SessionResolver) CurrentUser(ctx context.Context, token string) (*domain.CurrentUser, bool) {
	if token == "" {
		return nil, false
	}
	session, ok := r.tokens.Verify(token)
	if !ok {
		return nil, false
	}
	return r.Resolve(ctx, session)
}

// Resolve loads the subject of an already verified session.
func (r *SessionResolver) Resolve(ctx context.Context, session domain.Session) (*domain.CurrentUser, bool) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	user, err := r.users.FindByID(lookupCtx, session.UserID)
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, domain.ErrUserNotFound) || (err == nil && user == nil):
		metrics.SessionLookupDuration.WithLabelValues("not_found").Observe(elapsed)
		r.log.Debug().Str("user_id", session.UserID).Msg("session subject no longer exists")
		return nil, false
	case err != nil:
		metrics.SessionLookupDuration.WithLabelValues("error").Observe(elapsed)
		r.log.Warn().Err(err).Str("user_id", session.UserID).Msg("session lookup failed")
		return nil, false
	}

	metrics.SessionLookupDuration.WithLabelValues("found").Observe(elapsed)
	return user.Current(), true
}
