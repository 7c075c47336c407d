package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute
)

// LoginThrottle counts failed logins per email in Redis.
// Key format: login:fail:<email>
//
// Redis errors never block a login: the throttle fails open.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	log         zerolog.Logger
}

// NewLoginThrottle creates a LoginThrottle. Non-positive limits fall back
// to DefaultMaxAttempts and DefaultWindow.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration, log zerolog.Logger) *LoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window, log: log}
}

// Allowed reports whether email is still below the failure limit.
func (t *LoginThrottle) Allowed(ctx context.Context, email string) bool {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			t.log.Warn().Err(err).Msg("login throttle check failed, allowing")
		}
		return true
	}
	return n < t.maxAttempts
}

// RecordFailure increments the counter. The window starts at the first
// failure and is not extended by later ones.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	key := t.key(email)
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		t.log.Warn().Err(err).Msg("failed to record login failure")
		return
	}
	if incr.Val() == t.maxAttempts {
		t.log.Info().Str("email", email).Dur("window", t.window).Msg("login locked out")
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if err := t.client.Del(ctx, t.key(email)).Err(); err != nil {
		t.log.Warn().Err(err).Msg("failed to reset login throttle")
	}
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("login:fail:%s", strings.ToLower(email))
}
