package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventify/ticketing/internal/core/domain"
	"github.com/eventify/ticketing/internal/pkg/metrics"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// BcryptHasher implements ports.PasswordHasher with bcrypt. The digest
// embeds its own salt and cost, so hashing the same password twice yields
// different strings.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, or DefaultBcryptCost when
// cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt digest of password.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", domain.ErrEmptyPassword
	}

	start := time.Now()
	digest, err := offload(ctx, func() ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(password), h.cost)
	})
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	if err != nil {
		if isContextErr(err) {
			return "", err
		}
		return "", &domain.HashingError{Err: err}
	}
	return string(digest), nil
}

// Verify reports whether password matches digest.
func (h *BcryptHasher) Verify(ctx context.Context, password, digest string) (bool, error) {
	start := time.Now()
	_, err := offload(ctx, func() (struct{}, error) {
		return struct{}{}, bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	})
	metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case isContextErr(err):
		return false, err
	default:
		return false, &domain.VerificationError{Err: err}
	}
}

type offloadResult[T any] struct {
	val T
	err error
}

// offload runs fn on its own goroutine so a cancelled request stops waiting
// for CPU-bound work. The result of an abandoned call is discarded.
func offload[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	done := make(chan offloadResult[T], 1)
	go func() {
		v, err := fn()
		done <- offloadResult[T]{val: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
