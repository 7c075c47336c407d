package ports

import (
	"context"

	"github.com/eventify/ticketing/internal/core/domain"
)

// UserRepository defines the persistence operations the auth core needs.
// Lookups that match nothing return domain.ErrUserNotFound.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error)
}
