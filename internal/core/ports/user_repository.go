package ports

import (
	"context"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// UserRepository persists user accounts.
//
// Lookups only ever return active users. Create reports uniqueness violations
// as domain.ErrEmailTaken or domain.ErrUsernameTaken (both domain.ErrConflict).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID returns the public projection of the user (no password hash).
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
