package ports

import (
	"context"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// RegisterInput carries the self-registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate verifies a bearer token and resolves it to the current,
	// freshly loaded user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
