package ports

import (
	"context"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// CreateMemberInput carries an admin's request to provision a member account.
// Username is optional and derived from Email when empty.
type CreateMemberInput struct {
	Email    string
	Password string
	FullName string
	Username string
}

type UserService interface {
	CreateMember(ctx context.Context, input CreateMemberInput) (*domain.User, error)
}
