package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

const uniqueViolation = "23505"

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db      DB
	timeout time.Duration
}

func NewUserRepository(db DB, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &UserRepository{db: db, timeout: timeout}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created := *user
	created.ID = uuid.NewString()

	const q = `
		INSERT INTO users (id, username, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, q,
		created.ID,
		created.Username,
		created.Email,
		created.PasswordHash,
		created.FullName,
		string(created.Role),
		created.IsActive,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		if mapped := uniqueUserError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := r.findOne(ctx, "id = $1", id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := `
		SELECT id::text, username, email, password_hash, full_name, role, is_active, created_at, updated_at
		FROM users
		WHERE ` + where + ` AND is_active
		LIMIT 1
	`

	var (
		user domain.User
		role string
	)
	err := r.db.QueryRow(ctx, q, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.Role = domain.Role(role)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// uniqueUserError maps a unique violation to the conflicting field. It
// returns nil for any other error.
func uniqueUserError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintUsersEmail:
		return domain.ErrEmailTaken
	case constraintUsersUsername:
		return domain.ErrUsernameTaken
	default:
		return domain.ErrUserExists
	}
}
