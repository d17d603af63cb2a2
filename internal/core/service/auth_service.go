package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

// DefaultBcryptCost is the work factor used for password hashes.
const DefaultBcryptCost = 12

// AuthService implements registration, login and token authentication.
type AuthService struct {
	repo    ports.UserRepository
	tokens  *TokenManager
	limiter ports.LoginLimiter
	cost    int
	log     zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService wires an AuthService. limiter may be nil, which disables
// login throttling.
func NewAuthService(repo ports.UserRepository, tokens *TokenManager, limiter ports.LoginLimiter, cost int, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, limiter: limiter, cost: normalizeCost(cost), log: log}
}

// normalizeCost falls back to DefaultBcryptCost for values bcrypt rejects.
func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return DefaultBcryptCost
	}
	return cost
}

// Register creates a new account. Self-registered accounts are always admins.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if err := ensureEmailFree(ctx, s.repo, in.Email); err != nil {
		return nil, registerError(err)
	}
	if err := ensureUsernameFree(ctx, s.repo, in.Username); err != nil {
		return nil, err
	}

	user, err := createUser(ctx, s.repo, s.cost, in.Username, in.Email, in.Password, in.FullName, domain.RoleAdmin)
	if err != nil {
		return nil, registerError(err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

// Login verifies an email/password pair and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrLoginThrottled
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		// Spend the same bcrypt time as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.recordFailure(ctx, key)
		return nil, domain.ErrInvalidCredentials
	}

	if !VerifySecret(password, user.PasswordHash) {
		s.recordFailure(ctx, key)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

// Authenticate resolves a bearer token to the user it was issued for. The user
// is reloaded on every call so role changes apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	subject, err := s.tokens.Parse(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("token rejected")
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrIdentityGone
		}
		return nil, err
	}
	return user, nil
}

// registerError reports a taken email as the generic ErrUserExists on the
// public registration path.
func registerError(err error) error {
	if errors.Is(err, domain.ErrEmailTaken) {
		return domain.ErrUserExists
	}
	return err
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Fail(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login attempt")
	}
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("pool-registry"), s.cost)
	})
	return s.dummyHash
}

// VerifySecret reports whether candidate matches the stored bcrypt hash.
func VerifySecret(candidate, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}

func ensureEmailFree(ctx context.Context, repo ports.UserRepository, email string) error {
	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailTaken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func ensureUsernameFree(ctx context.Context, repo ports.UserRepository, username string) error {
	taken, err := usernameTaken(ctx, repo, username)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}
	return nil
}

func usernameTaken(ctx context.Context, repo ports.UserRepository, username string) (bool, error) {
	_, err := repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

func createUser(ctx context.Context, repo ports.UserRepository, cost int, username, email, password, fullName string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}
