package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

// maxUsernameProbes bounds how many suffixed candidates are tried before
// falling back to a time-based suffix.
const maxUsernameProbes = 1000

// UserService provisions member accounts on behalf of admins.
type UserService struct {
	repo ports.UserRepository
	cost int
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserService(repo ports.UserRepository, cost int, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, cost: normalizeCost(cost), log: log, now: time.Now}
}

// CreateMember creates an account with the member role. When no username is
// given one is derived from the email address.
func (s *UserService) CreateMember(ctx context.Context, in ports.CreateMemberInput) (*domain.User, error) {
	if err := ensureEmailFree(ctx, s.repo, in.Email); err != nil {
		return nil, err
	}

	username := in.Username
	if username != "" {
		if err := ensureUsernameFree(ctx, s.repo, username); err != nil {
			return nil, err
		}
	} else {
		derived, err := s.uniqueUsername(ctx, UsernameBase(in.Email))
		if err != nil {
			return nil, err
		}
		username = derived
	}

	user, err := createUser(ctx, s.repo, s.cost, username, in.Email, in.Password, in.FullName, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("member created")
	return user.Public(), nil
}

// UsernameBase derives a username candidate from the local part of email:
// lowercased, every character outside [a-z0-9_] replaced with '_', and "user"
// when nothing is left.
func UsernameBase(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	local = strings.ToLower(local)

	var b strings.Builder
	b.Grow(len(local))
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// uniqueUsername probes base, base_1, base_2, ... and returns the first free
// name. This is best effort: a concurrent insert of the same name still
// surfaces as domain.ErrUsernameTaken from the repository.
func (s *UserService) uniqueUsername(ctx context.Context, base string) (string, error) {
	for i := 0; i < maxUsernameProbes; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d", base, i)
		}
		taken, err := usernameTaken(ctx, s.repo, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return fmt.Sprintf("%s_%d", base, s.now().UnixMilli()), nil
}
