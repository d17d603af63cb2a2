package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

func newTestUserService(repo ports.UserRepository) *UserService {
	return NewUserService(repo, bcrypt.MinCost, zerolog.Nop())
}

func memberInput(email, username string) ports.CreateMemberInput {
	return ports.CreateMemberInput{Email: email, Password: "secret1", FullName: "Jane Doe", Username: username}
}

func TestUsernameBase(t *testing.T) {
	cases := map[string]string{
		"jane.doe+test@x.com": "jane_doe_test",
		"John_Smith@x.com":    "john_smith",
		"ABC123@x.com":        "abc123",
		"@x.com":              "user",
		"no-at-sign":          "no_at_sign",
		"ünï@x.com":           "_n_",
	}
	for in, want := range cases {
		if got := UsernameBase(in); got != want {
			t.Errorf("UsernameBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUserService_CreateMember_ExplicitUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.CreateMember(context.Background(), memberInput("jane@x.com", "janed"))
	if err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}
	if user.Username != "janed" || user.Role != domain.RoleMember {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected public projection")
	}
	if !VerifySecret("secret1", repo.users[user.ID].PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
}

func TestUserService_CreateMember_ExplicitUsernameTaken(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("janed", "other@x.com", domain.RoleMember)
	svc := newTestUserService(repo)

	_, err := svc.CreateMember(context.Background(), memberInput("jane@x.com", "janed"))
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserService_CreateMember_EmailTaken(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("jane", "jane@x.com", domain.RoleAdmin)
	svc := newTestUserService(repo)

	_, err := svc.CreateMember(context.Background(), memberInput("jane@x.com", ""))
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_CreateMember_DerivesUsername(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("jane_doe", "jd@x.com", domain.RoleMember)
	svc := newTestUserService(repo)

	user, err := svc.CreateMember(context.Background(), memberInput("jane.doe+test@x.com", ""))
	if err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}
	if user.Username != "jane_doe_test" {
		t.Fatalf("expected jane_doe_test, got %s", user.Username)
	}
}

func TestUserService_CreateMember_DerivedUsernameCollides(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("jane_doe", "a@x.com", domain.RoleMember)
	repo.seed("jane_doe_test", "b@x.com", domain.RoleMember)
	svc := newTestUserService(repo)

	user, err := svc.CreateMember(context.Background(), memberInput("jane.doe+test@x.com", ""))
	if err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}
	if user.Username != "jane_doe_test_1" {
		t.Fatalf("expected jane_doe_test_1, got %s", user.Username)
	}
}

func TestUserService_UniqueUsername_FallsBackToTimestamp(t *testing.T) {
	repo := newStubUserRepo()
	repo.seed("pat", "pat@x.com", domain.RoleMember)
	for i := 1; i < maxUsernameProbes; i++ {
		repo.seed(fmt.Sprintf("pat_%d", i), fmt.Sprintf("pat%d@x.com", i), domain.RoleMember)
	}
	svc := newTestUserService(repo)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	repo.probes = nil

	got, err := svc.uniqueUsername(context.Background(), "pat")
	if err != nil {
		t.Fatalf("uniqueUsername returned error: %v", err)
	}
	if got != "pat_1700000000000" {
		t.Fatalf("expected timestamp fallback, got %s", got)
	}
	if len(repo.probes) != maxUsernameProbes {
		t.Fatalf("expected %d probes, got %d", maxUsernameProbes, len(repo.probes))
	}
}

func TestUserService_CreateMember_ProbeErrorPropagates(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestUserService(repo)

	boom := errors.New("connection refused")
	wrapped := &failingUsernameRepo{stubUserRepo: repo, err: boom}
	svc.repo = wrapped

	_, err := svc.CreateMember(context.Background(), memberInput("x@x.com", ""))
	if !errors.Is(err, boom) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

type failingUsernameRepo struct {
	*stubUserRepo
	err error
}

func (r *failingUsernameRepo) FindByUsername(context.Context, string) (*domain.User, error) {
	return nil, r.err
}

func TestNormalizeCost(t *testing.T) {
	cases := map[int]int{
		0:                  DefaultBcryptCost,
		1:                  DefaultBcryptCost,
		bcrypt.MinCost:     bcrypt.MinCost,
		10:                 10,
		bcrypt.MaxCost:     bcrypt.MaxCost,
		bcrypt.MaxCost + 1: DefaultBcryptCost,
		40:                 DefaultBcryptCost,
	}
	for in, want := range cases {
		if got := normalizeCost(in); got != want {
			t.Errorf("normalizeCost(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestUserService_CreateMember_OutOfRangeCostMatchesAuthService(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, 40, zerolog.Nop())
	auth := NewAuthService(repo, NewTokenManager("secret", time.Hour), nil, 40, zerolog.Nop())
	if svc.cost != auth.cost {
		t.Fatalf("services disagree on cost: member=%d auth=%d", svc.cost, auth.cost)
	}

	user, err := svc.CreateMember(context.Background(), memberInput("jane@x.com", "janed"))
	if err != nil {
		t.Fatalf("CreateMember returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(repo.users[user.ID].PasswordHash))
	if err != nil {
		t.Fatalf("read hash cost: %v", err)
	}
	if cost != DefaultBcryptCost {
		t.Fatalf("expected cost %d, got %d", DefaultBcryptCost, cost)
	}
}
