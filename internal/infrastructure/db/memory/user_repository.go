// Package memory provides in-process implementations of the repository ports.
// They back STORE_DRIVER=memory for local runs and router-level tests; data is
// lost on restart.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	mu    sync.RWMutex
	seq   int
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}

	r.seq++
	stored := *user
	stored.ID = strconv.Itoa(r.seq)
	r.users[stored.ID] = &stored

	clone := stored
	return &clone, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, err := r.find(func(u *domain.User) bool { return u.ID == id })
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// SetRole changes a stored user's role. There is no API for this; it exists
// for operators and tests.
func (r *UserRepository) SetRole(id string, role domain.Role) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if ok {
		u.Role = role
	}
	return ok
}

// SetActive toggles a stored user's active flag.
func (r *UserRepository) SetActive(id string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if ok {
		u.IsActive = active
	}
	return ok
}

// Remove deletes a user outright and clears references held by pools.
func (r *UserRepository) Remove(id string, pools *PoolRepository) {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
	if pools != nil {
		pools.clearOwner(id)
	}
}

func (r *UserRepository) displayName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return u.FullName
	}
	return ""
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.IsActive && match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
