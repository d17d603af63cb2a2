package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

var _ ports.PoolRepository = (*PoolRepository)(nil)

type poolRow struct {
	seq  int
	pool domain.Pool
}

type PoolRepository struct {
	mu    sync.RWMutex
	seq   int
	rows  map[string]*poolRow
	users *UserRepository
}

// NewPoolRepository returns an empty store that resolves owner names from users.
func NewPoolRepository(users *UserRepository) *PoolRepository {
	return &PoolRepository{rows: make(map[string]*poolRow), users: users}
}

func (r *PoolRepository) Create(_ context.Context, pool *domain.Pool) (*domain.Pool, error) {
	r.mu.Lock()
	r.seq++
	row := &poolRow{seq: r.seq, pool: *pool}
	row.pool.ID = strconv.Itoa(r.seq)
	row.pool.CreatedByName = ""
	r.rows[row.pool.ID] = row
	r.mu.Unlock()

	return r.enrich(row.pool), nil
}

func (r *PoolRepository) List(_ context.Context) ([]*domain.Pool, error) {
	return r.collect(func(*domain.Pool) bool { return true }), nil
}

func (r *PoolRepository) FindByID(_ context.Context, id string) (*domain.Pool, error) {
	r.mu.RLock()
	row, ok := r.rows[id]
	var p domain.Pool
	if ok {
		p = row.pool
	}
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	return r.enrich(p), nil
}

func (r *PoolRepository) Update(_ context.Context, id string, pool *domain.Pool) (*domain.Pool, error) {
	r.mu.Lock()
	row, ok := r.rows[id]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrPoolNotFound
	}
	next := *pool
	next.ID = id
	next.UserID = row.pool.UserID
	next.CreatedAt = row.pool.CreatedAt
	next.CreatedByName = ""
	row.pool = next
	r.mu.Unlock()

	return r.enrich(next), nil
}

func (r *PoolRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, domain.ErrPoolNotFound
	}
	delete(r.rows, id)
	return true, nil
}

func (r *PoolRepository) Search(_ context.Context, term string) ([]*domain.Pool, error) {
	needle := strings.ToLower(term)
	return r.collect(func(p *domain.Pool) bool {
		return strings.Contains(strings.ToLower(p.HomeOwnerName), needle) ||
			strings.Contains(strings.ToLower(p.City), needle)
	}), nil
}

func (r *PoolRepository) collect(match func(*domain.Pool) bool) []*domain.Pool {
	r.mu.RLock()
	rows := make([]poolRow, 0, len(r.rows))
	for _, row := range r.rows {
		if match(&row.pool) {
			rows = append(rows, *row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].pool.CreatedAt.Equal(rows[j].pool.CreatedAt) {
			return rows[i].pool.CreatedAt.After(rows[j].pool.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]*domain.Pool, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.enrich(row.pool))
	}
	return out
}

func (r *PoolRepository) clearOwner(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.pool.UserID == userID {
			row.pool.UserID = ""
		}
	}
}

func (r *PoolRepository) enrich(p domain.Pool) *domain.Pool {
	if p.UserID != "" && r.users != nil {
		p.CreatedByName = r.users.displayName(p.UserID)
	}
	return &p
}
