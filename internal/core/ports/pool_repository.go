package ports

import (
	"context"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// PoolRepository persists pool records. Every record it returns is enriched
// with the creating user's display name. Listings are ordered newest first.
type PoolRepository interface {
	Create(ctx context.Context, pool *domain.Pool) (*domain.Pool, error)
	List(ctx context.Context) ([]*domain.Pool, error)
	FindByID(ctx context.Context, id string) (*domain.Pool, error)
	// Update replaces every mutable field of the record. The owner reference
	// and creation time are preserved.
	Update(ctx context.Context, id string, pool *domain.Pool) (*domain.Pool, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Search matches term case-insensitively as a substring of the home owner
	// name or the city.
	Search(ctx context.Context, term string) ([]*domain.Pool, error)
}
