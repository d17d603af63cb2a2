package ports

import (
	"context"

	"github.com/adroid/pool-registry/internal/core/domain"
)

// PoolInput is the full set of writable pool fields. It is used for both
// create and update; update replaces every field with the input's value.
type PoolInput struct {
	HomeOwnerName string
	Phone         string
	Address       string
	City          string
	State         string
	ZipCode       string

	Length  float64
	Width   float64
	Gallons int

	HowManyInlets   int
	HowManySkimmers int
	HowManyLadders  int
	HowManySteps    int

	Filter      EquipmentInput
	Pump        EquipmentInput
	HeaterNG    EquipmentInput
	HeaterCBMS  EquipmentInput
	PoolCleaner EquipmentInput
}

// EquipmentInput identifies one piece of pool equipment.
type EquipmentInput struct {
	Brand  string
	Model  string
	Serial string
}

type PoolService interface {
	Create(ctx context.Context, input PoolInput, ownerID string) (*domain.Pool, error)
	List(ctx context.Context) ([]*domain.Pool, error)
	Get(ctx context.Context, id string) (*domain.Pool, error)
	Update(ctx context.Context, id string, input PoolInput) (*domain.Pool, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, term string) ([]*domain.Pool, error)
}
