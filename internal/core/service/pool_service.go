package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

var errDeleteFailed = errors.New("Failed to delete pool")

type PoolService struct {
	repo ports.PoolRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewPoolService(repo ports.PoolRepository, log zerolog.Logger) *PoolService {
	return &PoolService{repo: repo, log: log, now: time.Now}
}

// Create stores a new pool record owned by ownerID (which may be empty).
func (s *PoolService) Create(ctx context.Context, in ports.PoolInput, ownerID string) (*domain.Pool, error) {
	now := s.now().UTC()
	pool := toPool(in)
	pool.UserID = ownerID
	pool.CreatedAt = now
	pool.UpdatedAt = now

	created, err := s.repo.Create(ctx, pool)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create pool")
		return nil, err
	}

	s.log.Info().Str("pool_id", created.ID).Str("user_id", ownerID).Msg("pool created")
	return created, nil
}

func (s *PoolService) List(ctx context.Context) ([]*domain.Pool, error) {
	return s.repo.List(ctx)
}

func (s *PoolService) Get(ctx context.Context, id string) (*domain.Pool, error) {
	return s.repo.FindByID(ctx, id)
}

// Update replaces every field of the record with in. Fields absent from in are
// cleared, not merged.
func (s *PoolService) Update(ctx context.Context, id string, in ports.PoolInput) (*domain.Pool, error) {
	pool := toPool(in)
	pool.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, id, pool)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("pool_id", id).Msg("pool updated")
	return updated, nil
}

func (s *PoolService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errDeleteFailed
	}

	s.log.Info().Str("pool_id", id).Msg("pool deleted")
	return nil
}

// Search returns records whose home owner name or city contains term,
// ignoring case. An empty term is rejected.
func (s *PoolService) Search(ctx context.Context, term string) ([]*domain.Pool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrSearchQueryRequired
	}
	return s.repo.Search(ctx, term)
}

func toPool(in ports.PoolInput) *domain.Pool {
	return &domain.Pool{
		HomeOwnerName:     in.HomeOwnerName,
		Phone:             in.Phone,
		Address:           in.Address,
		City:              in.City,
		State:             in.State,
		ZipCode:           in.ZipCode,
		Length:            in.Length,
		Width:             in.Width,
		Gallons:           in.Gallons,
		HowManyInlets:     in.HowManyInlets,
		HowManySkimmers:   in.HowManySkimmers,
		HowManyLadders:    in.HowManyLadders,
		HowManySteps:      in.HowManySteps,
		FilterBrand:       in.Filter.Brand,
		FilterModel:       in.Filter.Model,
		FilterSerial:      in.Filter.Serial,
		PumpBrand:         in.Pump.Brand,
		PumpModel:         in.Pump.Model,
		PumpSerial:        in.Pump.Serial,
		HeaterBrandNG:     in.HeaterNG.Brand,
		HeaterModelNG:     in.HeaterNG.Model,
		HeaterSerialNG:    in.HeaterNG.Serial,
		HeaterBrandCBMS:   in.HeaterCBMS.Brand,
		HeaterModelCBMS:   in.HeaterCBMS.Model,
		HeaterSerialCBMS:  in.HeaterCBMS.Serial,
		PoolCleanerBrand:  in.PoolCleaner.Brand,
		PoolCleanerModel:  in.PoolCleaner.Model,
		PoolCleanerSerial: in.PoolCleaner.Serial,
	}
}
