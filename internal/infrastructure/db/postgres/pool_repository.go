package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

var _ ports.PoolRepository = (*PoolRepository)(nil)

type PoolRepository struct {
	db      DB
	timeout time.Duration
}

func NewPoolRepository(db DB, timeout time.Duration) *PoolRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &PoolRepository{db: db, timeout: timeout}
}

// poolSelect joins the creator so every read carries createdByName.
const poolSelect = `
	SELECT
		p.id::text,
		p.home_owner_name, p.phone, p.address, p.city, p.state, p.zip_code,
		p.length, p.width, p.gallons,
		p.how_many_inlets, p.how_many_skimmers, p.how_many_ladders, p.how_many_steps,
		p.filter_brand, p.filter_model, p.filter_serial,
		p.pump_brand, p.pump_model, p.pump_serial,
		p.heater_brand_ng, p.heater_model_ng, p.heater_serial_ng,
		p.heater_brand_cbms, p.heater_model_cbms, p.heater_serial_cbms,
		p.pool_cleaner_brand, p.pool_cleaner_model, p.pool_cleaner_serial,
		p.user_id::text, u.full_name,
		p.created_at, p.updated_at
	FROM pools p
	LEFT JOIN users u ON u.id = p.user_id
`

const poolOrder = ` ORDER BY p.created_at DESC, p.seq DESC`

func (r *PoolRepository) Create(ctx context.Context, p *domain.Pool) (*domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id := uuid.NewString()
	var owner *string
	if _, err := uuid.Parse(p.UserID); err == nil {
		owner = &p.UserID
	}

	const q = `
		INSERT INTO pools (
			id, home_owner_name, phone, address, city, state, zip_code,
			length, width, gallons,
			how_many_inlets, how_many_skimmers, how_many_ladders, how_many_steps,
			filter_brand, filter_model, filter_serial,
			pump_brand, pump_model, pump_serial,
			heater_brand_ng, heater_model_ng, heater_serial_ng,
			heater_brand_cbms, heater_model_cbms, heater_serial_cbms,
			pool_cleaner_brand, pool_cleaner_model, pool_cleaner_serial,
			user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32
		)
	`
	args := append([]any{id}, mutableArgs(p)...)
	args = append(args, owner, p.CreatedAt, p.UpdatedAt)

	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("insert pool: %w", err)
	}
	return r.findOne(ctx, id)
}

func (r *PoolRepository) List(ctx context.Context) ([]*domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.query(ctx, poolSelect+poolOrder)
}

func (r *PoolRepository) FindByID(ctx context.Context, id string) (*domain.Pool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrPoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.findOne(ctx, id)
}

// Update replaces every mutable column. Owner and creation time are kept.
func (r *PoolRepository) Update(ctx context.Context, id string, p *domain.Pool) (*domain.Pool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrPoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const q = `
		UPDATE pools SET
			home_owner_name = $2, phone = $3, address = $4, city = $5, state = $6, zip_code = $7,
			length = $8, width = $9, gallons = $10,
			how_many_inlets = $11, how_many_skimmers = $12, how_many_ladders = $13, how_many_steps = $14,
			filter_brand = $15, filter_model = $16, filter_serial = $17,
			pump_brand = $18, pump_model = $19, pump_serial = $20,
			heater_brand_ng = $21, heater_model_ng = $22, heater_serial_ng = $23,
			heater_brand_cbms = $24, heater_model_cbms = $25, heater_serial_cbms = $26,
			pool_cleaner_brand = $27, pool_cleaner_model = $28, pool_cleaner_serial = $29,
			updated_at = $30
		WHERE id = $1
	`
	args := append([]any{id}, mutableArgs(p)...)
	args = append(args, p.UpdatedAt)

	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return r.findOne(ctx, id)
}

func (r *PoolRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, domain.ErrPoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM pools WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete pool: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, domain.ErrPoolNotFound
	}
	return true, nil
}

// Search matches the term case-insensitively as a literal substring of the
// home owner name or the city.
func (r *PoolRepository) Search(ctx context.Context, term string) ([]*domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := poolSelect + `WHERE p.home_owner_name ILIKE $1 ESCAPE '\' OR p.city ILIKE $1 ESCAPE '\'` + poolOrder
	return r.query(ctx, q, likePattern(term))
}

func (r *PoolRepository) findOne(ctx context.Context, id string) (*domain.Pool, error) {
	pools, err := r.query(ctx, poolSelect+`WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return pools[0], nil
}

func (r *PoolRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Pool, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pools: %w", err)
	}
	defer rows.Close()

	pools := make([]*domain.Pool, 0)
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pools, nil
		}
		return nil, fmt.Errorf("iterate pools: %w", err)
	}
	return pools, nil
}

func scanPool(row pgx.Row) (*domain.Pool, error) {
	var (
		p         domain.Pool
		userID    *string
		createdBy *string
	)
	err := row.Scan(
		&p.ID,
		&p.HomeOwnerName, &p.Phone, &p.Address, &p.City, &p.State, &p.ZipCode,
		&p.Length, &p.Width, &p.Gallons,
		&p.HowManyInlets, &p.HowManySkimmers, &p.HowManyLadders, &p.HowManySteps,
		&p.FilterBrand, &p.FilterModel, &p.FilterSerial,
		&p.PumpBrand, &p.PumpModel, &p.PumpSerial,
		&p.HeaterBrandNG, &p.HeaterModelNG, &p.HeaterSerialNG,
		&p.HeaterBrandCBMS, &p.HeaterModelCBMS, &p.HeaterSerialCBMS,
		&p.PoolCleanerBrand, &p.PoolCleanerModel, &p.PoolCleanerSerial,
		&userID, &createdBy,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan pool: %w", err)
	}
	if userID != nil {
		p.UserID = *userID
	}
	if createdBy != nil {
		p.CreatedByName = *createdBy
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// mutableArgs returns the replaceable columns in table order.
func mutableArgs(p *domain.Pool) []any {
	return []any{
		p.HomeOwnerName, p.Phone, p.Address, p.City, p.State, p.ZipCode,
		p.Length, p.Width, p.Gallons,
		p.HowManyInlets, p.HowManySkimmers, p.HowManyLadders, p.HowManySteps,
		p.FilterBrand, p.FilterModel, p.FilterSerial,
		p.PumpBrand, p.PumpModel, p.PumpSerial,
		p.HeaterBrandNG, p.HeaterModelNG, p.HeaterSerialNG,
		p.HeaterBrandCBMS, p.HeaterModelCBMS, p.HeaterSerialCBMS,
		p.PoolCleanerBrand, p.PoolCleanerModel, p.PoolCleanerSerial,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a literal substring ILIKE match.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
