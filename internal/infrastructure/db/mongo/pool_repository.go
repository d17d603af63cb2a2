package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

const collectionPools = "pools"

var _ ports.PoolRepository = (*PoolRepository)(nil)

type PoolRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewPoolRepository(db *mongo.Database, timeout time.Duration) *PoolRepository {
	return &PoolRepository{col: db.Collection(collectionPools), timeout: opTimeout(timeout)}
}

// PoolFields holds the replaceable part of a pool document. It is written
// as a whole on update, so omitted equipment fields are cleared.
type PoolFields struct {
	HomeOwnerName string `bson:"home_owner_name"`
	Phone         string `bson:"phone"`
	Address       string `bson:"address"`
	City          string `bson:"city"`
	State         string `bson:"state"`
	ZipCode       string `bson:"zip_code"`

	Length  float64 `bson:"length"`
	Width   float64 `bson:"width"`
	Gallons int     `bson:"gallons"`

	HowManyInlets   int `bson:"how_many_inlets"`
	HowManySkimmers int `bson:"how_many_skimmers"`
	HowManyLadders  int `bson:"how_many_ladders"`
	HowManySteps    int `bson:"how_many_steps"`

	FilterBrand       string `bson:"filter_brand"`
	FilterModel       string `bson:"filter_model"`
	FilterSerial      string `bson:"filter_serial"`
	PumpBrand         string `bson:"pump_brand"`
	PumpModel         string `bson:"pump_model"`
	PumpSerial        string `bson:"pump_serial"`
	HeaterBrandNG     string `bson:"heater_brand_ng"`
	HeaterModelNG     string `bson:"heater_model_ng"`
	HeaterSerialNG    string `bson:"heater_serial_ng"`
	HeaterBrandCBMS   string `bson:"heater_brand_cbms"`
	HeaterModelCBMS   string `bson:"heater_model_cbms"`
	HeaterSerialCBMS  string `bson:"heater_serial_cbms"`
	PoolCleanerBrand  string `bson:"pool_cleaner_brand"`
	PoolCleanerModel  string `bson:"pool_cleaner_model"`
	PoolCleanerSerial string `bson:"pool_cleaner_serial"`

	UpdatedAt time.Time `bson:"updated_at"`
}

type poolDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PoolFields `bson:",inline"`
	UserID     *primitive.ObjectID `bson:"user_id"`
	CreatedAt  time.Time           `bson:"created_at"`

	// Populated by the users $lookup stage only.
	Owner []ownerRef `bson:"owner,omitempty"`
}

type ownerRef struct {
	FullName string `bson:"full_name"`
}

func fieldsFromDomain(p *domain.Pool) PoolFields {
	return PoolFields{
		HomeOwnerName:     p.HomeOwnerName,
		Phone:             p.Phone,
		Address:           p.Address,
		City:              p.City,
		State:             p.State,
		ZipCode:           p.ZipCode,
		Length:            p.Length,
		Width:             p.Width,
		Gallons:           p.Gallons,
		HowManyInlets:     p.HowManyInlets,
		HowManySkimmers:   p.HowManySkimmers,
		HowManyLadders:    p.HowManyLadders,
		HowManySteps:      p.HowManySteps,
		FilterBrand:       p.FilterBrand,
		FilterModel:       p.FilterModel,
		FilterSerial:      p.FilterSerial,
		PumpBrand:         p.PumpBrand,
		PumpModel:         p.PumpModel,
		PumpSerial:        p.PumpSerial,
		HeaterBrandNG:     p.HeaterBrandNG,
		HeaterModelNG:     p.HeaterModelNG,
		HeaterSerialNG:    p.HeaterSerialNG,
		HeaterBrandCBMS:   p.HeaterBrandCBMS,
		HeaterModelCBMS:   p.HeaterModelCBMS,
		HeaterSerialCBMS:  p.HeaterSerialCBMS,
		PoolCleanerBrand:  p.PoolCleanerBrand,
		PoolCleanerModel:  p.PoolCleanerModel,
		PoolCleanerSerial: p.PoolCleanerSerial,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (d *poolDocument) toDomain() *domain.Pool {
	f := d.PoolFields
	p := &domain.Pool{
		ID:                d.ID.Hex(),
		HomeOwnerName:     f.HomeOwnerName,
		Phone:             f.Phone,
		Address:           f.Address,
		City:              f.City,
		State:             f.State,
		ZipCode:           f.ZipCode,
		Length:            f.Length,
		Width:             f.Width,
		Gallons:           f.Gallons,
		HowManyInlets:     f.HowManyInlets,
		HowManySkimmers:   f.HowManySkimmers,
		HowManyLadders:    f.HowManyLadders,
		HowManySteps:      f.HowManySteps,
		FilterBrand:       f.FilterBrand,
		FilterModel:       f.FilterModel,
		FilterSerial:      f.FilterSerial,
		PumpBrand:         f.PumpBrand,
		PumpModel:         f.PumpModel,
		PumpSerial:        f.PumpSerial,
		HeaterBrandNG:     f.HeaterBrandNG,
		HeaterModelNG:     f.HeaterModelNG,
		HeaterSerialNG:    f.HeaterSerialNG,
		HeaterBrandCBMS:   f.HeaterBrandCBMS,
		HeaterModelCBMS:   f.HeaterModelCBMS,
		HeaterSerialCBMS:  f.HeaterSerialCBMS,
		PoolCleanerBrand:  f.PoolCleanerBrand,
		PoolCleanerModel:  f.PoolCleanerModel,
		PoolCleanerSerial: f.PoolCleanerSerial,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         f.UpdatedAt.UTC(),
	}
	// A reference whose user no longer resolves is reported as cleared.
	if d.UserID != nil && len(d.Owner) > 0 {
		p.UserID = d.UserID.Hex()
		p.CreatedByName = d.Owner[0].FullName
	}
	return p
}

// Create inserts a new pool document and returns it enriched with its creator.
func (r *PoolRepository) Create(ctx context.Context, p *domain.Pool) (*domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := poolDocument{
		PoolFields: fieldsFromDomain(p),
		UserID:     ownerID(p.UserID),
		CreatedAt:  p.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert pool: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert pool: unexpected id type %T", res.InsertedID)
	}
	return r.findOne(ctx, id)
}

func (r *PoolRepository) List(ctx context.Context) ([]*domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.aggregate(ctx, bson.M{})
}

func (r *PoolRepository) FindByID(ctx context.Context, id string) (*domain.Pool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.findOne(ctx, oid)
}

// Update replaces every mutable field of the pool. Owner and creation time are kept.
func (r *PoolRepository) Update(ctx context.Context, id string, p *domain.Pool) (*domain.Pool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fieldsFromDomain(p)})
	if err != nil {
		return nil, fmt.Errorf("update pool: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return r.findOne(ctx, oid)
}

func (r *PoolRepository) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, domain.ErrPoolNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete pool: %w", err)
	}
	if res.DeletedCount == 0 {
		return false, domain.ErrPoolNotFound
	}
	return true, nil
}

// Search matches the term case-insensitively as a literal substring of the
// home owner name or the city.
func (r *PoolRepository) Search(ctx context.Context, term string) ([]*domain.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.aggregate(ctx, searchFilter(term))
}

// EnsureIndexes creates the indexes used for listing and owner lookups.
func (r *PoolRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PoolRepository) findOne(ctx context.Context, id primitive.ObjectID) (*domain.Pool, error) {
	pools, err := r.aggregate(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return pools[0], nil
}

func (r *PoolRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Pool, error) {
	cursor, err := r.col.Aggregate(ctx, listPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("aggregate pools: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []poolDocument
	if err := cursor.All(ctx, &docs); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []*domain.Pool{}, nil
		}
		return nil, fmt.Errorf("decode pools: %w", err)
	}

	pools := make([]*domain.Pool, 0, len(docs))
	for i := range docs {
		pools = append(pools, docs[i].toDomain())
	}
	return pools, nil
}

// listPipeline sorts newest first, using the ObjectID as insertion-order
// tie-break, and joins the creator's full name.
func listPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
	}
}

func searchFilter(term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"home_owner_name": pattern},
		bson.M{"city": pattern},
	}}
}

func ownerID(id string) *primitive.ObjectID {
	if id == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	return &oid
}
