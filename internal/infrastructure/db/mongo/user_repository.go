package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adroid/pool-registry/internal/core/domain"
	"github.com/adroid/pool-registry/internal/core/ports"
)

const (
	collectionUsers = "users"

	duplicateKeyCode = 11000
)

var _ ports.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers), timeout: opTimeout(timeout)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash,omitempty"`
	FullName     string             `bson:"full_name"`
	Role         string             `bson:"role"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		FullName:     mu.FullName,
		Role:         domain.Role(mu.Role),
		IsActive:     mu.IsActive,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoUser{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "is_active": true})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "is_active": true})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	opts := options.FindOne().SetProjection(bson.M{"password_hash": 0})
	return r.findOne(ctx, bson.M{"_id": oid, "is_active": true}, opts)
}

// EnsureIndexes creates the unique username and email indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// duplicateUserError maps a duplicate key write error to the conflicting
// field using the server-reported key pattern.
func duplicateUserError(err error) error {
	switch duplicateKeyField(err) {
	case "email":
		return domain.ErrEmailTaken
	case "username":
		return domain.ErrUsernameTaken
	default:
		return domain.ErrUserExists
	}
}

func duplicateKeyField(err error) string {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return ""
	}
	for _, e := range we.WriteErrors {
		if e.Code != duplicateKeyCode || e.Raw == nil {
			continue
		}
		pattern, lookupErr := e.Raw.LookupErr("keyPattern")
		if lookupErr != nil {
			continue
		}
		doc, ok := pattern.DocumentOK()
		if !ok {
			continue
		}
		for _, field := range []string{"email", "username"} {
			if _, fieldErr := doc.LookupErr(field); fieldErr == nil {
				return field
			}
		}
	}
	return ""
}
