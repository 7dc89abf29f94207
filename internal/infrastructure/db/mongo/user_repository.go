package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/domain"
)

// UserRepository implements ports.UserRepository using MongoDB. Document
// keys match the entity field names so update change-sets translate directly
// into $set documents.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(authmodel.EntityUsers)}
}

type mongoUser struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	Password         string             `bson:"password"`
	RegistrationKey  string             `bson:"registration_key"`
	ResetPasswordKey string             `bson:"reset_password_key"`
	RegistrationID   string             `bson:"registration_id"`
	FirstName        string             `bson:"first_name,omitempty"`
	LastName         string             `bson:"last_name,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:               mu.ID.Hex(),
		Email:            mu.Email,
		PasswordHash:     mu.Password,
		RegistrationKey:  mu.RegistrationKey,
		ResetPasswordKey: mu.ResetPasswordKey,
		RegistrationID:   mu.RegistrationID,
		FirstName:        mu.FirstName,
		LastName:         mu.LastName,
		CreatedAt:        mu.CreatedAt.UTC(),
		UpdatedAt:        mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Email:            user.Email,
		Password:         user.PasswordHash,
		RegistrationKey:  user.RegistrationKey,
		ResetPasswordKey: user.ResetPasswordKey,
		RegistrationID:   user.RegistrationID,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByRegistrationKey(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"registration_key": key})
}

func (r *UserRepository) FindByResetKey(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"reset_password_key": key})
}

// Update applies the change set to one record. The storage engine resolves
// concurrent updates last-write-wins per record.
func (r *UserRepository) Update(ctx context.Context, id string, changes map[string]any) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{}
	for k, v := range changes {
		set[k] = v
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}
