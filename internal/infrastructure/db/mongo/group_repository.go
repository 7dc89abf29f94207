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

// GroupRepository implements ports.GroupRepository using MongoDB.
type GroupRepository struct {
	groups      *mongo.Collection
	memberships *mongo.Collection
	permissions *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{
		groups:      db.Collection(authmodel.EntityGroups),
		memberships: db.Collection(authmodel.EntityMemberships),
		permissions: db.Collection(authmodel.EntityPermissions),
	}
}

type mongoGroup struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Role        string             `bson:"role"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	doc := mongoGroup{
		Role:        group.Role,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}

	res, err := r.groups.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleTaken
		}
		return nil, fmt.Errorf("insert group: %w", err)
	}

	created := *group
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *GroupRepository) FindByRole(ctx context.Context, role string) (*domain.Group, error) {
	var mg mongoGroup
	if err := r.groups.FindOne(ctx, bson.M{"role": role}).Decode(&mg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &domain.Group{
		ID:          mg.ID.Hex(),
		Role:        mg.Role,
		Description: mg.Description,
		CreatedAt:   mg.CreatedAt.UTC(),
		UpdatedAt:   mg.UpdatedAt.UTC(),
	}, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	doc := bson.M{
		"user_id":    m.UserID,
		"group_id":   m.GroupID,
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	}

	res, err := r.memberships.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}

	created := *m
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *GroupRepository) AddPermission(ctx context.Context, p *domain.Permission) (*domain.Permission, error) {
	doc := bson.M{
		"group_id":   p.GroupID,
		"name":       p.Name,
		"table_name": p.TableName,
		"record_id":  p.RecordID,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}

	res, err := r.permissions.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert permission: %w", err)
	}

	created := *p
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// RolesForUser resolves the role names of every group the user belongs to.
func (r *GroupRepository) RolesForUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.memberships.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var groupIDs []primitive.ObjectID
	for cursor.Next(ctx) {
		var m struct {
			GroupID string `bson:"group_id"`
		}
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode membership: %w", err)
		}
		oid, err := primitive.ObjectIDFromHex(m.GroupID)
		if err != nil {
			continue
		}
		groupIDs = append(groupIDs, oid)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}
	if len(groupIDs) == 0 {
		return nil, nil
	}

	groupCursor, err := r.groups.Find(ctx, bson.M{"_id": bson.M{"$in": groupIDs}})
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	defer groupCursor.Close(ctx)

	var roles []string
	for groupCursor.Next(ctx) {
		var g struct {
			Role string `bson:"role"`
		}
		if err := groupCursor.Decode(&g); err != nil {
			return nil, fmt.Errorf("decode group: %w", err)
		}
		roles = append(roles, g.Role)
	}
	return roles, groupCursor.Err()
}
