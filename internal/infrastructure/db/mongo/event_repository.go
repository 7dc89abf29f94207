package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/ports"
)

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{coll: db.Collection(authmodel.EntityEvents)}
}

// Insert persists an audit event.
func (r *EventRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := bson.M{
		"user_id":     event.UserID,
		"client_ip":   event.ClientIP,
		"origin":      event.Origin,
		"description": event.Description,
		"created_at":  event.CreatedAt,
		"updated_at":  event.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
