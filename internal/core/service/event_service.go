package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
)

type eventService struct {
	entity *model.EntityType
	repo   ports.EventRepository
	log    zerolog.Logger
}

// NewEventService returns the audit-trail EventService. Events are composed
// through the auth_events entity type so client_ip and origin pick up their
// request-aware defaults.
func NewEventService(registry *model.Registry, repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	entity, ok := registry.Get(authmodel.EntityEvents)
	if !ok {
		panic("event service: auth_events entity type not registered")
	}
	return &eventService{entity: entity, repo: repo, log: log}
}

// Record composes and persists one audit event.
func (s *eventService) Record(ctx context.Context, in ports.AuthEventInput) error {
	values := model.Record{
		"user_id":     in.UserID,
		"description": in.Description,
	}
	if in.Origin != "" {
		values["origin"] = in.Origin
	}

	rec, err := s.entity.Insert(in.Request, values)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}

	if err := s.repo.Insert(ctx, authmodel.EventFromRecord(rec)); err != nil {
		return fmt.Errorf("record event: %w", err)
	}

	s.log.Debug().
		Str("user_id", in.UserID).
		Str("description", in.Description).
		Msg("audit event recorded")

	return nil
}
