package ports

import (
	"context"

	"github.com/openfield/auth-system/internal/core/model"
)

// AuthEventInput is the DTO handed from services to the audit trail.
type AuthEventInput struct {
	UserID      string
	Origin      string
	Description string
	// Request carries the request-scoped clock and client address consumed
	// by the event's default-value providers.
	Request *model.RequestContext
}

// EventService records audit events.
type EventService interface {
	Record(ctx context.Context, in AuthEventInput) error
}

// EventDispatcher enqueues audit events for asynchronous recording.
type EventDispatcher interface {
	Enqueue(in AuthEventInput)
}
