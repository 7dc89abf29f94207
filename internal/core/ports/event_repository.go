package ports

import (
	"context"

	"github.com/openfield/auth-system/internal/core/domain"
)

// EventRepository persists audit events.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
