package ports

import (
	"context"

	"github.com/openfield/auth-system/internal/core/domain"
)

// UserRepository defines the persistence boundary for account records.
// Uniqueness of email is enforced by the storage engine; violations surface
// unchanged as domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRegistrationKey(ctx context.Context, key string) (*domain.User, error)
	FindByResetKey(ctx context.Context, key string) (*domain.User, error)
	// Update applies the given field changes to one record and returns the
	// updated state. Concurrent updates to the same record resolve
	// last-write-wins at the storage engine.
	Update(ctx context.Context, id string, changes map[string]any) (*domain.User, error)
}
