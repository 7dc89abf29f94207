package ports

import (
	"context"

	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
)

// AccountOperations is the fixed capability surface for account state
// changes. Each operation is an unconditional assignment of the
// registration_key sentinel, callable from any state, and returns the
// updated record. Re-applying an operation is a no-op change; no guard
// rejects redundant or contradictory transitions.
type AccountOperations interface {
	Disable(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error)
	Block(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error)
	Allow(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error)
}
