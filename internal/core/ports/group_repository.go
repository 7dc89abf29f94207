package ports

import (
	"context"

	"github.com/openfield/auth-system/internal/core/domain"
)

// GroupRepository defines persistence for groups, memberships, and
// permissions. Role uniqueness is the storage engine's concern and surfaces
// as domain.ErrRoleTaken.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
	FindByRole(ctx context.Context, role string) (*domain.Group, error)
	AddMember(ctx context.Context, m *domain.Membership) (*domain.Membership, error)
	AddPermission(ctx context.Context, p *domain.Permission) (*domain.Permission, error)
	// RolesForUser resolves the role names of every group the user belongs to.
	RolesForUser(ctx context.Context, userID string) ([]string, error)
}
