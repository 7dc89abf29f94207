package ports

import (
	"context"

	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
)

// RegisterInput carries the data needed to open a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService implements registration, login, verification, password reset,
// and profile updates. Every operation takes the request context explicitly
// so default-value providers see the request-scoped clock and client address.
type AuthService interface {
	Register(ctx context.Context, req *model.RequestContext, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, req *model.RequestContext, email, password string) (string, *domain.User, error)
	// Verify consumes a registration token, activating the account.
	Verify(ctx context.Context, req *model.RequestContext, key string) (*domain.User, error)
	// RequestPasswordReset issues a reset key for the account; delivery of
	// the key is the caller's concern.
	RequestPasswordReset(ctx context.Context, req *model.RequestContext, email string) (string, error)
	ResetPassword(ctx context.Context, req *model.RequestContext, key, newPassword string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile applies the profile-form changes permitted by the
	// resolved profile visibility; fields outside the writable set are
	// dropped.
	UpdateProfile(ctx context.Context, req *model.RequestContext, userID string, changes map[string]any) (*domain.User, error)
}
