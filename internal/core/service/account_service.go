package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
)

// Denylist abstracts the token-revocation store (Redis). Entries expire on
// their own once any token issued before the state change has expired.
type Denylist interface {
	Add(ctx context.Context, userID string, ttl time.Duration) error
	Remove(ctx context.Context, userID string) error
	Contains(ctx context.Context, userID string) (bool, error)
}

// AccountService implements the account state operations. Each operation
// assigns the registration_key sentinel unconditionally — no transition
// graph is enforced, and re-applying an operation is a no-op change.
type AccountService struct {
	entity   *model.EntityType
	users    ports.UserRepository
	denylist Denylist
	events   ports.EventDispatcher
	denyTTL  time.Duration
	log      zerolog.Logger
}

func NewAccountService(
	registry *model.Registry,
	users ports.UserRepository,
	denylist Denylist,
	events ports.EventDispatcher,
	denyTTL time.Duration,
	log zerolog.Logger,
) *AccountService {
	entity, ok := registry.Get(authmodel.EntityUsers)
	if !ok {
		panic("account service: auth_users entity type not registered")
	}
	if denyTTL <= 0 {
		denyTTL = 24 * time.Hour
	}
	return &AccountService{
		entity:   entity,
		users:    users,
		denylist: denylist,
		events:   events,
		denyTTL:  denyTTL,
		log:      log,
	}
}

// Disable suspends the account.
func (s *AccountService) Disable(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error) {
	user, err := s.setKey(ctx, req, userID, domain.RegistrationKeyDisabled)
	if err != nil {
		return nil, err
	}
	s.deny(ctx, userID)
	s.audit(req, userID, "account disabled")
	return user, nil
}

// Block suspends the account.
func (s *AccountService) Block(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error) {
	user, err := s.setKey(ctx, req, userID, domain.RegistrationKeyBlocked)
	if err != nil {
		return nil, err
	}
	s.deny(ctx, userID)
	s.audit(req, userID, "account blocked")
	return user, nil
}

// Allow reactivates the account by clearing the sentinel.
func (s *AccountService) Allow(ctx context.Context, req *model.RequestContext, userID string) (*domain.User, error) {
	user, err := s.setKey(ctx, req, userID, "")
	if err != nil {
		return nil, err
	}
	if err := s.denylist.Remove(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("denylist removal failed")
	}
	s.audit(req, userID, "account allowed")
	return user, nil
}

func (s *AccountService) setKey(ctx context.Context, req *model.RequestContext, userID, key string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes, err := s.entity.UpdateChanges(req, authmodel.UserRecord(user), model.Record{"registration_key": key})
	if err != nil {
		return nil, err
	}
	return s.users.Update(ctx, userID, changes)
}

// deny revokes outstanding tokens; failure to do so is logged, not fatal —
// the row sentinel remains the source of truth.
func (s *AccountService) deny(ctx context.Context, userID string) {
	if err := s.denylist.Add(ctx, userID, s.denyTTL); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("denylist insert failed")
	}
}

func (s *AccountService) audit(req *model.RequestContext, userID, description string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(ports.AuthEventInput{
		UserID:      userID,
		Description: description,
		Request:     req,
	})
}
