package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
)

// AuthService implements registration, login, verification, password reset,
// and profile updates on top of the assembled auth_users entity type.
type AuthService struct {
	entity    *model.EntityType
	settings  *model.Settings
	users     ports.UserRepository
	groups    ports.GroupRepository
	events    ports.EventDispatcher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(
	registry *model.Registry,
	settings *model.Settings,
	users ports.UserRepository,
	groups ports.GroupRepository,
	events ports.EventDispatcher,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	entity, ok := registry.Get(authmodel.EntityUsers)
	if !ok {
		panic("auth service: auth_users entity type not registered")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		entity:    entity,
		settings:  settings,
		users:     users,
		groups:    groups,
		events:    events,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register opens a new account. The entity's before-insert hook issues a
// registration token when the settings require verification, leaving the
// account pending until Verify consumes the token.
func (s *AuthService) Register(ctx context.Context, req *model.RequestContext, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	rec, err := s.entity.Insert(req, model.Record{
		"email":      in.Email,
		"password":   string(hash),
		"first_name": in.FirstName,
		"last_name":  in.LastName,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, authmodel.UserFromRecord(rec))
	if err != nil {
		return nil, err
	}

	s.audit(req, created.ID, "registration opened")
	return created, nil
}

// Login authenticates an account and returns a signed token. Accounts whose
// sentinel is non-empty (pending, disabled, blocked) cannot authenticate.
func (s *AuthService) Login(ctx context.Context, req *model.RequestContext, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.Active() {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrAccountNotActive, user.Status())
	}

	roles, err := s.groups.RolesForUser(ctx, user.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("role lookup failed, issuing token without roles")
		roles = nil
	}

	token, err := s.generateToken(user, roles)
	if err != nil {
		return "", nil, err
	}

	s.audit(req, user.ID, "logged in")
	return token, user, nil
}

// Verify consumes a registration token and activates the account.
func (s *AuthService) Verify(ctx context.Context, req *model.RequestContext, key string) (*domain.User, error) {
	if key == "" || key == domain.RegistrationKeyDisabled || key == domain.RegistrationKeyBlocked {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.FindByRegistrationKey(ctx, key)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	changes, err := s.entity.UpdateChanges(req, authmodel.UserRecord(user), model.Record{"registration_key": ""})
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, user.ID, changes)
	if err != nil {
		return nil, err
	}

	s.audit(req, user.ID, "email verified")
	return updated, nil
}

// RequestPasswordReset issues a reset key for the account; delivering the
// key to the user is the caller's concern.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *model.RequestContext, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	key := uuid.NewString()
	changes, err := s.entity.UpdateChanges(req, authmodel.UserRecord(user), model.Record{"reset_password_key": key})
	if err != nil {
		return "", err
	}
	if _, err := s.users.Update(ctx, user.ID, changes); err != nil {
		return "", err
	}

	s.audit(req, user.ID, "password reset requested")
	return key, nil
}

// ResetPassword consumes a reset key and stores a new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, req *model.RequestContext, key, newPassword string) error {
	if key == "" || newPassword == "" {
		return domain.ErrInvalidToken
	}

	user, err := s.users.FindByResetKey(ctx, key)
	if err != nil {
		return domain.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	changes, err := s.entity.UpdateChanges(req, authmodel.UserRecord(user), model.Record{
		"password":           string(hash),
		"reset_password_key": "",
	})
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, user.ID, changes); err != nil {
		return err
	}

	s.audit(req, user.ID, "password reset")
	return nil
}

// Profile returns the account record for the profile form.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the profile-form changes permitted by the resolved
// profile visibility. Fields outside the writable set are dropped, matching
// what a rendered profile form would submit.
func (s *AuthService) UpdateProfile(ctx context.Context, req *model.RequestContext, userID string, changes map[string]any) (*domain.User, error) {
	access, ok := s.settings.FieldAccess(model.FormProfile)
	if !ok {
		return nil, fmt.Errorf("%w: profile visibility not resolved", model.ErrConfig)
	}

	permitted := make(model.Record, len(changes))
	for field, value := range changes {
		if access.CanWrite(field) {
			permitted[field] = value
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(permitted) == 0 {
		return user, nil
	}

	set, err := s.entity.UpdateChanges(req, authmodel.UserRecord(user), permitted)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.Update(ctx, userID, set)
	if err != nil {
		return nil, err
	}

	s.audit(req, userID, "profile updated")
	return updated, nil
}

func (s *AuthService) generateToken(user *domain.User, roles []string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"roles": roles,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// audit enqueues an audit event; recording is asynchronous and non-fatal.
func (s *AuthService) audit(req *model.RequestContext, userID, description string) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(ports.AuthEventInput{
		UserID:      userID,
		Description: description,
		Request:     req,
	})
}
