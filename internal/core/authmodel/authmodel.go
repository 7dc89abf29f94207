// Package authmodel declares the entity types of the auth subsystem —
// users, groups, memberships, permissions, and audit events — and assembles
// them through the definition pipeline at startup.
package authmodel

import (
	"fmt"

	"github.com/openfield/auth-system/internal/core/model"
)

// Entity type names, also used as storage collection names.
const (
	EntityUsers       = "auth_users"
	EntityGroups      = "auth_groups"
	EntityMemberships = "auth_memberships"
	EntityPermissions = "auth_permissions"
	EntityEvents      = "auth_events"
)

// alwaysVisible lists the identity/credential fields that stay exposed
// regardless of form visibility resolution.
var alwaysVisible = []string{"first_name", "last_name", "password", "email"}

type config struct {
	basicUser  bool
	registerRW model.Overrides
	profileRW  model.Overrides
}

// Option customises the assembled auth model.
type Option func(*config)

// WithBasicUser drops the first_name/last_name fields from the user entity.
func WithBasicUser() Option {
	return func(c *config) { c.basicUser = true }
}

// WithRegisterOverrides sets per-field visibility overrides for the
// registration form.
func WithRegisterOverrides(ov model.Overrides) Option {
	return func(c *config) { c.registerRW = ov }
}

// WithProfileOverrides sets per-field visibility overrides for the profile
// form.
func WithProfileOverrides(ov model.Overrides) Option {
	return func(c *config) { c.profileRW = ov }
}

// Define assembles and registers every auth entity type. The user entity
// runs through the auth pipeline (hiding + form visibility resolution
// against settings); the remaining entities run through the base pipeline.
// Any definition error is fatal: the registry is unusable and startup must
// abort.
func Define(settings *model.Settings, opts ...Option) (*model.Registry, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	registry := model.NewRegistry()
	authPipeline := model.NewAuthPipeline(settings)
	basePipeline := model.NewPipeline()

	userDef := UserDefinition(settings, cfg.basicUser)
	userDef.RegisterRW = cfg.registerRW
	userDef.ProfileRW = cfg.profileRW

	users, err := authPipeline.Define(userDef)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(users); err != nil {
		return nil, err
	}

	for _, def := range []*model.Definition{
		GroupDefinition(),
		MembershipDefinition(),
		PermissionDefinition(),
		EventDefinition(),
	} {
		et, err := basePipeline.Define(def)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(et); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// MustDefine is Define for composition roots where a definition error is
// unrecoverable.
func MustDefine(settings *model.Settings, opts ...Option) *model.Registry {
	registry, err := Define(settings, opts...)
	if err != nil {
		panic(fmt.Sprintf("authmodel: %v", err))
	}
	return registry
}
