package authmodel

import (
	"errors"
	"testing"
	"time"

	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
)

func TestDefine_RegistersAllEntityTypes(t *testing.T) {
	settings := model.NewSettings()
	registry, err := Define(settings)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	for _, name := range []string{EntityUsers, EntityGroups, EntityMemberships, EntityPermissions, EntityEvents} {
		if _, ok := registry.Get(name); !ok {
			t.Fatalf("entity type %s not registered", name)
		}
	}
}

func TestDefine_UserVisibility(t *testing.T) {
	settings := model.NewSettings()
	if _, err := Define(settings); err != nil {
		t.Fatalf("define: %v", err)
	}

	register, ok := settings.FieldAccess(model.FormRegister)
	if !ok {
		t.Fatalf("register visibility not resolved")
	}
	for _, name := range []string{"email", "password", "first_name", "last_name"} {
		if !register.CanWrite(name) {
			t.Fatalf("register form must expose %s", name)
		}
	}
	if register.CanWrite("registration_key") {
		t.Fatalf("registration_key must never be form-writable")
	}

	profile, ok := settings.FieldAccess(model.FormProfile)
	if !ok {
		t.Fatalf("profile visibility not resolved")
	}
	if profile.CanRead("password") || profile.CanWrite("password") {
		t.Fatalf("profile form must not expose password")
	}
	if profile.CanRead("email") || profile.CanWrite("email") {
		t.Fatalf("profile form must not expose email")
	}
	if !profile.CanWrite("first_name") {
		t.Fatalf("profile form must expose first_name")
	}
}

func TestDefine_WithBasicUserDropsNames(t *testing.T) {
	settings := model.NewSettings()
	registry, err := Define(settings, WithBasicUser())
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	users, _ := registry.Get(EntityUsers)
	if _, ok := users.Field("first_name"); ok {
		t.Fatalf("basic user must not carry first_name")
	}
	if users.Format != "{email} ({id})" {
		t.Fatalf("basic user format = %q", users.Format)
	}
}

func TestDefine_ProfileOverrides(t *testing.T) {
	settings := model.NewSettings()
	_, err := Define(settings, WithProfileOverrides(model.Overrides{
		model.Both("last_name", false),
	}))
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	profile, _ := settings.FieldAccess(model.FormProfile)
	if profile.CanWrite("last_name") {
		t.Fatalf("override must remove last_name from the profile form")
	}
	if !profile.CanWrite("first_name") {
		t.Fatalf("first_name must stay writable")
	}
}

func TestUserInsert_IssuesRegistrationKey(t *testing.T) {
	settings := model.NewSettings()
	settings.RequireVerification = true
	registry, err := Define(settings)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	users, _ := registry.Get(EntityUsers)

	rec, err := users.Insert(nil, model.Record{
		"email":      "ada@example.com",
		"password":   "hash",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	key, _ := rec["registration_key"].(string)
	if key == "" {
		t.Fatalf("expected a registration key to be issued")
	}
	if key == domain.RegistrationKeyDisabled || key == domain.RegistrationKeyBlocked {
		t.Fatalf("issued key collides with a sentinel: %q", key)
	}
}

func TestUserInsert_NoKeyWithoutVerification(t *testing.T) {
	settings := model.NewSettings()
	settings.RequireVerification = false
	registry, err := Define(settings)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	users, _ := registry.Get(EntityUsers)

	rec, err := users.Insert(nil, model.Record{
		"email":      "ada@example.com",
		"password":   "hash",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["registration_key"] != "" {
		t.Fatalf("account must be active when verification is off, got %v", rec["registration_key"])
	}
}

func TestUserInsert_SuppliedKeyKept(t *testing.T) {
	settings := model.NewSettings()
	settings.RequireVerification = true
	registry, err := Define(settings)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	users, _ := registry.Get(EntityUsers)

	rec, err := users.Insert(nil, model.Record{
		"email":            "ada@example.com",
		"password":         "hash",
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"registration_key": "preissued",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["registration_key"] != "preissued" {
		t.Fatalf("supplied key must be kept, got %v", rec["registration_key"])
	}
}

func TestUserEntity_ActiveScope(t *testing.T) {
	registry, err := Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	users, _ := registry.Get(EntityUsers)

	scope, ok := users.Scope("active")
	if !ok {
		t.Fatalf("active scope not declared")
	}
	filter := scope()
	if filter["registration_key"] != "" {
		t.Fatalf("active scope filter = %v", filter)
	}
}

func TestUserEntity_UniqueEmailIndex(t *testing.T) {
	registry, err := Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	users, _ := registry.Get(EntityUsers)

	for _, idx := range users.Indexes() {
		if idx.Name == "uniq_auth_users_email" && idx.Unique {
			return
		}
	}
	t.Fatalf("unique email index not assembled: %+v", users.Indexes())
}

func TestPermissionEntity_RecordIDRange(t *testing.T) {
	registry, err := Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	perms, _ := registry.Get(EntityPermissions)

	valid := model.Record{"group_id": "g1", "record_id": domain.RecordIDMax}
	if _, err := perms.Insert(nil, valid); err != nil {
		t.Fatalf("boundary record_id must pass: %v", err)
	}

	invalid := model.Record{"group_id": "g1", "record_id": domain.RecordIDMax + 1}
	if _, err := perms.Insert(nil, invalid); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPermissionEntity_Defaults(t *testing.T) {
	registry, err := Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	perms, _ := registry.Get(EntityPermissions)

	rec, err := perms.Insert(nil, model.Record{"group_id": "g1"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["name"] != "default" {
		t.Fatalf("name default = %v", rec["name"])
	}
	if rec["record_id"] != int64(0) {
		t.Fatalf("record_id default = %v", rec["record_id"])
	}
}

func TestEventEntity_ClientIPDefault(t *testing.T) {
	registry, err := Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	events, _ := registry.Get(EntityEvents)

	req := &model.RequestContext{Now: time.Now().UTC(), ClientAddr: "203.0.113.9"}
	rec, err := events.Insert(req, model.Record{"user_id": "u1"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["client_ip"] != "203.0.113.9" {
		t.Fatalf("client_ip = %v", rec["client_ip"])
	}
	if rec["origin"] != "auth" {
		t.Fatalf("origin default = %v", rec["origin"])
	}
	if rec["description"] != "" {
		t.Fatalf("description default = %v", rec["description"])
	}
}

func TestEventEntity_ClientIPWithoutRequest(t *testing.T) {
	registry, err := Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	events, _ := registry.Get(EntityEvents)

	rec, err := events.Insert(nil, model.Record{"user_id": "u1"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["client_ip"] != "unavailable" {
		t.Fatalf("client_ip = %v", rec["client_ip"])
	}
}

func TestUserRecordRoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	u := &domain.User{
		Email:           "ada@example.com",
		PasswordHash:    "hash",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		RegistrationKey: "token",
		CreatedAt:       at,
		UpdatedAt:       at,
	}

	got := UserFromRecord(UserRecord(u))
	if got.Email != u.Email || got.RegistrationKey != u.RegistrationKey ||
		got.FirstName != u.FirstName || !got.CreatedAt.Equal(at) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
