package authmodel

import (
	"time"

	"github.com/google/uuid"

	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
)

// UserDefinition declares the account entity type. The basic variant carries
// only credentials and the token fields; the full variant adds
// first_name/last_name. The "active" scope selects accounts whose
// registration_key sentinel is empty.
func UserDefinition(settings *model.Settings, basic bool) *model.Definition {
	fields := []*model.Field{
		model.F("email", 255, model.Unique(), model.NotNull()),
		model.F("password", 512, model.NotNull()),
		model.F("registration_key", 512, model.NoRW(), model.Default(model.Static(""))),
		model.F("reset_password_key", 512, model.NoRW(), model.Default(model.Static(""))),
		model.F("registration_id", 512, model.NoRW(), model.Default(model.Static(""))),
	}
	format := "{email} ({id})"
	if !basic {
		fields = append(fields,
			model.F("first_name", 128, model.NotNull()),
			model.F("last_name", 128, model.NotNull()),
		)
		format = "{first_name} {last_name} ({id})"
	}
	fields = append(fields, model.TimestampFields()...)

	return &model.Definition{
		Name:   EntityUsers,
		Format: format,
		Fields: fields,
		BeforeInsert: []model.Hook{
			issueRegistrationKey(settings),
		},
		Scopes: map[string]model.Scope{
			"active": func() map[string]any {
				return map[string]any{"registration_key": ""}
			},
		},
		AlwaysVisible: alwaysVisible,
	}
}

// issueRegistrationKey stamps a fresh opaque token on new accounts when the
// settings require email verification and the caller supplied none. The
// token value is what marks the account pending.
func issueRegistrationKey(settings *model.Settings) model.Hook {
	return func(req *model.RequestContext, rec model.Record) error {
		if !settings.RequireVerification {
			return nil
		}
		if key, _ := rec["registration_key"].(string); key != "" {
			return nil
		}
		rec["registration_key"] = uuid.NewString()
		return nil
	}
}

// UserRecord projects a user onto an engine record.
func UserRecord(u *domain.User) model.Record {
	return model.Record{
		"email":              u.Email,
		"password":           u.PasswordHash,
		"registration_key":   u.RegistrationKey,
		"reset_password_key": u.ResetPasswordKey,
		"registration_id":    u.RegistrationID,
		"first_name":         u.FirstName,
		"last_name":          u.LastName,
		model.FieldCreatedAt: u.CreatedAt,
		model.FieldUpdatedAt: u.UpdatedAt,
	}
}

// UserFromRecord builds a user from an engine record. The storage identifier
// is not part of the record and must be set by the caller.
func UserFromRecord(rec model.Record) *domain.User {
	u := &domain.User{
		Email:            str(rec, "email"),
		PasswordHash:     str(rec, "password"),
		RegistrationKey:  str(rec, "registration_key"),
		ResetPasswordKey: str(rec, "reset_password_key"),
		RegistrationID:   str(rec, "registration_id"),
		FirstName:        str(rec, "first_name"),
		LastName:         str(rec, "last_name"),
	}
	u.CreatedAt, _ = rec[model.FieldCreatedAt].(time.Time)
	u.UpdatedAt, _ = rec[model.FieldUpdatedAt].(time.Time)
	return u
}

func str(rec model.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}
