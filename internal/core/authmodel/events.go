package authmodel

import (
	"time"

	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
)

// EventDefinition declares the audit-trail entity type. client_ip defaults
// to the active request's client address and degrades to "unavailable"
// outside a request.
func EventDefinition() *model.Definition {
	fields := []*model.Field{
		model.F("user_id", 0),
		model.F("client_ip", 0),
		model.F("origin", 512, model.NotNull()),
		model.F("description", 0, model.NotNull()),
	}
	fields = append(fields, model.TimestampFields()...)

	return &model.Definition{
		Name:   EntityEvents,
		Fields: fields,
		DefaultValues: map[string]model.Provider{
			"client_ip": func(req *model.RequestContext) any {
				return model.ClientAddr(req)
			},
			"origin":      model.Static("auth"),
			"description": model.Static(""),
		},
	}
}

// EventFromRecord builds an audit event from an engine record.
func EventFromRecord(rec model.Record) *domain.AuthEvent {
	e := &domain.AuthEvent{
		UserID:      str(rec, "user_id"),
		ClientIP:    str(rec, "client_ip"),
		Origin:      str(rec, "origin"),
		Description: str(rec, "description"),
	}
	e.CreatedAt, _ = rec[model.FieldCreatedAt].(time.Time)
	e.UpdatedAt, _ = rec[model.FieldUpdatedAt].(time.Time)
	return e
}
