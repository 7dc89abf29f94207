package authmodel

import (
	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
)

// GroupDefinition declares the role entity type.
func GroupDefinition() *model.Definition {
	fields := []*model.Field{
		model.F("role", 255, model.Unique(), model.Default(model.Static(""))),
		model.F("description", 0),
	}
	fields = append(fields, model.TimestampFields()...)

	return &model.Definition{
		Name:   EntityGroups,
		Format: "{role} ({id})",
		Fields: fields,
	}
}

// MembershipDefinition declares the user↔group link entity type.
func MembershipDefinition() *model.Definition {
	fields := []*model.Field{
		model.F("user_id", 0, model.NotNull()),
		model.F("group_id", 0, model.NotNull()),
	}
	fields = append(fields, model.TimestampFields()...)

	return &model.Definition{
		Name:   EntityMemberships,
		Fields: fields,
		Indexes: []model.Index{
			{Name: "membership_user", Fields: []string{"user_id", "group_id"}},
		},
	}
}

// PermissionDefinition declares the permission entity type. record_id is
// constrained to [0, RecordIDMax] at composition time, before the storage
// boundary.
func PermissionDefinition() *model.Definition {
	fields := []*model.Field{
		model.F("group_id", 0, model.NotNull()),
		model.F("name", 512, model.NotNull(), model.Default(model.Static("default"))),
		model.F("table_name", 512),
		model.F("record_id", 0, model.Default(model.Static(int64(0)))),
	}
	fields = append(fields, model.TimestampFields()...)

	return &model.Definition{
		Name:   EntityPermissions,
		Fields: fields,
		Validation: map[string][]model.Validator{
			"record_id": {model.InRange(0, domain.RecordIDMax)},
		},
	}
}
