package domain

import "time"

// RecordIDMax bounds the record_id a permission may reference.
const RecordIDMax = 1_000_000_000

// Group is a named role users belong to through memberships.
type Group struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Membership links a user to a group.
type Membership struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permission grants a group a named capability, optionally scoped to a
// single record of a table. RecordID is constrained to [0, RecordIDMax].
type Permission struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Name      string    `json:"name"`
	TableName string    `json:"table_name,omitempty"`
	RecordID  int64     `json:"record_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
