package domain

import "time"

// AuthEvent is one entry of the auth audit trail.
type AuthEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	ClientIP    string    `json:"client_ip"`
	Origin      string    `json:"origin"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
