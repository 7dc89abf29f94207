package domain

import "time"

// Sentinel values of the registration_key field. The field doubles as the
// account status: empty means active, a non-empty opaque token means the
// account awaits email verification, and the two literals below mean
// suspended. There is no separate status column.
const (
	RegistrationKeyDisabled = "disabled"
	RegistrationKeyBlocked  = "blocked"
)

// AccountStatus is the status decoded from the registration_key sentinel.
type AccountStatus string

const (
	StatusActive              AccountStatus = "active"
	StatusPendingVerification AccountStatus = "pending_verification"
	StatusDisabled            AccountStatus = "disabled"
	StatusBlocked             AccountStatus = "blocked"
)

// User models an account record.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	RegistrationKey  string    `json:"-"`
	ResetPasswordKey string    `json:"-"`
	RegistrationID   string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Status decodes the registration_key sentinel.
func (u *User) Status() AccountStatus {
	switch u.RegistrationKey {
	case "":
		return StatusActive
	case RegistrationKeyDisabled:
		return StatusDisabled
	case RegistrationKeyBlocked:
		return StatusBlocked
	default:
		return StatusPendingVerification
	}
}

// Active reports whether the account may authenticate.
func (u *User) Active() bool { return u.Status() == StatusActive }
