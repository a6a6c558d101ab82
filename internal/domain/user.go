package domain

import "time"

// Role is the access level of a user. Roles are assigned at creation and are
// never taken from client input.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a stored role string to a Role, defaulting to RoleUser for
// anything unrecognized.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2id encoded
	Role         Role
	MFASecret    *string    // TOTP secret (nullable, base32 encoded)
	MFAEnabledAt *time.Time // when MFA enrollment completed (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MFAActive reports whether logins for this user must pass the MFA gate.
// Both the flag and the secret must be present; a flag without a secret
// fails closed at verification, never as "skip MFA".
func (u User) MFAActive() bool {
	return u.MFAEnabledAt != nil && u.MFASecret != nil && *u.MFASecret != ""
}
