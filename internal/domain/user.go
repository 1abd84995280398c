package domain

import "time"

// Role distinguishes staff privileges.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "tecnico"
)

// ParseRole normalises a role value. Empty input yields technician.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case "":
		return RoleTechnician, true
	case RoleAdmin, RoleTechnician:
		return Role(raw), true
	case "technician":
		return RoleTechnician, true
	default:
		return "", false
	}
}

// PasswordScheme identifies how a stored credential was produced.
type PasswordScheme string

const (
	PasswordSchemeUnknown PasswordScheme = ""
	PasswordSchemeBcrypt  PasswordScheme = "bcrypt"
)

// User is a staff account for the admin panel.
type User struct {
	ID             int64
	Username       string
	PasswordHash   string
	PasswordScheme PasswordScheme
	FullName       string
	Email          *string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	LastAccessAt   *time.Time
}
