package dto

import (
	"time"

	"github.com/soporteit/support-desk/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the session token alongside the cookie.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      SessionUser `json:"user"`
}

// SessionUser describes the authenticated caller.
type SessionUser struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// SessionResponse reports session state.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *SessionUser `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

// UpdateUserRequest payload. Omitted fields are unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

// UserResponse represents a staff account. Credentials never leave the service.
type UserResponse struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	Email        *string     `json:"email"`
	Role         domain.Role `json:"role"`
	Active       bool        `json:"active"`
	CreatedAt    time.Time   `json:"created_at"`
	LastAccessAt *time.Time  `json:"last_access_at"`
}
