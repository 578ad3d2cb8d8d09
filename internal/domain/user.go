package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a login identity. A user may be linked to a staff row
// by email; without that link the account can sign in but cannot record
// sales.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken represents a stored refresh token for session renewal
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// AuthUser is the session-scoped view of an authenticated identity:
// the login id plus the optionally linked staff profile.
type AuthUser struct {
	UserID  uuid.UUID  `json:"user_id"`
	Email   string     `json:"email"`
	Role    string     `json:"role"`
	StaffID *uuid.UUID `json:"staff_id,omitempty"`
	Name    string     `json:"name,omitempty"`
}

// HasStaffProfile reports whether the identity is linked to a staff row.
func (u *AuthUser) HasStaffProfile() bool {
	return u.StaffID != nil
}
