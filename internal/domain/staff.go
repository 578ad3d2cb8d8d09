package domain

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles. Roles are descriptive only: every authenticated user has
// full access regardless of role.
const (
	RoleOwner   = "Owner"
	RoleManager = "Manager"
	RoleCashier = "Cashier"
)

// Staff statuses.
const (
	StaffActive   = "Active"
	StaffInactive = "Inactive"
)

// Staff represents a store employee. A staff row is linked to a login
// identity by email; sales reference staff by id and never own them.
type Staff struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
