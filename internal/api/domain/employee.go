package domain

import "time"

// Employee roles. Role is an open label; organizations may use custom
// labels, only "admin" carries elevated rights.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Employee statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID               int64
	Name             string
	Email            string // globally unique
	Role             string
	Status           string
	PasswordHash     string // bcrypt encoded
	RefreshTokenHash *string // fingerprint of the single active refresh token; nil means logged out
	OrganizationID   int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Identity is the verified per-request caller identity derived from
// access-token claims. Every tenant-scoped operation takes one.
type Identity struct {
	EmployeeID     int64
	Email          string
	Role           string
	OrganizationID int64
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
