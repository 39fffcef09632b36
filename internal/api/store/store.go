package store

import (
	"context"
	"errors"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Employees() Employees
	Organizations() Organizations
	Invitations() Invitations
	PlanningEntries() PlanningEntries
	Requests() Requests

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back when fn
	// errors, committed otherwise. Use it for multi-step operations that
	// must be atomic (invitation acceptance, admin signup).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Employees interface {
	// GetEmployeeByID returns an employee by id, any organization.
	GetEmployeeByID(ctx context.Context, id int64) (domain.Employee, error)

	// GetEmployeeByEmail is used during login and email-uniqueness checks.
	GetEmployeeByEmail(ctx context.Context, email string) (domain.Employee, error)

	// GetEmployeeInOrg returns an employee only when they belong to the
	// given organization; cross-tenant ids come back ErrNotFound.
	GetEmployeeInOrg(ctx context.Context, id, orgID int64) (domain.Employee, error)

	// GetEmployeeByEmailInOrg is the (email, organization) lookup used by
	// the admin password reset.
	GetEmployeeByEmailInOrg(ctx context.Context, email string, orgID int64) (domain.Employee, error)

	// ListEmployeesByOrg returns all employees of one organization.
	ListEmployeesByOrg(ctx context.Context, orgID int64) ([]domain.Employee, error)

	// CreateEmployee inserts a new employee and returns its id. A unique
	// email violation maps to ErrAlreadyExists.
	CreateEmployee(ctx context.Context, e domain.Employee) (int64, error)

	// UpdateEmployeeProfile mutates name/email/role/status and bumps
	// updated_at.
	UpdateEmployeeProfile(ctx context.Context, id int64, name, email, role, status string) error

	// UpdatePasswordHash sets the password_hash (bcrypt).
	UpdatePasswordHash(ctx context.Context, id int64, newHash string) error

	// UpdateRefreshTokenHash overwrites the refresh token fingerprint.
	// nil clears it (logout). Always succeeds for an existing employee.
	UpdateRefreshTokenHash(ctx context.Context, id int64, hash *string) error

	// RotateRefreshTokenHash swaps oldHash for newHash in one conditional
	// write. It reports false when the stored fingerprint no longer
	// matches oldHash, which is how a concurrent rotation or a replayed
	// token loses deterministically.
	RotateRefreshTokenHash(ctx context.Context, id int64, oldHash, newHash string) (bool, error)

	// DeleteEmployee removes an employee.
	DeleteEmployee(ctx context.Context, id int64) error
}

type Organizations interface {
	// GetOrganizationByID fetches an organization.
	GetOrganizationByID(ctx context.Context, id int64) (domain.Organization, error)

	// GetOrganizationByCode fetches by unique join code (signup).
	GetOrganizationByCode(ctx context.Context, code string) (domain.Organization, error)

	// CreateOrganization inserts a new organization and returns its id.
	CreateOrganization(ctx context.Context, o domain.Organization) (int64, error)

	// SetOrganizationOwner assigns the owning admin.
	SetOrganizationOwner(ctx context.Context, id, ownerID int64) error

	// UpdatePlanningImage stores the display-image reference.
	UpdatePlanningImage(ctx context.Context, id int64, imageURL string) error
}

type Invitations interface {
	// CreateInvitation writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque token) and returns its id.
	CreateInvitation(ctx context.Context, inv domain.Invitation) (int64, error)

	// GetInvitationByTokenHash returns an invitation by fingerprint
	// regardless of state; used/expired checks belong to the caller.
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// DeletePendingInvitations removes unused invitations for the
	// (email, organization) pair. Superseding a pending invitation means
	// its token stops resolving at all.
	DeletePendingInvitations(ctx context.Context, email string, orgID int64) error

	// MarkInvitationUsed sets used_at only while it is still null. It
	// reports false when another acceptance won the race.
	MarkInvitationUsed(ctx context.Context, hash string, usedAt time.Time) (bool, error)
}

// PlanningQuery narrows a planning listing. VisibleTo restricts results
// to entries assigned to that employee or to nobody (whole-team rows).
type PlanningQuery struct {
	OrganizationID int64
	Day            *time.Time
	VisibleTo      *int64
}

type PlanningEntries interface {
	CreatePlanningEntry(ctx context.Context, e domain.PlanningEntry) (int64, error)
	GetPlanningEntryInOrg(ctx context.Context, id, orgID int64) (domain.PlanningEntry, error)
	ListPlanningEntries(ctx context.Context, q PlanningQuery) ([]domain.PlanningEntry, error)
	UpdatePlanningEntry(ctx context.Context, e domain.PlanningEntry) error
	DeletePlanningEntry(ctx context.Context, id int64) error
}

// RequestQuery narrows a request listing; EmployeeID of nil means all
// employees in the organization.
type RequestQuery struct {
	OrganizationID int64
	EmployeeID     *int64
}

type Requests interface {
	CreateRequest(ctx context.Context, r domain.Request) (int64, error)
	GetRequestInOrg(ctx context.Context, id, orgID int64) (domain.Request, error)
	ListRequests(ctx context.Context, q RequestQuery) ([]domain.Request, error)
	UpdateRequest(ctx context.Context, r domain.Request) error
	DeleteRequest(ctx context.Context, id int64) error
}
