package service

import (
	"context"
	"testing"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/stretchr/testify/require"
)

func TestEmployeeTenantIsolation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EmployeeService{Store: st}

	orgA := seedOrg(t, st, "Org A", "AAAAAA")
	orgB := seedOrg(t, st, "Org B", "BBBBBB")
	alice := seedEmployee(t, st, "alice@a.com", "pw", domain.RoleEmployee, orgA)
	adminB := seedEmployee(t, st, "boss@b.com", "pw", domain.RoleAdmin, orgB)

	identB := domain.Identity{EmployeeID: adminB.ID, Role: domain.RoleAdmin, OrganizationID: orgB}

	t.Run("cross-tenant get looks like a missing row", func(t *testing.T) {
		_, err := svc.Get(ctx, identB, alice.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cross-tenant delete looks like a missing row", func(t *testing.T) {
		err := svc.Delete(ctx, identB, alice.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("listing stays inside the organization", func(t *testing.T) {
		emps, err := svc.List(ctx, identB)
		require.NoError(t, err)
		require.Len(t, emps, 1)
		require.Equal(t, adminB.ID, emps[0].ID)
	})
}

func TestEmployeeVisibility(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EmployeeService{Store: st}

	orgID := seedOrg(t, st, "Org", "CCCCCC")
	admin := seedEmployee(t, st, "boss@x.com", "pw", domain.RoleAdmin, orgID)
	worker := seedEmployee(t, st, "worker@x.com", "pw", domain.RoleEmployee, orgID)

	adminIdent := domain.Identity{EmployeeID: admin.ID, Role: domain.RoleAdmin, OrganizationID: orgID}
	workerIdent := domain.Identity{EmployeeID: worker.ID, Role: domain.RoleEmployee, OrganizationID: orgID}

	t.Run("admin sees everyone", func(t *testing.T) {
		emps, err := svc.List(ctx, adminIdent)
		require.NoError(t, err)
		require.Len(t, emps, 2)
	})

	t.Run("non-admin sees only themselves", func(t *testing.T) {
		emps, err := svc.List(ctx, workerIdent)
		require.NoError(t, err)
		require.Len(t, emps, 1)
		require.Equal(t, worker.ID, emps[0].ID)
	})

	t.Run("non-admin cannot fetch a colleague", func(t *testing.T) {
		_, err := svc.Get(ctx, workerIdent, admin.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("non-admin can fetch themselves", func(t *testing.T) {
		got, err := svc.Get(ctx, workerIdent, worker.ID)
		require.NoError(t, err)
		require.Equal(t, worker.Email, got.Email)
	})
}

func TestEmployeeCreate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EmployeeService{Store: st}

	orgID := seedOrg(t, st, "Org", "DDDDDD")
	ident := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	t.Run("creates with a temporary password", func(t *testing.T) {
		emp, tempPassword, err := svc.Create(ctx, ident, "New Hire", "hire@x.com", "")
		require.NoError(t, err)
		require.NotEmpty(t, tempPassword)
		require.Equal(t, domain.RoleEmployee, emp.Role)
		require.Equal(t, orgID, emp.OrganizationID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, err := svc.Create(ctx, ident, "Clone", "hire@x.com", "")
		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("requires an organization", func(t *testing.T) {
		_, _, err := svc.Create(ctx, domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin}, "X", "x@x.com", "")
		require.ErrorIs(t, err, ErrOrgMissing)
	})
}

func TestEmployeeUpdate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &EmployeeService{Store: st}

	orgID := seedOrg(t, st, "Org", "EEEEEE")
	emp := seedEmployee(t, st, "old@x.com", "pw", domain.RoleEmployee, orgID)
	ident := domain.Identity{EmployeeID: 99, Role: domain.RoleAdmin, OrganizationID: orgID}

	name := "Renamed"
	status := domain.StatusInactive
	updated, err := svc.Update(ctx, ident, emp.ID, UpdateEmployeeParams{Name: &name, Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, domain.StatusInactive, updated.Status)
	require.Equal(t, "old@x.com", updated.Email)
}
