package service

import (
	"context"
	"testing"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestAdminResetPassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AdminService{Store: st}
	auth := newAuthService(t, st)

	orgID := seedOrg(t, st, "Org", "FFFFFF")
	emp := seedEmployee(t, st, "worker@x.com", "old-pw", domain.RoleEmployee, orgID)
	ident := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	// Establish an active session so we can assert it gets revoked.
	pair, err := auth.Login(ctx, "worker@x.com", "old-pw")
	require.NoError(t, err)

	tempPassword, err := svc.ResetPassword(ctx, ident, "worker@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, tempPassword)

	t.Run("old password stops working", func(t *testing.T) {
		_, err := auth.Login(ctx, "worker@x.com", "old-pw")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("temporary password works", func(t *testing.T) {
		stored, err := st.Employees().GetEmployeeByID(ctx, emp.ID)
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword(tempPassword, stored.PasswordHash))
	})

	t.Run("old refresh token is revoked", func(t *testing.T) {
		_, err := auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("cross-tenant reset looks like a missing row", func(t *testing.T) {
		otherOrg := seedOrg(t, st, "Other", "GGGGGG")
		otherIdent := domain.Identity{EmployeeID: 2, Role: domain.RoleAdmin, OrganizationID: otherOrg}
		_, err := svc.ResetPassword(ctx, otherIdent, "worker@x.com")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAdminPlanningImage(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	admin := &AdminService{Store: st}
	planning := &PlanningService{Store: st}

	orgID := seedOrg(t, st, "Org", "HHHHHH")
	ident := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	t.Run("unset image reads back empty", func(t *testing.T) {
		url, err := planning.Image(ctx, ident)
		require.NoError(t, err)
		require.Empty(t, url)
	})

	t.Run("set and read back", func(t *testing.T) {
		require.NoError(t, admin.SetPlanningImage(ctx, ident, "https://cdn.example.com/plan.png"))

		url, err := planning.Image(ctx, ident)
		require.NoError(t, err)
		require.Equal(t, "https://cdn.example.com/plan.png", url)
	})

	t.Run("blank image is rejected", func(t *testing.T) {
		err := admin.SetPlanningImage(ctx, ident, "  ")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})
}
