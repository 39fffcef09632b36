package service

import (
	"context"
	"testing"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/stretchr/testify/require"
)

func TestRequestFiling(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &RequestService{Store: st}

	orgID := seedOrg(t, st, "Org", "LLLLLL")
	admin := seedEmployee(t, st, "boss@x.com", "pw", domain.RoleAdmin, orgID)
	worker := seedEmployee(t, st, "worker@x.com", "pw", domain.RoleEmployee, orgID)
	require.NoError(t, st.Organizations().SetOrganizationOwner(ctx, orgID, admin.ID))

	adminIdent := domain.Identity{EmployeeID: admin.ID, Role: domain.RoleAdmin, OrganizationID: orgID}
	workerIdent := domain.Identity{EmployeeID: worker.ID, Role: domain.RoleEmployee, OrganizationID: orgID}

	t.Run("worker files for themselves", func(t *testing.T) {
		req, err := svc.Create(ctx, workerIdent, CreateRequestParams{Type: "leave"})
		require.NoError(t, err)
		require.Equal(t, worker.ID, req.EmployeeID)
		require.Equal(t, domain.RequestPending, req.Status)
	})

	t.Run("worker cannot file for a colleague", func(t *testing.T) {
		_, err := svc.Create(ctx, workerIdent, CreateRequestParams{Type: "leave", EmployeeID: admin.ID})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin files on behalf of a worker", func(t *testing.T) {
		req, err := svc.Create(ctx, adminIdent, CreateRequestParams{Type: "document", EmployeeID: worker.ID})
		require.NoError(t, err)
		require.Equal(t, worker.ID, req.EmployeeID)
	})

	t.Run("listing carries the manager contact", func(t *testing.T) {
		list, err := svc.List(ctx, workerIdent)
		require.NoError(t, err)
		require.Equal(t, admin.Email, list.ManagerEmail)
		require.Len(t, list.Requests, 2)
	})

	t.Run("admin listing sees the whole organization", func(t *testing.T) {
		list, err := svc.List(ctx, adminIdent)
		require.NoError(t, err)
		require.Len(t, list.Requests, 2)
	})
}

func TestRequestReview(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &RequestService{Store: st}

	orgID := seedOrg(t, st, "Org", "MMMMMM")
	worker := seedEmployee(t, st, "worker@x.com", "pw", domain.RoleEmployee, orgID)
	workerIdent := domain.Identity{EmployeeID: worker.ID, Role: domain.RoleEmployee, OrganizationID: orgID}
	adminIdent := domain.Identity{EmployeeID: 99, Role: domain.RoleAdmin, OrganizationID: orgID}

	req, err := svc.Create(ctx, workerIdent, CreateRequestParams{Type: "leave"})
	require.NoError(t, err)

	t.Run("approve with a note", func(t *testing.T) {
		status := domain.RequestApproved
		note := "Enjoy your break"
		updated, err := svc.Update(ctx, adminIdent, req.ID, UpdateRequestParams{Status: &status, AdminMessage: &note})
		require.NoError(t, err)
		require.Equal(t, domain.RequestApproved, updated.Status)
		require.NotNil(t, updated.AdminMessage)
		require.Equal(t, note, *updated.AdminMessage)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		bad := "maybe"
		_, err := svc.Update(ctx, adminIdent, req.ID, UpdateRequestParams{Status: &bad})
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("cross-tenant review looks like a missing row", func(t *testing.T) {
		otherOrg := seedOrg(t, st, "Other", "NNNNNN")
		otherIdent := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: otherOrg}
		status := domain.RequestRejected
		_, err := svc.Update(ctx, otherIdent, req.ID, UpdateRequestParams{Status: &status})
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes the request", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, adminIdent, req.ID))
		require.ErrorIs(t, svc.Delete(ctx, adminIdent, req.ID), ErrNotFound)
	})
}
