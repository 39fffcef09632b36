package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedOrg(t *testing.T, st *Store, code string) int64 {
	t.Helper()
	id, err := st.Organizations().CreateOrganization(context.Background(), domain.Organization{
		Name: "Org " + code,
		Code: code,
	})
	require.NoError(t, err)
	return id
}

func seedEmployee(t *testing.T, st *Store, email string, orgID int64) int64 {
	t.Helper()
	id, err := st.Employees().CreateEmployee(context.Background(), domain.Employee{
		Name:           "Emp",
		Email:          email,
		Role:           domain.RoleEmployee,
		Status:         domain.StatusActive,
		PasswordHash:   "x",
		OrganizationID: orgID,
	})
	require.NoError(t, err)
	return id
}

func TestUniqueEmailConstraint(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orgID := seedOrg(t, st, "AAAAAA")

	seedEmployee(t, st, "dup@x.com", orgID)
	_, err := st.Employees().CreateEmployee(ctx, domain.Employee{
		Name:           "Dup",
		Email:          "dup@x.com",
		Role:           domain.RoleEmployee,
		Status:         domain.StatusActive,
		PasswordHash:   "x",
		OrganizationID: orgID,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetEmployeeInOrgScopesByTenant(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orgA := seedOrg(t, st, "AAAAAA")
	orgB := seedOrg(t, st, "BBBBBB")
	id := seedEmployee(t, st, "a@x.com", orgA)

	_, err := st.Employees().GetEmployeeInOrg(ctx, id, orgA)
	require.NoError(t, err)

	_, err = st.Employees().GetEmployeeInOrg(ctx, id, orgB)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRotateRefreshTokenHashIsConditional(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orgID := seedOrg(t, st, "AAAAAA")
	id := seedEmployee(t, st, "a@x.com", orgID)

	first := "fp-1"
	require.NoError(t, st.Employees().UpdateRefreshTokenHash(ctx, id, &first))

	t.Run("holder of the current fingerprint wins", func(t *testing.T) {
		swapped, err := st.Employees().RotateRefreshTokenHash(ctx, id, "fp-1", "fp-2")
		require.NoError(t, err)
		require.True(t, swapped)
	})

	t.Run("stale fingerprint loses", func(t *testing.T) {
		swapped, err := st.Employees().RotateRefreshTokenHash(ctx, id, "fp-1", "fp-3")
		require.NoError(t, err)
		require.False(t, swapped)
	})

	t.Run("clearing the hash blocks rotation entirely", func(t *testing.T) {
		require.NoError(t, st.Employees().UpdateRefreshTokenHash(ctx, id, nil))
		swapped, err := st.Employees().RotateRefreshTokenHash(ctx, id, "fp-2", "fp-4")
		require.NoError(t, err)
		require.False(t, swapped)
	})
}

func TestMarkInvitationUsedIsSingleShot(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orgID := seedOrg(t, st, "AAAAAA")

	_, err := st.Invitations().CreateInvitation(ctx, domain.Invitation{
		TokenHash:      "hash-1",
		Email:          "bob@x.com",
		OrganizationID: orgID,
		ExpiresAt:      time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	used, err := st.Invitations().MarkInvitationUsed(ctx, "hash-1", time.Now().UTC())
	require.NoError(t, err)
	require.True(t, used)

	used, err = st.Invitations().MarkInvitationUsed(ctx, "hash-1", time.Now().UTC())
	require.NoError(t, err)
	require.False(t, used)
}

func TestDeletePendingInvitationsSparesUsedOnes(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orgID := seedOrg(t, st, "AAAAAA")

	_, err := st.Invitations().CreateInvitation(ctx, domain.Invitation{
		TokenHash:      "used-hash",
		Email:          "bob@x.com",
		OrganizationID: orgID,
		ExpiresAt:      time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	_, err = st.Invitations().MarkInvitationUsed(ctx, "used-hash", time.Now().UTC())
	require.NoError(t, err)

	_, err = st.Invitations().CreateInvitation(ctx, domain.Invitation{
		TokenHash:      "pending-hash",
		Email:          "bob@x.com",
		OrganizationID: orgID,
		ExpiresAt:      time.Now().UTC().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, st.Invitations().DeletePendingInvitations(ctx, "bob@x.com", orgID))

	// The redeemed invitation survives as an audit record.
	_, err = st.Invitations().GetInvitationByTokenHash(ctx, "used-hash")
	require.NoError(t, err)

	_, err = st.Invitations().GetInvitationByTokenHash(ctx, "pending-hash")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	orgID := seedOrg(t, st, "AAAAAA")

	sentinel := context.Canceled
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Employees().CreateEmployee(ctx, domain.Employee{
			Name:           "Ghost",
			Email:          "ghost@x.com",
			Role:           domain.RoleEmployee,
			Status:         domain.StatusActive,
			PasswordHash:   "x",
			OrganizationID: orgID,
		}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = st.Employees().GetEmployeeByEmail(ctx, "ghost@x.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
