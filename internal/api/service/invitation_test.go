package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type failingNotifier struct{ calls int }

func (n *failingNotifier) SendInvitation(context.Context, string, string, string) error {
	n.calls++
	return errors.New("smtp is down")
}

func TestInvitationLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InvitationService{Store: st, FrontendURL: "http://localhost:3000"}

	orgID := seedOrg(t, st, "Demo Org", "DEMO01")
	admin := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	token, err := svc.Create(ctx, admin, "bob@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("validate reports the invitee and organization", func(t *testing.T) {
		preview, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, "bob@x.com", preview.Email)
		require.Equal(t, "Demo Org", preview.OrganizationName)
	})

	t.Run("accept creates the employee", func(t *testing.T) {
		emp, err := svc.Accept(ctx, token, "Bob", "secret-pw")
		require.NoError(t, err)
		require.Equal(t, "bob@x.com", emp.Email)
		require.Equal(t, domain.RoleEmployee, emp.Role)
		require.Equal(t, domain.StatusActive, emp.Status)
		require.Equal(t, orgID, emp.OrganizationID)

		stored, err := st.Employees().GetEmployeeByEmail(ctx, "bob@x.com")
		require.NoError(t, err)
		require.NoError(t, cryptox.VerifyPassword("secret-pw", stored.PasswordHash))
	})

	t.Run("second accept fails", func(t *testing.T) {
		_, err := svc.Accept(ctx, token, "Bob Again", "other-pw")
		require.ErrorIs(t, err, ErrAlreadyUsed)
	})

	t.Run("validate after use fails", func(t *testing.T) {
		_, err := svc.Validate(ctx, token)
		require.ErrorIs(t, err, ErrAlreadyUsed)
	})
}

func TestInvitationNotFound(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InvitationService{Store: st}

	_, err := svc.Validate(ctx, "no-such-token")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Accept(ctx, "no-such-token", "Bob", "pw")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInvitationExpiry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InvitationService{Store: st}

	orgID := seedOrg(t, st, "Demo Org", "DEMO01")

	// Insert an invitation that expired an hour ago.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	_, err = st.Invitations().CreateInvitation(ctx, domain.Invitation{
		TokenHash:      cryptox.FingerprintToken(token),
		Email:          "late@x.com",
		OrganizationID: orgID,
		ExpiresAt:      time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.Validate(ctx, token)
	require.ErrorIs(t, err, ErrExpired)

	_, err = svc.Accept(ctx, token, "Late", "pw")
	require.ErrorIs(t, err, ErrExpired)
}

func TestInvitationSupersession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InvitationService{Store: st}

	orgID := seedOrg(t, st, "Demo Org", "DEMO01")
	admin := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	first, err := svc.Create(ctx, admin, "bob@x.com")
	require.NoError(t, err)
	second, err := svc.Create(ctx, admin, "bob@x.com")
	require.NoError(t, err)

	// The superseded token no longer resolves at all.
	_, err = svc.Validate(ctx, first)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Validate(ctx, second)
	require.NoError(t, err)
}

func TestInvitationForExistingEmployee(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InvitationService{Store: st}

	orgID := seedOrg(t, st, "Demo Org", "DEMO01")
	seedEmployee(t, st, "taken@x.com", "pw", domain.RoleEmployee, orgID)
	admin := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	_, err := svc.Create(ctx, admin, "taken@x.com")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestInvitationDeliveryIsBestEffort(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	notifier := &failingNotifier{}
	svc := &InvitationService{Store: st, Notifier: notifier, FrontendURL: "http://localhost:3000"}

	orgID := seedOrg(t, st, "Demo Org", "DEMO01")
	admin := domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin, OrganizationID: orgID}

	token, err := svc.Create(ctx, admin, "bob@x.com")
	require.NoError(t, err)
	require.Equal(t, 1, notifier.calls)

	// The invitation is live despite the failed send.
	_, err = svc.Validate(ctx, token)
	require.NoError(t, err)
}

func TestInvitationRequiresOrganization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &InvitationService{Store: st}

	_, err := svc.Create(ctx, domain.Identity{EmployeeID: 1, Role: domain.RoleAdmin}, "bob@x.com")
	require.ErrorIs(t, err, ErrOrgMissing)
}
