package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/pkg/cryptox"
	"github.com/mcplanning/backend/pkg/slogx"
)

// InvitationTTL is how long an invitation token stays redeemable.
const InvitationTTL = 48 * time.Hour

// Notifier delivers invitation emails. Delivery is best-effort: a send
// failure never rolls back the invitation.
type Notifier interface {
	SendInvitation(ctx context.Context, email, orgName, link string) error
}

type InvitationService struct {
	Store       store.Store
	Notifier    Notifier
	FrontendURL string
}

// InvitationPreview is what Validate returns for a redeemable token.
type InvitationPreview struct {
	Email            string
	OrganizationName string
}

// Create mints an invitation for an email address into the caller's
// organization and returns the raw token. Pending invitations for the
// same (email, organization) pair are superseded: their tokens stop
// resolving entirely.
func (s *InvitationService) Create(ctx context.Context, ident domain.Identity, email string) (string, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return "", ErrOrgMissing
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidRequest
	}

	// 1. An address that already belongs to an account cannot be invited.
	_, err := s.Store.Employees().GetEmployeeByEmail(ctx, email)
	if err == nil {
		log.Info("invitation attempt for existing employee email")
		return "", ErrAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return "", err
	}

	// 2. Generate the opaque token; only its fingerprint is persisted.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return "", err
	}

	inv := domain.Invitation{
		TokenHash:      cryptox.FingerprintToken(token),
		Email:          email,
		OrganizationID: ident.OrganizationID,
		ExpiresAt:      time.Now().UTC().Add(InvitationTTL),
	}

	// 3. Supersede and insert atomically so at most one pending
	// invitation exists per (email, organization).
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().DeletePendingInvitations(ctx, email, ident.OrganizationID); err != nil {
			return err
		}
		id, err := tx.Invitations().CreateInvitation(ctx, inv)
		if err != nil {
			return err
		}
		inv.ID = id
		return nil
	})
	if err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return "", err
	}

	log.Info("invitation created",
		slog.Int64("invitation_id", inv.ID),
		slog.Int64("org_id", ident.OrganizationID),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 4. Best-effort delivery: the invitation exists either way.
	if s.Notifier != nil {
		org, err := s.Store.Organizations().GetOrganizationByID(ctx, ident.OrganizationID)
		orgName := ""
		if err == nil {
			orgName = org.Name
		}
		link := s.FrontendURL + "/invitations/accept?token=" + token
		if err := s.Notifier.SendInvitation(ctx, email, orgName, link); err != nil {
			log.Warn("invitation email delivery failed",
				slog.Int64("invitation_id", inv.ID),
				slog.Any("error", err),
			)
		}
	}

	return token, nil
}

// Validate checks a raw invitation token and reports who it is for.
// The error distinguishes never-existed/superseded (ErrNotFound),
// already accepted (ErrAlreadyUsed) and past expiry (ErrExpired).
func (s *InvitationService) Validate(ctx context.Context, token string) (InvitationPreview, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return InvitationPreview{}, err
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, inv.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return InvitationPreview{}, ErrNotFound
		}
		return InvitationPreview{}, err
	}

	return InvitationPreview{Email: inv.Email, OrganizationName: org.Name}, nil
}

// Accept redeems an invitation and creates the employee account in one
// transaction. The conditional mark-used write guarantees a token is
// consumed at most once even under concurrent acceptance.
func (s *InvitationService) Accept(ctx context.Context, token, name, password string) (domain.Employee, error) {
	log := slogx.FromContext(ctx)

	if name == "" || password == "" {
		return domain.Employee{}, ErrInvalidRequest
	}

	inv, err := s.lookup(ctx, token)
	if err != nil {
		return domain.Employee{}, err
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Employee{}, err
	}

	emp := domain.Employee{
		Name:           strings.TrimSpace(name),
		Email:          inv.Email,
		Role:           domain.RoleEmployee,
		Status:         domain.StatusActive,
		PasswordHash:   passwordHash,
		OrganizationID: inv.OrganizationID,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		used, err := tx.Invitations().MarkInvitationUsed(ctx, inv.TokenHash, time.Now().UTC())
		if err != nil {
			return err
		}
		if !used {
			return ErrAlreadyUsed
		}

		id, err := tx.Employees().CreateEmployee(ctx, emp)
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyExists
			}
			return err
		}
		emp.ID = id
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyUsed) || errors.Is(err, ErrAlreadyExists) {
			log.Info("invitation acceptance rejected",
				slog.Int64("invitation_id", inv.ID),
				slog.Any("reason", err),
			)
			return domain.Employee{}, err
		}
		log.Error("invitation acceptance failed", slog.Any("error", err))
		return domain.Employee{}, err
	}

	log.Info("employee registered via invitation",
		slog.Int64("employee_id", emp.ID),
		slog.Int64("invitation_id", inv.ID),
		slog.Int64("org_id", emp.OrganizationID),
	)
	return emp, nil
}

// lookup fingerprints the token and applies the shared state checks.
// Expiry is evaluated lazily here; nothing sweeps expired rows.
func (s *InvitationService) lookup(ctx context.Context, token string) (domain.Invitation, error) {
	if token == "" {
		return domain.Invitation{}, ErrNotFound
	}

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}
	if inv.UsedAt != nil {
		return domain.Invitation{}, ErrAlreadyUsed
	}
	if time.Now().After(inv.ExpiresAt) {
		return domain.Invitation{}, ErrExpired
	}
	return inv, nil
}
