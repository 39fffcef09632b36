package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/pkg/cryptox"
	"github.com/mcplanning/backend/pkg/slogx"
)

// AdminService holds the privileged operations an organization admin
// performs on behalf of their staff.
type AdminService struct {
	Store store.Store
}

// ResetPassword sets a generated temporary password for the employee
// with the given email inside the caller's organization and returns it.
// The employee's active refresh token is revoked at the same time.
func (s *AdminService) ResetPassword(
	ctx context.Context,
	ident domain.Identity,
	email string,
) (string, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return "", ErrOrgMissing
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidRequest
	}

	emp, err := s.Store.Employees().GetEmployeeByEmailInOrg(ctx, email, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	tempPassword, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	passwordHash, err := cryptox.HashPassword(tempPassword)
	if err != nil {
		log.Error("failed to hash temporary password", slog.Any("error", err))
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Employees().UpdatePasswordHash(ctx, emp.ID, passwordHash); err != nil {
			return err
		}
		// Force re-login: the old session must not outlive the reset.
		return tx.Employees().UpdateRefreshTokenHash(ctx, emp.ID, nil)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		log.Error("failed to reset password", slog.Any("error", err))
		return "", err
	}

	log.Info("password reset by admin",
		slog.Int64("employee_id", emp.ID),
		slog.Int64("admin_id", ident.EmployeeID),
	)
	return tempPassword, nil
}

// SetPlanningImage stores the organization's planning display image.
func (s *AdminService) SetPlanningImage(ctx context.Context, ident domain.Identity, imageURL string) error {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return ErrOrgMissing
	}
	if strings.TrimSpace(imageURL) == "" {
		return ErrInvalidRequest
	}

	if err := s.Store.Organizations().UpdatePlanningImage(ctx, ident.OrganizationID, imageURL); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to set planning image", slog.Any("error", err))
		return err
	}

	log.Info("planning image updated", slog.Int64("org_id", ident.OrganizationID))
	return nil
}
