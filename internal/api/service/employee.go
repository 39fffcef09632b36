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

type EmployeeService struct {
	Store store.Store
}

// UpdateEmployeeParams are the patchable profile fields; nil leaves a
// field unchanged.
type UpdateEmployeeParams struct {
	Name   *string
	Email  *string
	Role   *string
	Status *string
}

// List returns the employees the caller may see: admins get the whole
// organization, everyone else only themselves.
func (s *EmployeeService) List(ctx context.Context, ident domain.Identity) ([]domain.Employee, error) {
	if ident.OrganizationID == 0 {
		return nil, ErrOrgMissing
	}

	if !ident.IsAdmin() {
		emp, err := s.Store.Employees().GetEmployeeInOrg(ctx, ident.EmployeeID, ident.OrganizationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return []domain.Employee{emp}, nil
	}

	return s.Store.Employees().ListEmployeesByOrg(ctx, ident.OrganizationID)
}

// Get fetches one employee within the caller's organization. Non-admins
// may only fetch themselves; cross-tenant ids come back ErrNotFound.
func (s *EmployeeService) Get(ctx context.Context, ident domain.Identity, id int64) (domain.Employee, error) {
	if ident.OrganizationID == 0 {
		return domain.Employee{}, ErrOrgMissing
	}
	if !ident.IsAdmin() && id != ident.EmployeeID {
		return domain.Employee{}, ErrForbidden
	}

	emp, err := s.Store.Employees().GetEmployeeInOrg(ctx, id, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, ErrNotFound
		}
		return domain.Employee{}, err
	}
	return emp, nil
}

// Create adds an employee to the caller's organization with a generated
// temporary password, which is returned once so the admin can pass it
// on. The employee is expected to change it after first login.
func (s *EmployeeService) Create(
	ctx context.Context,
	ident domain.Identity,
	name, email, role string,
) (domain.Employee, string, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return domain.Employee{}, "", ErrOrgMissing
	}
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return domain.Employee{}, "", ErrInvalidRequest
	}
	if role == "" {
		role = domain.RoleEmployee
	}

	tempPassword, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.Employee{}, "", err
	}
	passwordHash, err := cryptox.HashPassword(tempPassword)
	if err != nil {
		log.Error("failed to hash temporary password", slog.Any("error", err))
		return domain.Employee{}, "", err
	}

	emp := domain.Employee{
		Name:           name,
		Email:          email,
		Role:           role,
		Status:         domain.StatusActive,
		PasswordHash:   passwordHash,
		OrganizationID: ident.OrganizationID,
	}
	id, err := s.Store.Employees().CreateEmployee(ctx, emp)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Employee{}, "", ErrAlreadyExists
		}
		log.Error("failed to create employee", slog.Any("error", err))
		return domain.Employee{}, "", err
	}
	emp.ID = id

	log.Info("employee created",
		slog.Int64("employee_id", id),
		slog.Int64("org_id", ident.OrganizationID),
		slog.String("role", role),
	)
	return emp, tempPassword, nil
}

// Update patches an employee's profile within the caller's organization.
func (s *EmployeeService) Update(
	ctx context.Context,
	ident domain.Identity,
	id int64,
	p UpdateEmployeeParams,
) (domain.Employee, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return domain.Employee{}, ErrOrgMissing
	}

	emp, err := s.Store.Employees().GetEmployeeInOrg(ctx, id, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, ErrNotFound
		}
		return domain.Employee{}, err
	}

	if p.Name != nil {
		emp.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		emp.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Role != nil {
		emp.Role = *p.Role
	}
	if p.Status != nil {
		emp.Status = *p.Status
	}
	if emp.Name == "" || emp.Email == "" {
		return domain.Employee{}, ErrInvalidRequest
	}

	err = s.Store.Employees().UpdateEmployeeProfile(ctx, emp.ID, emp.Name, emp.Email, emp.Role, emp.Status)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Employee{}, ErrAlreadyExists
		}
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, ErrNotFound
		}
		log.Error("failed to update employee", slog.Any("error", err))
		return domain.Employee{}, err
	}

	log.Info("employee updated", slog.Int64("employee_id", emp.ID))
	return emp, nil
}

// Delete removes an employee from the caller's organization.
func (s *EmployeeService) Delete(ctx context.Context, ident domain.Identity, id int64) error {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return ErrOrgMissing
	}

	// Tenant check first so cross-tenant deletes look like missing rows.
	if _, err := s.Store.Employees().GetEmployeeInOrg(ctx, id, ident.OrganizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.Store.Employees().DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to delete employee", slog.Any("error", err))
		return err
	}

	log.Info("employee deleted", slog.Int64("employee_id", id))
	return nil
}
