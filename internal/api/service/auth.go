package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/pkg/cryptox"
	"github.com/mcplanning/backend/pkg/jwtx"
	"github.com/mcplanning/backend/pkg/slogx"
)

type AuthService struct {
	Store         store.Store
	AccessSigner  *jwtx.Signer
	RefreshSigner *jwtx.Signer
}

// SignupParams carries the self-registration input. Role "admin" creates
// a fresh organization named OrganizationName; any other role joins the
// organization identified by OrganizationCode.
type SignupParams struct {
	Name             string
	Email            string
	Password         string
	Role             string
	OrganizationName string
	OrganizationCode string
}

// SignupResult is what a successful signup hands back: the created
// employee, the organization they ended up in (with its join code) and
// a fresh token pair.
type SignupResult struct {
	Employee     domain.Employee
	Organization domain.Organization
	Tokens       domain.TokenPair
}

// Login verifies an email/password pair and issues a token pair. An
// unknown email and a wrong password are indistinguishable: both come
// back ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	emp, err := s.Store.Employees().GetEmployeeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login attempt for unknown email")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch employee for login", slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, emp.PasswordHash); err != nil {
		log.Info("login attempt with wrong password", slog.Int64("employee_id", emp.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	pair, fingerprint, err := s.issuePair(emp)
	if err != nil {
		log.Error("failed to issue token pair", slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	// Persist the refresh fingerprint; any previously active refresh
	// token stops working here (single active session).
	if err := s.Store.Employees().UpdateRefreshTokenHash(ctx, emp.ID, &fingerprint); err != nil {
		log.Error("failed to store refresh fingerprint", slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	log.Info("login succeeded",
		slog.Int64("employee_id", emp.ID),
		slog.Int64("org_id", emp.OrganizationID),
	)
	return pair, nil
}

// Signup registers a new account. Admin signups create and own a new
// organization; everyone else joins an existing one by code. The whole
// write happens in one transaction.
func (s *AuthService) Signup(ctx context.Context, p SignupParams) (SignupResult, error) {
	log := slogx.FromContext(ctx)

	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Email == "" || p.Password == "" {
		return SignupResult{}, ErrInvalidRequest
	}
	if p.Role == "" {
		p.Role = domain.RoleEmployee
	}

	passwordHash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return SignupResult{}, err
	}

	var emp domain.Employee
	var org domain.Organization

	switch p.Role {
	case domain.RoleAdmin:
		if p.OrganizationName == "" {
			return SignupResult{}, ErrInvalidRequest
		}
		code, err := cryptox.GenerateOrgCode()
		if err != nil {
			return SignupResult{}, err
		}

		err = s.Store.WithTx(ctx, func(tx store.Tx) error {
			org = domain.Organization{Name: p.OrganizationName, Code: code}
			orgID, err := tx.Organizations().CreateOrganization(ctx, org)
			if err != nil {
				return err
			}
			org.ID = orgID

			emp = domain.Employee{
				Name:           p.Name,
				Email:          p.Email,
				Role:           domain.RoleAdmin,
				Status:         domain.StatusActive,
				PasswordHash:   passwordHash,
				OrganizationID: orgID,
			}
			empID, err := tx.Employees().CreateEmployee(ctx, emp)
			if err != nil {
				return err
			}
			emp.ID = empID

			return tx.Organizations().SetOrganizationOwner(ctx, orgID, empID)
		})
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				log.Info("signup attempt with taken email or code")
				return SignupResult{}, ErrAlreadyExists
			}
			log.Error("admin signup failed", slog.Any("error", err))
			return SignupResult{}, err
		}

	default:
		if p.OrganizationCode == "" {
			return SignupResult{}, ErrInvalidRequest
		}
		org, err = s.Store.Organizations().GetOrganizationByCode(ctx, strings.ToUpper(p.OrganizationCode))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Info("signup attempt with unknown organization code")
				return SignupResult{}, ErrNotFound
			}
			return SignupResult{}, err
		}

		emp = domain.Employee{
			Name:           p.Name,
			Email:          p.Email,
			Role:           p.Role,
			Status:         domain.StatusActive,
			PasswordHash:   passwordHash,
			OrganizationID: org.ID,
		}
		empID, err := s.Store.Employees().CreateEmployee(ctx, emp)
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				log.Info("signup attempt with taken email")
				return SignupResult{}, ErrAlreadyExists
			}
			log.Error("employee signup failed", slog.Any("error", err))
			return SignupResult{}, err
		}
		emp.ID = empID
	}

	pair, fingerprint, err := s.issuePair(emp)
	if err != nil {
		log.Error("failed to issue token pair", slog.Any("error", err))
		return SignupResult{}, err
	}
	if err := s.Store.Employees().UpdateRefreshTokenHash(ctx, emp.ID, &fingerprint); err != nil {
		return SignupResult{}, err
	}

	log.Info("signup succeeded",
		slog.Int64("employee_id", emp.ID),
		slog.Int64("org_id", emp.OrganizationID),
		slog.String("role", emp.Role),
	)
	return SignupResult{Employee: emp, Organization: org, Tokens: pair}, nil
}

// Refresh rotates a refresh token: the presented token must verify, its
// fingerprint must match the single stored one, and the swap to the new
// fingerprint happens in one conditional write. A replayed or already
// rotated token fails deterministically with ErrInvalidToken.
func (s *AuthService) Refresh(ctx context.Context, raw string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.RefreshSigner.Verify(raw)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidToken
	}
	employeeID, err := claims.EmployeeID()
	if err != nil {
		return domain.TokenPair{}, ErrInvalidToken
	}

	emp, err := s.Store.Employees().GetEmployeeByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidToken
		}
		log.Error("failed to fetch employee for refresh", slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	// A logged-out employee has no stored fingerprint.
	if emp.RefreshTokenHash == nil {
		log.Info("refresh attempt after logout", slog.Int64("employee_id", emp.ID))
		return domain.TokenPair{}, ErrInvalidToken
	}

	oldFingerprint := cryptox.FingerprintToken(raw)
	if !cryptox.FingerprintEqual(oldFingerprint, *emp.RefreshTokenHash) {
		log.Info("refresh attempt with superseded token", slog.Int64("employee_id", emp.ID))
		return domain.TokenPair{}, ErrInvalidToken
	}

	pair, newFingerprint, err := s.issuePair(emp)
	if err != nil {
		log.Error("failed to issue token pair", slog.Any("error", err))
		return domain.TokenPair{}, err
	}

	// Conditional swap: only the caller holding the current token wins.
	swapped, err := s.Store.Employees().RotateRefreshTokenHash(ctx, emp.ID, oldFingerprint, newFingerprint)
	if err != nil {
		log.Error("failed to rotate refresh fingerprint", slog.Any("error", err))
		return domain.TokenPair{}, err
	}
	if !swapped {
		log.Info("refresh lost rotation race", slog.Int64("employee_id", emp.ID))
		return domain.TokenPair{}, ErrInvalidToken
	}

	log.Debug("refresh token rotated", slog.Int64("employee_id", emp.ID))
	return pair, nil
}

// Logout clears the stored refresh fingerprint so the active refresh
// token stops working. Calling it twice is fine.
func (s *AuthService) Logout(ctx context.Context, employeeID int64) error {
	log := slogx.FromContext(ctx)

	err := s.Store.Employees().UpdateRefreshTokenHash(ctx, employeeID, nil)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to clear refresh fingerprint", slog.Any("error", err))
		return err
	}

	log.Info("logout", slog.Int64("employee_id", employeeID))
	return nil
}

// Me returns the caller's employee record, scoped to their organization.
func (s *AuthService) Me(ctx context.Context, ident domain.Identity) (domain.Employee, error) {
	if ident.OrganizationID == 0 {
		return domain.Employee{}, ErrOrgMissing
	}
	emp, err := s.Store.Employees().GetEmployeeInOrg(ctx, ident.EmployeeID, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Employee{}, ErrNotFound
		}
		return domain.Employee{}, err
	}
	return emp, nil
}

// issuePair signs a fresh access/refresh pair for the employee and
// returns the refresh token's fingerprint for persistence.
func (s *AuthService) issuePair(emp domain.Employee) (domain.TokenPair, string, error) {
	access, err := s.AccessSigner.Issue(emp.ID, emp.Email, emp.Role, emp.OrganizationID)
	if err != nil {
		return domain.TokenPair{}, "", err
	}
	refresh, err := s.RefreshSigner.Issue(emp.ID, emp.Email, emp.Role, emp.OrganizationID)
	if err != nil {
		return domain.TokenPair{}, "", err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh},
		cryptox.FingerprintToken(refresh), nil
}
