package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/pkg/slogx"
)

type PlanningService struct {
	Store store.Store
}

// PlanningEntryParams carries create/update input for a schedule entry.
// A nil EmployeeID means the entry applies to the whole team.
type PlanningEntryParams struct {
	Date       time.Time
	Shift      string
	Note       *string
	EmployeeID *int64
}

// List returns schedule entries for the caller's organization, optionally
// restricted to one day. Non-admins only see their own entries plus
// unassigned whole-team rows.
func (s *PlanningService) List(
	ctx context.Context,
	ident domain.Identity,
	day *time.Time,
) ([]domain.PlanningEntry, error) {
	if ident.OrganizationID == 0 {
		return nil, ErrOrgMissing
	}

	q := store.PlanningQuery{OrganizationID: ident.OrganizationID, Day: day}
	if !ident.IsAdmin() {
		q.VisibleTo = &ident.EmployeeID
	}
	return s.Store.PlanningEntries().ListPlanningEntries(ctx, q)
}

// Create adds a schedule entry. When the entry targets an employee, that
// employee must belong to the caller's organization.
func (s *PlanningService) Create(
	ctx context.Context,
	ident domain.Identity,
	p PlanningEntryParams,
) (domain.PlanningEntry, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return domain.PlanningEntry{}, ErrOrgMissing
	}
	if p.Date.IsZero() || p.Shift == "" {
		return domain.PlanningEntry{}, ErrInvalidRequest
	}
	if err := s.checkAssignee(ctx, ident, p.EmployeeID); err != nil {
		return domain.PlanningEntry{}, err
	}

	entry := domain.PlanningEntry{
		Date:           p.Date.UTC(),
		Shift:          p.Shift,
		Note:           p.Note,
		EmployeeID:     p.EmployeeID,
		OrganizationID: ident.OrganizationID,
	}
	id, err := s.Store.PlanningEntries().CreatePlanningEntry(ctx, entry)
	if err != nil {
		log.Error("failed to create planning entry", slog.Any("error", err))
		return domain.PlanningEntry{}, err
	}
	entry.ID = id

	log.Info("planning entry created",
		slog.Int64("entry_id", id),
		slog.Int64("org_id", ident.OrganizationID),
	)
	return entry, nil
}

// Update replaces a schedule entry's fields within the caller's
// organization.
func (s *PlanningService) Update(
	ctx context.Context,
	ident domain.Identity,
	id int64,
	p PlanningEntryParams,
) (domain.PlanningEntry, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return domain.PlanningEntry{}, ErrOrgMissing
	}

	entry, err := s.Store.PlanningEntries().GetPlanningEntryInOrg(ctx, id, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PlanningEntry{}, ErrNotFound
		}
		return domain.PlanningEntry{}, err
	}

	if !p.Date.IsZero() {
		entry.Date = p.Date.UTC()
	}
	if p.Shift != "" {
		entry.Shift = p.Shift
	}
	if p.Note != nil {
		entry.Note = p.Note
	}
	if p.EmployeeID != nil {
		if err := s.checkAssignee(ctx, ident, p.EmployeeID); err != nil {
			return domain.PlanningEntry{}, err
		}
		entry.EmployeeID = p.EmployeeID
	}

	if err := s.Store.PlanningEntries().UpdatePlanningEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PlanningEntry{}, ErrNotFound
		}
		log.Error("failed to update planning entry", slog.Any("error", err))
		return domain.PlanningEntry{}, err
	}

	log.Info("planning entry updated", slog.Int64("entry_id", entry.ID))
	return entry, nil
}

// Delete removes a schedule entry within the caller's organization.
func (s *PlanningService) Delete(ctx context.Context, ident domain.Identity, id int64) error {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return ErrOrgMissing
	}

	if _, err := s.Store.PlanningEntries().GetPlanningEntryInOrg(ctx, id, ident.OrganizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.Store.PlanningEntries().DeletePlanningEntry(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to delete planning entry", slog.Any("error", err))
		return err
	}

	log.Info("planning entry deleted", slog.Int64("entry_id", id))
	return nil
}

// Image returns the organization's planning display image, empty when
// none is set.
func (s *PlanningService) Image(ctx context.Context, ident domain.Identity) (string, error) {
	if ident.OrganizationID == 0 {
		return "", ErrOrgMissing
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if org.PlanningImageURL == nil {
		return "", nil
	}
	return *org.PlanningImageURL, nil
}

// checkAssignee verifies a targeted employee exists in the caller's
// organization.
func (s *PlanningService) checkAssignee(ctx context.Context, ident domain.Identity, employeeID *int64) error {
	if employeeID == nil {
		return nil
	}
	_, err := s.Store.Employees().GetEmployeeInOrg(ctx, *employeeID, ident.OrganizationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
