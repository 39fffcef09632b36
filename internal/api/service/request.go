package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/pkg/slogx"
)

type RequestService struct {
	Store store.Store
}

// CreateRequestParams carries a new leave/document request. EmployeeID
// of 0 means the caller files for themselves.
type CreateRequestParams struct {
	Type        string
	Message     *string
	DocumentURL *string
	EmployeeID  int64
}

// UpdateRequestParams patches a request's review state.
type UpdateRequestParams struct {
	Status       *string
	AdminMessage *string
}

// RequestList bundles the visible requests with the organization
// owner's email, which the frontend shows as the contact for approvals.
type RequestList struct {
	Requests     []domain.Request
	ManagerEmail string
}

// Create files a request. Non-admins can only file for themselves.
func (s *RequestService) Create(
	ctx context.Context,
	ident domain.Identity,
	p CreateRequestParams,
) (domain.Request, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return domain.Request{}, ErrOrgMissing
	}
	if p.Type == "" {
		return domain.Request{}, ErrInvalidRequest
	}
	if p.EmployeeID == 0 {
		p.EmployeeID = ident.EmployeeID
	}
	if !ident.IsAdmin() && p.EmployeeID != ident.EmployeeID {
		return domain.Request{}, ErrForbidden
	}
	if _, err := s.Store.Employees().GetEmployeeInOrg(ctx, p.EmployeeID, ident.OrganizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Request{}, ErrNotFound
		}
		return domain.Request{}, err
	}

	req := domain.Request{
		EmployeeID:     p.EmployeeID,
		Type:           p.Type,
		Status:         domain.RequestPending,
		Message:        p.Message,
		DocumentURL:    p.DocumentURL,
		OrganizationID: ident.OrganizationID,
	}
	id, err := s.Store.Requests().CreateRequest(ctx, req)
	if err != nil {
		log.Error("failed to create request", slog.Any("error", err))
		return domain.Request{}, err
	}
	req.ID = id

	log.Info("request created",
		slog.Int64("request_id", id),
		slog.Int64("employee_id", req.EmployeeID),
		slog.String("type", req.Type),
	)
	return req, nil
}

// List returns the requests the caller may see (admins: the whole
// organization, others: their own) together with the manager contact.
func (s *RequestService) List(ctx context.Context, ident domain.Identity) (RequestList, error) {
	if ident.OrganizationID == 0 {
		return RequestList{}, ErrOrgMissing
	}

	q := store.RequestQuery{OrganizationID: ident.OrganizationID}
	if !ident.IsAdmin() {
		q.EmployeeID = &ident.EmployeeID
	}

	requests, err := s.Store.Requests().ListRequests(ctx, q)
	if err != nil {
		return RequestList{}, err
	}

	return RequestList{
		Requests:     requests,
		ManagerEmail: s.managerEmail(ctx, ident.OrganizationID),
	}, nil
}

// Update patches a request's review state within the caller's
// organization.
func (s *RequestService) Update(
	ctx context.Context,
	ident domain.Identity,
	id int64,
	p UpdateRequestParams,
) (domain.Request, error) {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return domain.Request{}, ErrOrgMissing
	}

	req, err := s.Store.Requests().GetRequestInOrg(ctx, id, ident.OrganizationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Request{}, ErrNotFound
		}
		return domain.Request{}, err
	}

	if p.Status != nil {
		switch *p.Status {
		case domain.RequestPending, domain.RequestApproved, domain.RequestRejected:
			req.Status = *p.Status
		default:
			return domain.Request{}, ErrInvalidRequest
		}
	}
	if p.AdminMessage != nil {
		req.AdminMessage = p.AdminMessage
	}

	if err := s.Store.Requests().UpdateRequest(ctx, req); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Request{}, ErrNotFound
		}
		log.Error("failed to update request", slog.Any("error", err))
		return domain.Request{}, err
	}

	log.Info("request updated",
		slog.Int64("request_id", req.ID),
		slog.String("status", req.Status),
	)
	return req, nil
}

// Delete removes a request within the caller's organization.
func (s *RequestService) Delete(ctx context.Context, ident domain.Identity, id int64) error {
	log := slogx.FromContext(ctx)

	if ident.OrganizationID == 0 {
		return ErrOrgMissing
	}

	if _, err := s.Store.Requests().GetRequestInOrg(ctx, id, ident.OrganizationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.Store.Requests().DeleteRequest(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("failed to delete request", slog.Any("error", err))
		return err
	}

	log.Info("request deleted", slog.Int64("request_id", id))
	return nil
}

// managerEmail resolves the organization owner's email; empty when the
// organization has no owner set.
func (s *RequestService) managerEmail(ctx context.Context, orgID int64) string {
	org, err := s.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil || org.OwnerID == nil {
		return ""
	}
	owner, err := s.Store.Employees().GetEmployeeByID(ctx, *org.OwnerID)
	if err != nil {
		return ""
	}
	return owner.Email
}
