package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
	"github.com/mcplanning/backend/pkg/slogx"
)

// identityFromContext rebuilds the caller identity from the verified
// claims the authn middleware stored. ok is false when the request never
// passed authentication.
func identityFromContext(ctx context.Context) (domain.Identity, bool) {
	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		return domain.Identity{}, false
	}
	id, err := claims.EmployeeID()
	if err != nil {
		return domain.Identity{}, false
	}
	return domain.Identity{
		EmployeeID:     id,
		Email:          claims.Email,
		Role:           claims.Role,
		OrganizationID: claims.OrgID,
	}, true
}

// requireIdentity writes the 401 itself when the context has no
// identity; handlers just early-return on !ok.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required")
		return domain.Identity{}, false
	}
	return ident, true
}

// decodeJSON parses the request body into v, writing the 400 itself on
// malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return false
	}
	return true
}

// pathID parses the {id} path segment, writing the 400 itself.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid id")
		return 0, false
	}
	return id, true
}

// writeServiceError maps service sentinels onto the wire error kinds.
// Anything unrecognized is logged and reported as server_error without
// leaking internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
	case errors.Is(err, service.ErrOrgMissing):
		httpx.WriteError(w, http.StatusForbidden, "org_missing", "No organization associated with this account")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, service.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, "already_exists", "Resource already exists")
	case errors.Is(err, service.ErrAlreadyUsed):
		httpx.WriteError(w, http.StatusConflict, "already_used", "Invitation has already been used")
	case errors.Is(err, service.ErrExpired):
		httpx.WriteError(w, http.StatusGone, "expired", "Invitation has expired")
	case errors.Is(err, service.ErrInvalidRequest):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request parameters")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}

// Response shapes. Password and token hashes never leave the service.

type employeeResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	OrganizationID int64     `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toEmployeeResponse(e domain.Employee) employeeResponse {
	return employeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		Email:          e.Email,
		Role:           e.Role,
		Status:         e.Status,
		OrganizationID: e.OrganizationID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toEmployeeResponses(emps []domain.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(emps))
	for _, e := range emps {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}

type planningEntryResponse struct {
	ID             int64     `json:"id"`
	Date           time.Time `json:"date"`
	Shift          string    `json:"shift"`
	Note           *string   `json:"note,omitempty"`
	EmployeeID     *int64    `json:"employeeId,omitempty"`
	OrganizationID int64     `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toPlanningEntryResponse(e domain.PlanningEntry) planningEntryResponse {
	return planningEntryResponse{
		ID:             e.ID,
		Date:           e.Date,
		Shift:          e.Shift,
		Note:           e.Note,
		EmployeeID:     e.EmployeeID,
		OrganizationID: e.OrganizationID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

type requestResponse struct {
	ID             int64     `json:"id"`
	EmployeeID     int64     `json:"employeeId"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	Message        *string   `json:"message,omitempty"`
	DocumentURL    *string   `json:"documentUrl,omitempty"`
	AdminMessage   *string   `json:"adminMessage,omitempty"`
	OrganizationID int64     `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toRequestResponse(rq domain.Request) requestResponse {
	return requestResponse{
		ID:             rq.ID,
		EmployeeID:     rq.EmployeeID,
		Type:           rq.Type,
		Status:         rq.Status,
		Message:        rq.Message,
		DocumentURL:    rq.DocumentURL,
		AdminMessage:   rq.AdminMessage,
		OrganizationID: rq.OrganizationID,
		CreatedAt:      rq.CreatedAt,
		UpdatedAt:      rq.UpdatedAt,
	}
}
