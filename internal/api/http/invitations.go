package http

import (
	"net/http"

	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
)

type InvitationHandler struct {
	InvitationService *service.InvitationService
}

type createInvitationRequest struct {
	Email string `json:"email"`
}

type createInvitationResponse struct {
	Token string `json:"token"`
}

// HandleCreate mints an invitation into the caller's organization. The
// raw token is returned once and never stored.
func (h *InvitationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req createInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.InvitationService.Create(r.Context(), ident, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createInvitationResponse{Token: token})
}

type validateInvitationResponse struct {
	Valid            bool   `json:"valid"`
	Email            string `json:"email"`
	OrganizationName string `json:"organizationName"`
}

// HandleValidate checks an invitation token before the signup form is
// shown. Not-found, used and expired states come back as distinct
// error kinds.
func (h *InvitationHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	preview, err := h.InvitationService.Validate(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, validateInvitationResponse{
		Valid:            true,
		Email:            preview.Email,
		OrganizationName: preview.OrganizationName,
	})
}

type acceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleAccept redeems an invitation and creates the account.
func (h *InvitationHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, err := h.InvitationService.Accept(r.Context(), req.Token, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toEmployeeResponse(emp))
}
