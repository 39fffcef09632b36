package http

import (
	"net/http"

	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
)

type AdminHandler struct {
	AdminService *service.AdminService
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
}

// HandleResetPassword sets a generated temporary password for an
// employee in the admin's organization and returns it once.
func (h *AdminHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tempPassword, err := h.AdminService.ResetPassword(r.Context(), ident, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resetPasswordResponse{TemporaryPassword: tempPassword})
}

type planningImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// HandlePlanningImage stores the organization's planning display image.
func (h *AdminHandler) HandlePlanningImage(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req planningImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.AdminService.SetPlanningImage(r.Context(), ident, req.ImageURL); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, planningImageResponse{ImageURL: req.ImageURL})
}
