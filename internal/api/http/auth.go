package http

import (
	"net/http"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin exchanges email/password for a token pair.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}

type signupRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName"`
	OrganizationCode string `json:"organizationCode"`
}

type signupResponse struct {
	Employee         employeeResponse `json:"employee"`
	OrganizationCode string           `json:"organizationCode"`
	AccessToken      string           `json:"accessToken"`
	RefreshToken     string           `json:"refreshToken"`
}

// HandleSignup registers an account. Admins get a fresh organization and
// its join code back; employees join by code.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.AuthService.Signup(r.Context(), service.SignupParams{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		Role:             req.Role,
		OrganizationName: req.OrganizationName,
		OrganizationCode: req.OrganizationCode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{
		Employee:         toEmployeeResponse(result.Employee),
		OrganizationCode: result.Organization.Code,
		AccessToken:      result.Tokens.AccessToken,
		RefreshToken:     result.Tokens.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// HandleRefresh rotates a refresh token into a new pair.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "refreshToken is required")
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}

// HandleLogout revokes the caller's active refresh token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(r.Context(), ident.EmployeeID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type meResponse struct {
	employeeResponse
	IsAdmin bool `json:"isAdmin"`
}

// HandleMe returns the caller's own profile.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	emp, err := h.AuthService.Me(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, meResponse{
		employeeResponse: toEmployeeResponse(emp),
		IsAdmin:          emp.Role == domain.RoleAdmin,
	})
}
