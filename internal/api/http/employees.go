package http

import (
	"net/http"

	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
)

type EmployeeHandler struct {
	EmployeeService *service.EmployeeService
}

// HandleList returns the employees visible to the caller.
func (h *EmployeeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	emps, err := h.EmployeeService.List(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toEmployeeResponses(emps))
}

// HandleGet returns one employee in the caller's organization.
func (h *EmployeeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	emp, err := h.EmployeeService.Get(r.Context(), ident, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

type createEmployeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type createEmployeeResponse struct {
	employeeResponse
	TemporaryPassword string `json:"temporaryPassword"`
}

// HandleCreate adds an employee with a generated temporary password,
// which is included in the response exactly once.
func (h *EmployeeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req createEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, tempPassword, err := h.EmployeeService.Create(r.Context(), ident, req.Name, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createEmployeeResponse{
		employeeResponse:  toEmployeeResponse(emp),
		TemporaryPassword: tempPassword,
	})
}

type updateEmployeeRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// HandleUpdate patches an employee's profile.
func (h *EmployeeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	emp, err := h.EmployeeService.Update(r.Context(), ident, id, service.UpdateEmployeeParams{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toEmployeeResponse(emp))
}

// HandleDelete removes an employee.
func (h *EmployeeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.EmployeeService.Delete(r.Context(), ident, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
