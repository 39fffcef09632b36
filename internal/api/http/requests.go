package http

import (
	"net/http"

	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
)

type RequestHandler struct {
	RequestService *service.RequestService
}

type createRequestRequest struct {
	Type        string  `json:"type"`
	Message     *string `json:"message"`
	DocumentURL *string `json:"documentUrl"`
	EmployeeID  int64   `json:"employeeId"`
}

// HandleCreate files a leave/document request.
func (h *RequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req createRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.RequestService.Create(r.Context(), ident, service.CreateRequestParams{
		Type:        req.Type,
		Message:     req.Message,
		DocumentURL: req.DocumentURL,
		EmployeeID:  req.EmployeeID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRequestResponse(created))
}

type requestListResponse struct {
	Requests     []requestResponse `json:"requests"`
	ManagerEmail string            `json:"managerEmail"`
}

// HandleList returns the requests the caller may see plus the manager
// contact address.
func (h *RequestHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	list, err := h.RequestService.List(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]requestResponse, 0, len(list.Requests))
	for _, rq := range list.Requests {
		out = append(out, toRequestResponse(rq))
	}
	httpx.WriteJSON(w, http.StatusOK, requestListResponse{
		Requests:     out,
		ManagerEmail: list.ManagerEmail,
	})
}

type updateRequestRequest struct {
	Status       *string `json:"status"`
	AdminMessage *string `json:"adminMessage"`
}

// HandleUpdate patches a request's review state.
func (h *RequestHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.RequestService.Update(r.Context(), ident, id, service.UpdateRequestParams{
		Status:       req.Status,
		AdminMessage: req.AdminMessage,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRequestResponse(updated))
}

// HandleDelete removes a request.
func (h *RequestHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.RequestService.Delete(r.Context(), ident, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
