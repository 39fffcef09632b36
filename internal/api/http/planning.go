package http

import (
	"net/http"
	"time"

	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/pkg/httpx"
)

type PlanningHandler struct {
	PlanningService *service.PlanningService
}

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// HandleList returns schedule entries, optionally filtered by ?date=.
func (h *PlanningHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var day *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid date parameter")
			return
		}
		day = &t
	}

	entries, err := h.PlanningService.List(r.Context(), ident, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]planningEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toPlanningEntryResponse(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type planningEntryRequest struct {
	Date       string  `json:"date"`
	Shift      string  `json:"shift"`
	Note       *string `json:"note"`
	EmployeeID *int64  `json:"employeeId"`
}

func (req planningEntryRequest) toParams(w http.ResponseWriter, required bool) (service.PlanningEntryParams, bool) {
	p := service.PlanningEntryParams{
		Shift:      req.Shift,
		Note:       req.Note,
		EmployeeID: req.EmployeeID,
	}
	if req.Date != "" {
		t, err := parseDate(req.Date)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid date")
			return service.PlanningEntryParams{}, false
		}
		p.Date = t
	} else if required {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "date is required")
		return service.PlanningEntryParams{}, false
	}
	return p, true
}

// HandleCreate adds a schedule entry.
func (h *PlanningHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req planningEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := req.toParams(w, true)
	if !ok {
		return
	}

	entry, err := h.PlanningService.Create(r.Context(), ident, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPlanningEntryResponse(entry))
}

// HandleUpdate patches a schedule entry.
func (h *PlanningHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req planningEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := req.toParams(w, false)
	if !ok {
		return
	}

	entry, err := h.PlanningService.Update(r.Context(), ident, id, params)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPlanningEntryResponse(entry))
}

// HandleDelete removes a schedule entry.
func (h *PlanningHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.PlanningService.Delete(r.Context(), ident, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type planningImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// HandleImage returns the organization's planning display image.
func (h *PlanningHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	url, err := h.PlanningService.Image(r.Context(), ident)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, planningImageResponse{ImageURL: url})
}
