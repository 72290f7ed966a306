package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/recordpair/review-service/internal/models"
)

// ListAvailablePairs — пары без активного назначения для менеджера.
func (h *Handler) ListAvailablePairs(w http.ResponseWriter, r *http.Request) {
	filter := models.PairFilter{
		Status: models.PairStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
		Page:   getIntQueryParam(r, "page", 1),
		Limit:  getIntQueryParam(r, "limit", 10),
	}

	response, err := h.assignmentService.ListAvailablePairs(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	var req models.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.assignmentService.AssignOrReassign(r.Context(), &req, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if response.Mode == models.AssignModeCreated {
		writeCreated(w, response)
		return
	}
	writeSuccess(w, response)
}

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	filter := models.AssignmentFilter{
		TeamTag:    models.Role(r.URL.Query().Get("team_tag")),
		AssignedTo: r.URL.Query().Get("assigned_to"),
		Status:     models.AssignmentStatus(r.URL.Query().Get("status")),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 10),
	}

	response, err := h.assignmentService.ListAssignments(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) ListQAUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.assignmentService.ListQAUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, users)
}

func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.adminService.ListAgents(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, agents)
}
