package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recordpair/review-service/internal/models"
)

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, stats)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, users)
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.adminService.UpdateUserRole(r.Context(), chi.URLParam(r, "user_id"), req.Role)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	if err := h.adminService.DeleteUser(r.Context(), chi.URLParam(r, "user_id"), principal); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"deleted": true,
	})
}

func (h *Handler) DeleteFilePair(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.DeleteFilePair(r.Context(), chi.URLParam(r, "pair_id")); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"deleted": true,
	})
}
