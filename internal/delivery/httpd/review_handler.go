package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/recordpair/review-service/internal/models"
)

// ListMyAssignments — активные назначения текущего ревьюера.
func (h *Handler) ListMyAssignments(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	items, err := h.assignmentService.ListActiveForReviewer(r.Context(), principal.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, items)
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	var req models.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	review, err := h.reviewService.SubmitReview(r.Context(), &req, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, review)
}

func (h *Handler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	items, err := h.reviewService.ListMyReviews(r.Context(), principal.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, items)
}
