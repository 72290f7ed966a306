package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/recordpair/review-service/internal/models"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, response)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

// CurrentUser возвращает Principal из токена без похода в БД.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeSuccess(w, principal)
}
