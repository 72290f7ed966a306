package httpd

import (
	"net/http"
	"time"

	"github.com/recordpair/review-service/internal/models"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Service:   "review-service",
		Timestamp: time.Now().UTC(),
	})
}

// ReadyCheck дополнительно проверяет доступность БД.
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.baseRepo.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, models.HealthResponse{
			Status:    "unavailable",
			Service:   "review-service",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ready",
		Service:   "review-service",
		Timestamp: time.Now().UTC(),
	})
}
