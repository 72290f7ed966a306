package httpd

import (
	"errors"
	"net/http"

	"github.com/recordpair/review-service/internal/service"
)

// handleServiceError переводит сентинельные ошибки сервисов в HTTP-статусы.
// Неизвестная ошибка логируется и наружу уходит как 500 без деталей.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoFiles),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidSoldStatus),
		errors.Is(err, service.ErrInvalidReviewStatus),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrNotYourAssignment):
		writeError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrPairNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrFileNotAvailable):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrNotQAUser),
		errors.Is(err, service.ErrCompletedLocked),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error().Err(err).Msg("Storage error")
		writeError(w, http.StatusInternalServerError, "Storage operation failed")

	default:
		h.logger.Error().Err(err).Msg("Unhandled service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
