package service

import "errors"

// Типизированные ошибки для корректного маппинга на HTTP-коды в delivery-слое.
var (
	// Ошибки валидации входных данных.
	ErrNoFiles             = errors.New("no files were provided")
	ErrMissingFields       = errors.New("required fields are missing")
	ErrInvalidSoldStatus   = errors.New("invalid sold status")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrInvalidRole         = errors.New("invalid role selected")
	ErrPasswordMismatch    = errors.New("password and confirm password must match")

	// Отсутствующие сущности.
	ErrPairNotFound       = errors.New("file pair not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrFileNotAvailable   = errors.New("file not available in storage")

	// Нарушения прав доступа к конкретному ресурсу.
	ErrAccessDenied      = errors.New("access to this record is denied")
	ErrNotYourAssignment = errors.New("assignment belongs to another reviewer")

	// Нарушения бизнес-правил.
	ErrNotQAUser        = errors.New("selected user is not part of a QA team")
	ErrCompletedLocked  = errors.New("completed file pairs cannot be reassigned")
	ErrAlreadyCompleted = errors.New("assignment has already been completed")
	ErrAlreadyAssigned  = errors.New("file pair already has an active assignment")
	ErrEmailTaken       = errors.New("email already registered")

	// Ошибки аутентификации.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Ошибки внешних зависимостей.
	ErrStorageFailure = errors.New("storage operation failed")
)
