package api

import (
	"errors"
	"net/http"

	"github.com/pixcore/pixcore-api/internal/domain"
	"github.com/pixcore/pixcore-api/internal/store"
	"github.com/pixcore/pixcore-api/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, task.ErrTaskNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrTaskTerminal),
		errors.Is(err, store.ErrPrimaryVersion):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidTaskKind),
		errors.Is(err, domain.ErrMissingSourceImage),
		errors.Is(err, domain.ErrEmptyShotID),
		errors.Is(err, domain.ErrInvalidMediaType),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Overload
	case errors.Is(err, task.ErrStoreFull):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrShotNotFound):
		return "Shot not found"

	case errors.Is(err, store.ErrVersionNotFound):
		return "Version not found"

	case errors.Is(err, domain.ErrTaskTerminal):
		return "Task already finished"

	case errors.Is(err, store.ErrPrimaryVersion):
		return "Cannot delete primary version"

	case errors.Is(err, domain.ErrMissingSourceImage):
		return "image_url is required for image-to-video"

	case errors.Is(err, domain.ErrInvalidTaskKind):
		return "Unknown generation task kind"

	case errors.Is(err, domain.ErrEmptyShotID):
		return "A valid shot_id is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	case errors.Is(err, task.ErrStoreFull):
		return "Too many tasks in flight, try again later"

	default:
		return "An unexpected error occurred"
	}
}
