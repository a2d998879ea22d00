package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/service/auth"
)

const (
	msgInvalidID       = "Invalid id"
	msgInvalidBody     = "Invalid request body"
	msgTaskNotFound    = "Task not found"
	msgInvalidToken    = "Invalid token"
	msgUnexpectedError = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrInvalidRequestBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Persistence failures and unknown errors get a
// generic message.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return msgUnexpectedError

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return msgInvalidToken

	case errors.Is(err, service.ErrTaskNotFound):
		return msgTaskNotFound

	case errors.Is(err, domain.ErrInvalidID):
		return msgInvalidID

	case errors.Is(err, shared.ErrInvalidRequestBody):
		return msgInvalidBody

	case errors.Is(err, domain.ErrValidation):
		return SanitizeValidationError(err)

	default:
		return msgUnexpectedError
	}
}

// SanitizeValidationError returns the field and rule of a validation error
// without any wrapped detail, e.g. "title is required".
func SanitizeValidationError(err error) string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) && vErr.Message != "" {
		if vErr.Field == "" {
			return vErr.Message
		}
		return vErr.Field + " " + vErr.Message
	}
	return "Validation error"
}

// HandleAPIError writes the error response for err: the mapped status code,
// a safe message for the client, and the redacted error in the logs.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
