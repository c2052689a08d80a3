package api

import (
	"errors"
	"net/http"

	"github.com/riya23dhim/task-management-ai/internal/api/shared"
	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/service"
	"github.com/riya23dhim/task-management-ai/internal/service/auth"
	"github.com/riya23dhim/task-management-ai/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors. Tasks owned by someone else deliberately map here
	// as well, so the API never reveals that a foreign task exists.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Upstream summarization failures are the upstream's fault, not ours
	// and not the client's.
	case errors.Is(err, service.ErrSummarizationFailed):
		return http.StatusBadGateway

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
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrInvalidTransition):
		return "Invalid status transition"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrSummarizationFailed):
		return "Summary generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message, attaches any
// structured detail the error carries, and writes the response. An empty
// overrideMessage means "use the mapped safe message".
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMessage string) {
	status := MapErrorToStatusCode(err)
	message := overrideMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption

	var validationErr *domain.ValidationError
	var transitionErr *domain.InvalidTransitionError
	switch {
	case errors.As(err, &validationErr):
		violations := make([]shared.FieldViolation, 0, len(validationErr.Violations))
		for _, v := range validationErr.Violations {
			violations = append(violations, shared.FieldViolation{
				Field:   v.Field,
				Message: v.Message,
			})
		}
		opts = append(opts, shared.WithViolations(violations))

	case errors.As(err, &transitionErr):
		allowed := make([]string, 0, len(transitionErr.Allowed))
		for _, s := range transitionErr.Allowed {
			allowed = append(allowed, string(s))
		}
		opts = append(opts, shared.WithTransitionDetail(string(transitionErr.Current), allowed))
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
