package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/riya23dhim/task-management-ai/internal/api/shared"
	"github.com/riya23dhim/task-management-ai/internal/domain"
)

// errMissingUserID covers the case where the auth middleware did not run or
// did not place a user ID in the context. That is a server wiring problem,
// not a client one, but the client still gets a 401.
var errMissingUserID = errors.New("user ID not found in request context")

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(domain.FieldError{
			Field:   paramName,
			Message: "is required",
		})
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// requireUserAndTaskID extracts the authenticated user ID and the task ID
// path parameter, writing the error response itself when either is missing.
func requireUserAndTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"Authentication required", errMissingUserID)
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, taskID, true
}
