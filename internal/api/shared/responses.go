package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/riya23dhim/task-management-ai/internal/redact"
)

// FieldViolation describes a single invalid field in a request, suitable for
// returning to the client alongside the top-level error message.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse defines the standard error response structure.
// The optional fields carry structured detail for the error classes that have
// it: field violations for validation failures, and the current/allowed
// statuses for rejected task transitions.
type ErrorResponse struct {
	Error              string           `json:"error"`
	Code               int              `json:"-"` // Not serialized to JSON, used for logging
	TraceID            string           `json:"trace_id,omitempty"`
	Violations         []FieldViolation `json:"violations,omitempty"`
	CurrentStatus      string           `json:"current_status,omitempty"`
	AllowedTransitions []string         `json:"allowed_transitions,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	detail          func(*ErrorResponse)
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN
// level instead of the default DEBUG level. Use for important operational
// issues like rate limiting or repeated auth failures.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithViolations attaches per-field validation detail to the error response.
func WithViolations(violations []FieldViolation) ResponseOption {
	return func(opts *responseOptions) {
		opts.detail = func(resp *ErrorResponse) {
			resp.Violations = violations
		}
	}
}

// WithTransitionDetail attaches the current status and the set of statuses
// reachable from it to a rejected-transition error response.
func WithTransitionDetail(current string, allowed []string) ResponseOption {
	return func(opts *responseOptions) {
		opts.detail = func(resp *ErrorResponse) {
			resp.CurrentStatus = current
			resp.AllowedTransitions = allowed
		}
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code and message.
// It also sets the TraceID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: traceID,
	}

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, errorResponse)
}

// RespondWithErrorAndLog writes a JSON error response and also logs the
// detailed error. The raw error never reaches the client; it is redacted and
// logged, and only the sanitized userMessage (plus any structured detail
// supplied via options) goes on the wire.
//
// Log level strategy:
// - 5xx errors: ERROR
// - 429 Too Many Requests: WARN (operational concern)
// - other 4xx: DEBUG, or WARN when WithElevatedLogLevel is supplied
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:   userMessage,
		Code:    status,
		TraceID: traceID,
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}
	if responseOpts.detail != nil {
		responseOpts.detail(&errorResponse)
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}

	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, errorResponse)
}
