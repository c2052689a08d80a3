package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSummarizationFailed is the sentinel for any failed summarization
// attempt. SummarizationError wraps the upstream detail; callers can match
// either with errors.Is/errors.As.
var ErrSummarizationFailed = errors.New("task summarization failed")

// SummarizationError is returned when the external summarization capability
// fails, times out, or produces an unusable response. The task's summary is
// guaranteed to be untouched when this error is returned.
type SummarizationError struct {
	TaskID uuid.UUID
	Err    error // Upstream failure detail
}

// Error implements the error interface for SummarizationError.
func (e *SummarizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", ErrSummarizationFailed, e.Err)
	}
	return ErrSummarizationFailed.Error()
}

// Unwrap returns the upstream error to support errors.Is/errors.As.
func (e *SummarizationError) Unwrap() error {
	return e.Err
}

// Is reports a match for the ErrSummarizationFailed sentinel so callers can
// check errors.Is(err, service.ErrSummarizationFailed) without knowing the
// concrete type.
func (e *SummarizationError) Is(target error) bool {
	return target == ErrSummarizationFailed
}

// NewSummarizationError creates a SummarizationError for the given task.
func NewSummarizationError(taskID uuid.UUID, err error) *SummarizationError {
	return &SummarizationError{TaskID: taskID, Err: err}
}

// TaskServiceError is a custom error type for unexpected task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
