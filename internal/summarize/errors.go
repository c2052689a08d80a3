package summarize

import "errors"

// Common errors returned by Summarizer implementations
var (
	// ErrEmptyText is returned when there is no text to summarize
	ErrEmptyText = errors.New("text to summarize cannot be empty")

	// ErrInvalidResponse is returned when the model response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors (network failures,
	// timeouts, upstream overload) that might resolve on a later request
	ErrTransientFailure = errors.New("transient error during summarization")

	// ErrInvalidConfig is returned when the summarizer configuration is invalid
	ErrInvalidConfig = errors.New("invalid summarizer configuration")
)
