package summarize

import "context"

// Summarizer defines the interface for generating a one-sentence summary of a
// piece of text. Implementations call an external capability and are treated
// as a black box that returns plain text or fails.
type Summarizer interface {
	// Summarize produces a single concise sentence summarizing the given
	// text. The context bounds the call; implementations must respect its
	// cancellation and deadline. On failure the returned error wraps one of
	// the sentinel errors in this package (see errors.go).
	Summarize(ctx context.Context, text string) (string, error)
}
