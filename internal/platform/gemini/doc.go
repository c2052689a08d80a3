// Package gemini implements the summarize.Summarizer interface using Google's
// Gemini API. The adapter sends the task description with a fixed one-sentence
// summarization instruction, retries transient API failures with exponential
// backoff, and classifies empty, malformed, or safety-blocked responses as
// permanent errors.
package gemini
