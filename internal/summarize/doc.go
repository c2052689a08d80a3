// Package summarize defines the boundary between the application core and the
// external text-summarization capability. The core depends only on the
// Summarizer interface; the Gemini-backed implementation lives in
// internal/platform/gemini and can be swapped or faked without touching task
// logic.
package summarize
