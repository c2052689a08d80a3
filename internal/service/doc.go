// Package service provides the application-level task service: lifecycle
// operations, the list/query contract, status transition enforcement, and
// orchestration of the external summarization capability. Services depend on
// store interfaces and the summarize.Summarizer boundary, never on concrete
// backends.
package service
