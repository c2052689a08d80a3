// Package domain defines the core business entities of the task management
// application: tasks with their priority and status enums, the status
// transition state machine, typed patches for partial updates, and users.
// Domain types carry their own validation and know nothing about storage,
// HTTP, or the summarization backend.
package domain
