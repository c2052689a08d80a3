package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the priority level of a task.
type TaskPriority string

// Possible task priority values. There is no default priority; creation
// requires one explicitly.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// taskTransitions is the complete edge set of the task status state machine.
// The machine has no memory beyond the current state: the legal next statuses
// are derivable from the current status alone.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusTodo:       {TaskStatusInProgress},
	TaskStatusInProgress: {TaskStatusTodo, TaskStatusDone},
	TaskStatusDone:       {TaskStatusInProgress},
}

// CanTransitionTo reports whether moving from one status to another is a legal
// edge in the state machine. Self-transitions are not edges; callers treat
// them as idempotent no-ops before consulting this function.
func CanTransitionTo(from, to TaskStatus) bool {
	for _, next := range taskTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the set of statuses legally reachable from the
// given status. The returned slice is a copy and safe to modify.
func AllowedTransitions(from TaskStatus) []TaskStatus {
	allowed := taskTransitions[from]
	out := make([]TaskStatus, len(allowed))
	copy(out, allowed)
	return out
}

// Task represents a single user-owned task. Every read and write of a task is
// scoped to its OwnerID; a task is invisible to any other owner.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     time.Time    `json:"due_date"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	Summary     *string      `json:"summary,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. It generates a new UUID,
// sets the creation/update timestamps, and forces the status to todo: creation
// never accepts an arbitrary initial status.
// Returns a ValidationError listing every violation if the data is invalid.
func NewTask(
	ownerID uuid.UUID,
	title, description string,
	dueDate time.Time,
	priority TaskPriority,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Status:      TaskStatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the Task against the entity schema. It collects every field
// violation rather than stopping at the first, and returns a ValidationError
// enumerating all of them, or nil if the task is valid.
func (t *Task) Validate() error {
	var violations []FieldError

	if t.ID == uuid.Nil {
		violations = append(violations, FieldError{Field: "id", Message: "cannot be empty"})
	}
	if t.OwnerID == uuid.Nil {
		violations = append(violations, FieldError{Field: "owner_id", Message: "cannot be empty"})
	}
	if t.Title == "" {
		violations = append(violations, FieldError{Field: "title", Message: "is required"})
	}
	if t.Description == "" {
		violations = append(violations, FieldError{Field: "description", Message: "is required"})
	}
	if t.DueDate.IsZero() {
		violations = append(violations, FieldError{Field: "due_date", Message: "is required"})
	}
	if !t.Priority.IsValid() {
		violations = append(
			violations,
			FieldError{Field: "priority", Message: "must be low, medium, or high"},
		)
	}
	if !t.Status.IsValid() {
		violations = append(
			violations,
			FieldError{Field: "status", Message: "must be todo, in-progress, or done"},
		)
	}

	if len(violations) > 0 {
		return NewValidationError(violations...)
	}
	return nil
}

// HasSummary reports whether a summary has been generated for the task.
func (t *Task) HasSummary() bool {
	return t.Summary != nil && *t.Summary != ""
}

// TaskPatch is an explicit allow-listed partial update for a task. Only the
// fields listed here can change through an update; the owner, ID, summary, and
// timestamps are not representable, so a patch can never touch them. A nil
// field means "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *TaskPriority
	Status      *TaskStatus
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Status == nil
}

// Validate checks the fields present in the patch, collecting every violation.
// It does not evaluate status transitions; that is the transition validator's
// job and requires the task's current status.
func (p TaskPatch) Validate() error {
	var violations []FieldError

	if p.Title != nil && *p.Title == "" {
		violations = append(violations, FieldError{Field: "title", Message: "cannot be empty"})
	}
	if p.Description != nil && *p.Description == "" {
		violations = append(
			violations,
			FieldError{Field: "description", Message: "cannot be empty"},
		)
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		violations = append(violations, FieldError{Field: "due_date", Message: "cannot be empty"})
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		violations = append(
			violations,
			FieldError{Field: "priority", Message: "must be low, medium, or high"},
		)
	}
	if p.Status != nil && !p.Status.IsValid() {
		violations = append(
			violations,
			FieldError{Field: "status", Message: "must be todo, in-progress, or done"},
		)
	}

	if len(violations) > 0 {
		return NewValidationError(violations...)
	}
	return nil
}

// Apply copies the patch's non-nil fields onto the task and refreshes
// UpdatedAt. Callers are responsible for validating the patch and the status
// transition first.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = time.Now().UTC()
}
