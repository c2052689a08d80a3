package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/riya23dhim/task-management-ai/internal/domain"
)

// Pagination defaults and bounds for task listing.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TaskFilter narrows a task listing. Filters are conjunctive: each present
// field further restricts the result set, and a nil field is a no-op.
type TaskFilter struct {
	// Priority, when set, matches tasks with exactly this priority.
	Priority *domain.TaskPriority

	// DueOnOrBefore, when set, matches tasks whose due date is less than or
	// equal to this instant (inclusive).
	DueOnOrBefore *time.Time
}

// PageRequest identifies one page of a filtered result set.
// Page numbers are 1-indexed.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize returns a copy of the request with defaults applied and the page
// size clamped to MaxPageSize.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages computes ceil(totalCount / pageSize) so callers can render
// pagination without a second query.
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}

// TaskStore defines the interface for task data persistence. Every operation
// is scoped by owner ID: no call may return or mutate a task belonging to a
// different owner, and such a task is reported as ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, scoped to the given owner.
	// Returns ErrTaskNotFound if the task does not exist or is owned by
	// someone else.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// List retrieves the owner's tasks matching the filter, ordered by due
	// date ascending with ties broken by ID ascending, sliced to the given
	// page. It returns the page of tasks plus the total matching count. A
	// page beyond the last valid page yields an empty slice, not an error.
	List(
		ctx context.Context,
		ownerID uuid.UUID,
		filter TaskFilter,
		page PageRequest,
	) ([]*domain.Task, int64, error)

	// Update applies the patch to an existing task in a single atomic write
	// and refreshes updated_at. Returns the updated task, or ErrTaskNotFound
	// if the task does not exist or is owned by someone else.
	Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// UpdateSummary sets the task's summary, touching no other field except
	// updated_at. Returns ErrTaskNotFound if the task does not exist or is
	// owned by someone else.
	UpdateSummary(ctx context.Context, id, ownerID uuid.UUID, summary string) (*domain.Task, error)

	// Delete removes the task permanently. Returns ErrTaskNotFound if the
	// task does not exist or is owned by someone else.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TaskStore
}
