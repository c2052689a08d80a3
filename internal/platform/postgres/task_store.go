package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/platform/logger"
	"github.com/riya23dhim/task-management-ai/internal/store"
)

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "id, owner_id, title, description, due_date, priority, status, summary, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new TaskStore instance that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner ID doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, due_date, priority, status, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Summary,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return store.NewStoreError("task", "create", "failed to execute insert", err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID, scoped to the given owner.
// Returns store.ErrTaskNotFound if the task does not exist or is owned by
// a different user; the two cases are deliberately indistinguishable.
func (s *PostgresTaskStore) GetByID(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID",
		slog.String("task_id", id.String()),
		slog.String("owner_id", ownerID.String()))

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`, taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get", "failed to query row", err)
	}

	return task, nil
}

// List implements store.TaskStore.List
// It retrieves the owner's tasks matching the filter, ordered by
// (due_date, id) ascending for deterministic pagination, and returns the
// requested page together with the total matching count.
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	page store.PageRequest,
) ([]*domain.Task, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	where, args := buildTaskListWhere(ownerID, filter)

	log.Debug("listing tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int("page", page.Page),
		slog.Int("page_size", page.PageSize))

	countQuery := "SELECT COUNT(*) FROM tasks WHERE " + where

	var total int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, 0, store.NewStoreError("task", "list", "failed to count rows", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY due_date ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, taskColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.PageSize, page.Offset())

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, 0, store.NewStoreError("task", "list", "failed to query rows", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, 0, store.NewStoreError("task", "list", "failed to scan row", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "failed while iterating rows", err)
	}

	log.Debug("listed tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(tasks)),
		slog.Int64("total", total))
	return tasks, total, nil
}

// Update implements store.TaskStore.Update
// It applies the patch in a single UPDATE statement so a concurrent write can
// never observe a partially patched row, and refreshes updated_at.
// Returns store.ErrTaskNotFound if the task does not exist or is owned by
// a different user.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		log.Warn("task patch validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	if patch.IsZero() {
		return s.GetByID(ctx, id, ownerID)
	}

	setClause, args := buildTaskPatchSet(patch)
	args = append(args, id, ownerID)

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE id = $%d AND owner_id = $%d
		RETURNING %s
	`, setClause, len(args)-1, len(args), taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update",
				slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "update", "failed to apply patch", err)
	}

	log.Info("task updated successfully",
		slog.String("task_id", id.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// UpdateSummary implements store.TaskStore.UpdateSummary
// It persists the generated summary onto the task, touching no other field
// except updated_at.
func (s *PostgresTaskStore) UpdateSummary(
	ctx context.Context,
	id, ownerID uuid.UUID,
	summary string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		UPDATE tasks
		SET summary = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING %s
	`, taskColumns)

	task, err := scanTask(
		s.db.QueryRowContext(ctx, query, summary, time.Now().UTC(), id, ownerID),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for summary update",
				slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task summary",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "update summary", "failed to write summary", err)
	}

	log.Info("task summary updated successfully",
		slog.String("task_id", id.String()),
		slog.Int("summary_length", len(summary)))
	return task, nil
}

// Delete implements store.TaskStore.Delete
// Deletion is terminal and irreversible.
// Returns store.ErrTaskNotFound if the task does not exist or is owned by
// a different user.
func (s *PostgresTaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "failed to execute delete", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "failed to read rows affected", err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete",
			slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully",
		slog.String("task_id", id.String()))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var priority, status string
	var summary sql.NullString

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&priority,
		&status,
		&summary,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)
	if summary.Valid {
		task.Summary = &summary.String
	}

	return &task, nil
}

// buildTaskListWhere builds the conjunctive WHERE clause for a task listing.
// Owner scoping is always the first condition; each present filter narrows
// the set further. Returns the clause and its ordered arguments.
func buildTaskListWhere(ownerID uuid.UUID, filter store.TaskFilter) (string, []any) {
	conditions := []string{"owner_id = $1"}
	args := []any{ownerID}

	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}

	if filter.DueOnOrBefore != nil {
		args = append(args, *filter.DueOnOrBefore)
		// Inclusive: tasks due exactly at the boundary match.
		conditions = append(conditions, fmt.Sprintf("due_date <= $%d", len(args)))
	}

	return strings.Join(conditions, " AND "), args
}

// buildTaskPatchSet builds the SET clause for a non-empty patch. Only fields
// present in the patch appear; updated_at is always refreshed.
func buildTaskPatchSet(patch domain.TaskPatch) (string, []any) {
	var clauses []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	set("updated_at", time.Now().UTC())

	return strings.Join(clauses, ", "), args
}
