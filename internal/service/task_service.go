package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/platform/logger"
	"github.com/riya23dhim/task-management-ai/internal/store"
	"github.com/riya23dhim/task-management-ai/internal/summarize"
)

// defaultSummarizeTimeout bounds a summarization call when no explicit
// timeout is configured.
const defaultSummarizeTimeout = 30 * time.Second

// CreateTaskInput carries the caller-supplied fields for task creation.
// Status is deliberately absent: a new task always starts at todo.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    domain.TaskPriority
}

// TaskPage is one page of a filtered task listing, together with the counts a
// caller needs to render pagination without a second query.
type TaskPage struct {
	Tasks       []*domain.Task
	TotalCount  int64
	TotalPages  int
	CurrentPage int
}

// SummaryResult is the outcome of a successful summarization.
type SummaryResult struct {
	TaskID  uuid.UUID
	Summary string
}

// TaskService provides task lifecycle, query, and summarization operations.
// Every operation takes the authenticated owner's ID and is scoped to it: a
// task owned by anyone else behaves exactly like a task that does not exist.
type TaskService interface {
	// CreateTask validates the input and persists a new task with status
	// todo regardless of anything the transport layer may have accepted.
	CreateTask(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves a single task.
	// Returns store.ErrTaskNotFound if absent or owned by someone else.
	GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListTasks returns one page of the owner's tasks matching the filter,
	// ordered by (due date, id) ascending. A page past the end of the result
	// set yields an empty page, not an error.
	ListTasks(
		ctx context.Context,
		ownerID uuid.UUID,
		filter store.TaskFilter,
		page store.PageRequest,
	) (*TaskPage, error)

	// UpdateTask applies a partial update. If the patch carries a status it
	// is checked against the transition state machine first; a requested
	// status equal to the current one is an idempotent no-op.
	UpdateTask(
		ctx context.Context,
		id, ownerID uuid.UUID,
		patch domain.TaskPatch,
	) (*domain.Task, error)

	// ChangeStatus is the dedicated status-change operation. It enforces the
	// same state machine as UpdateTask; there is no path that can change a
	// status without passing the transition validator.
	ChangeStatus(
		ctx context.Context,
		id, ownerID uuid.UUID,
		status domain.TaskStatus,
	) (*domain.Task, error)

	// DeleteTask removes the task permanently.
	DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error

	// SummarizeTask asks the external capability for a one-sentence summary
	// of the task's description and persists it exactly once on success. On
	// any failure, including timeout, nothing is written and the task's
	// prior summary (set or unset) survives unchanged. A repeated call
	// overwrites the previous summary.
	SummarizeTask(ctx context.Context, id, ownerID uuid.UUID) (*SummaryResult, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db               *sql.DB
	taskStore        store.TaskStore
	summarizer       summarize.Summarizer
	summarizeTimeout time.Duration
	logger           *slog.Logger
}

// Ensure taskServiceImpl implements TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	summarizer summarize.Summarizer,
	summarizeTimeout time.Duration,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, NewTaskServiceError("init", "db cannot be nil", nil)
	}
	if taskStore == nil {
		return nil, NewTaskServiceError("init", "taskStore cannot be nil", nil)
	}
	if summarizer == nil {
		return nil, NewTaskServiceError("init", "summarizer cannot be nil", nil)
	}
	if summarizeTimeout <= 0 {
		summarizeTimeout = defaultSummarizeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:               db,
		taskStore:        taskStore,
		summarizer:       summarizer,
		summarizeTimeout: summarizeTimeout,
		logger:           logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, input.Title, input.Description, input.DueDate, input.Priority)
	if err != nil {
		log.Debug("task creation rejected by validation",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, id, ownerID)
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	page store.PageRequest,
) (*TaskPage, error) {
	// An invalid priority filter is a caller mistake; silently matching
	// nothing would hide it.
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "priority",
			Message: "must be low, medium, or high",
		})
	}

	page = page.Normalize()

	tasks, total, err := s.taskStore.List(ctx, ownerID, filter, page)
	if err != nil {
		return nil, err
	}

	return &TaskPage{
		Tasks:       tasks,
		TotalCount:  total,
		TotalPages:  store.TotalPages(total, page.PageSize),
		CurrentPage: page.Page,
	}, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	// The current status is read and the patch written in one transaction so
	// the transition check can never race a concurrent status change.
	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		// Resolve the current task first: it establishes existence/ownership
		// and supplies the current status for the transition check.
		current, err := txStore.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if patch.Status != nil {
			if *patch.Status == current.Status {
				// Idempotent no-op; drop the status from the patch.
				patch.Status = nil
			} else if !domain.CanTransitionTo(current.Status, *patch.Status) {
				log.Debug("rejected status transition",
					slog.String("task_id", id.String()),
					slog.String("from", string(current.Status)),
					slog.String("to", string(*patch.Status)))
				return domain.NewInvalidTransitionError(current.Status, *patch.Status)
			}
		}

		if patch.IsZero() {
			updated = current
			return nil
		}

		updated, err = txStore.Update(ctx, id, ownerID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ChangeStatus implements TaskService.ChangeStatus
func (s *taskServiceImpl) ChangeStatus(
	ctx context.Context,
	id, ownerID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "status",
			Message: "must be todo, in-progress, or done",
		})
	}

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		current, err := txStore.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}

		if status == current.Status {
			// Idempotent no-op success.
			updated = current
			return nil
		}

		if !domain.CanTransitionTo(current.Status, status) {
			log.Debug("rejected status transition",
				slog.String("task_id", id.String()),
				slog.String("from", string(current.Status)),
				slog.String("to", string(status)))
			return domain.NewInvalidTransitionError(current.Status, status)
		}

		updated, err = txStore.Update(ctx, id, ownerID, domain.TaskPatch{Status: &status})
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.taskStore.Delete(ctx, id, ownerID)
}

// SummarizeTask implements TaskService.SummarizeTask
func (s *taskServiceImpl) SummarizeTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*SummaryResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskStore.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	// The summarization call is the longest-latency operation in the system;
	// bound it explicitly so a stalled upstream cannot hold the request open.
	summarizeCtx, cancel := context.WithTimeout(ctx, s.summarizeTimeout)
	defer cancel()

	start := time.Now()
	summary, err := s.summarizer.Summarize(summarizeCtx, task.Description)
	if err != nil {
		log.Warn("summarization failed",
			slog.String("task_id", id.String()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return nil, NewSummarizationError(id, err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, NewSummarizationError(id, summarize.ErrInvalidResponse)
	}

	// The summary is written only after the capability has fully succeeded,
	// so a failure can never leave partial state behind.
	if _, err := s.taskStore.UpdateSummary(ctx, id, ownerID, summary); err != nil {
		return nil, err
	}

	log.Info("task summarized",
		slog.String("task_id", id.String()),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("summary_length", len(summary)))

	return &SummaryResult{TaskID: task.ID, Summary: summary}, nil
}
