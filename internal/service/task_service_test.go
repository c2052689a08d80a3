package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/service"
	"github.com/riya23dhim/task-management-ai/internal/store"
	"github.com/riya23dhim/task-management-ai/internal/summarize"
)

// mockTaskStore is a testify mock of store.TaskStore.
type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	page store.PageRequest,
) ([]*domain.Task, int64, error) {
	args := m.Called(ctx, ownerID, filter, page)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockTaskStore) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID, patch)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) UpdateSummary(
	ctx context.Context,
	id, ownerID uuid.UUID,
	summary string,
) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID, summary)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// fakeSummarizer returns a canned result or error, optionally after blocking
// until the context is cancelled.
type fakeSummarizer struct {
	summary       string
	err           error
	blockUntilCtx bool
	calls         int
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.calls++
	if f.blockUntilCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.summary, f.err
}

func newTestTask(t *testing.T, ownerID uuid.UUID, status domain.TaskStatus) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(
		ownerID,
		"Write quarterly report",
		"Compile metrics from all three teams and draft the quarterly report for leadership review.",
		time.Now().Add(72*time.Hour),
		domain.TaskPriorityHigh,
	)
	require.NoError(t, err)
	task.Status = status
	return task
}

// newTestService builds a service over a sqlmock database so the
// transactional paths can assert their begin/commit/rollback behavior.
func newTestService(
	t *testing.T,
	taskStore store.TaskStore,
	summarizer summarize.Summarizer,
	timeout time.Duration,
) (service.TaskService, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := service.NewTaskService(db, taskStore, summarizer, timeout, nil)
	require.NoError(t, err)
	return svc, dbMock
}

func TestNewTaskService_Validation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	taskStore := new(mockTaskStore)
	summarizer := &fakeSummarizer{}

	_, err = service.NewTaskService(nil, taskStore, summarizer, time.Second, nil)
	assert.Error(t, err, "nil database should be rejected")

	_, err = service.NewTaskService(db, nil, summarizer, time.Second, nil)
	assert.Error(t, err, "nil task store should be rejected")

	_, err = service.NewTaskService(db, taskStore, nil, time.Second, nil)
	assert.Error(t, err, "nil summarizer should be rejected")

	_, err = service.NewTaskService(db, taskStore, summarizer, 0, nil)
	assert.NoError(t, err, "zero timeout should fall back to the default")
}

func TestCreateTask(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ownerID := uuid.New()
	dueDate := time.Now().Add(48 * time.Hour)

	t.Run("new task always starts at todo", func(t *testing.T) {
		t.Parallel()

		taskStore := new(mockTaskStore)
		taskStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		task, err := svc.CreateTask(context.Background(), ownerID, service.CreateTaskInput{
			Title:       "Prepare demo",
			Description: "Prepare the feature demo for the Tuesday sync.",
			DueDate:     dueDate,
			Priority:    domain.TaskPriorityMedium,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusTodo, task.Status)
		assert.Equal(t, ownerID, task.OwnerID)
		taskStore.AssertExpectations(t)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		t.Parallel()

		taskStore := new(mockTaskStore)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		_, err := svc.CreateTask(context.Background(), ownerID, service.CreateTaskInput{
			Title:    "",
			DueDate:  dueDate,
			Priority: "urgent",
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))

		var validationErr *domain.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.GreaterOrEqual(t, len(validationErr.Violations), 2,
			"all violations should be reported together")
		taskStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestChangeStatus(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ownerID := uuid.New()

	t.Run("in-progress to done succeeds", func(t *testing.T) {
		t.Parallel()

		current := newTestTask(t, ownerID, domain.TaskStatusInProgress)
		updated := *current
		updated.Status = domain.TaskStatusDone

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, current.ID, ownerID).Return(current, nil)
		taskStore.On("Update", mock.Anything, current.ID, ownerID,
			mock.MatchedBy(func(p domain.TaskPatch) bool {
				return p.Status != nil && *p.Status == domain.TaskStatusDone &&
					p.Title == nil && p.Description == nil && p.DueDate == nil && p.Priority == nil
			})).Return(&updated, nil)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		task, err := svc.ChangeStatus(context.Background(), current.ID, ownerID, domain.TaskStatusDone)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
		taskStore.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("todo to done is rejected with allowed transitions", func(t *testing.T) {
		t.Parallel()

		current := newTestTask(t, ownerID, domain.TaskStatusTodo)

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, current.ID, ownerID).Return(current, nil)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		_, err := svc.ChangeStatus(context.Background(), current.ID, ownerID, domain.TaskStatusDone)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

		var transitionErr *domain.InvalidTransitionError
		require.True(t, errors.As(err, &transitionErr))
		assert.Equal(t, domain.TaskStatusTodo, transitionErr.Current)
		assert.Equal(t, domain.TaskStatusDone, transitionErr.Requested)
		assert.Equal(t, []domain.TaskStatus{domain.TaskStatusInProgress}, transitionErr.Allowed)
		taskStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet(), "rejected transition should roll back")
	})

	t.Run("same status is an idempotent no-op", func(t *testing.T) {
		t.Parallel()

		current := newTestTask(t, ownerID, domain.TaskStatusDone)

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, current.ID, ownerID).Return(current, nil)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		task, err := svc.ChangeStatus(context.Background(), current.ID, ownerID, domain.TaskStatusDone)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
		taskStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		t.Parallel()

		taskStore := new(mockTaskStore)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		_, err := svc.ChangeStatus(context.Background(), uuid.New(), ownerID, "archived")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation))
		taskStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("someone else's task looks absent", func(t *testing.T) {
		t.Parallel()

		taskID := uuid.New()

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, taskID, ownerID).Return(nil, store.ErrTaskNotFound)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		_, err := svc.ChangeStatus(context.Background(), taskID, ownerID, domain.TaskStatusInProgress)

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ownerID := uuid.New()

	t.Run("status in a patch goes through the same state machine", func(t *testing.T) {
		t.Parallel()

		current := newTestTask(t, ownerID, domain.TaskStatusDone)
		requested := domain.TaskStatusTodo

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, current.ID, ownerID).Return(current, nil)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()

		_, err := svc.UpdateTask(context.Background(), current.ID, ownerID, domain.TaskPatch{
			Status: &requested,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		taskStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet(), "rejected transition should roll back")
	})

	t.Run("patch with current status drops the status field", func(t *testing.T) {
		t.Parallel()

		current := newTestTask(t, ownerID, domain.TaskStatusInProgress)
		sameStatus := domain.TaskStatusInProgress
		newTitle := "Write quarterly report (final)"
		updated := *current
		updated.Title = newTitle

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, current.ID, ownerID).Return(current, nil)
		taskStore.On("Update", mock.Anything, current.ID, ownerID,
			mock.MatchedBy(func(p domain.TaskPatch) bool {
				return p.Status == nil && p.Title != nil && *p.Title == newTitle
			})).Return(&updated, nil)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		task, err := svc.UpdateTask(context.Background(), current.ID, ownerID, domain.TaskPatch{
			Title:  &newTitle,
			Status: &sameStatus,
		})

		require.NoError(t, err)
		assert.Equal(t, newTitle, task.Title)
		taskStore.AssertExpectations(t)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("empty patch returns the task unchanged", func(t *testing.T) {
		t.Parallel()

		current := newTestTask(t, ownerID, domain.TaskStatusTodo)

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, current.ID, ownerID).Return(current, nil)
		svc, dbMock := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		task, err := svc.UpdateTask(context.Background(), current.ID, ownerID, domain.TaskPatch{})

		require.NoError(t, err)
		assert.Equal(t, current, task)
		taskStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("invalid patch never reaches the store", func(t *testing.T) {
		t.Parallel()

		badTitle := ""

		taskStore := new(mockTaskStore)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		_, err := svc.UpdateTask(context.Background(), uuid.New(), ownerID, domain.TaskPatch{
			Title: &badTitle,
		})

		assert.ErrorIs(t, err, domain.ErrValidation)
		taskStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListTasks(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ownerID := uuid.New()

	t.Run("computes pagination metadata", func(t *testing.T) {
		t.Parallel()

		tasks := []*domain.Task{
			newTestTask(t, ownerID, domain.TaskStatusTodo),
			newTestTask(t, ownerID, domain.TaskStatusTodo),
		}

		taskStore := new(mockTaskStore)
		taskStore.On("List", mock.Anything, ownerID, store.TaskFilter{},
			store.PageRequest{Page: 3, PageSize: 10}).Return(tasks, int64(23), nil)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		page, err := svc.ListTasks(context.Background(), ownerID, store.TaskFilter{},
			store.PageRequest{Page: 3, PageSize: 10})

		require.NoError(t, err)
		assert.Len(t, page.Tasks, 2)
		assert.Equal(t, int64(23), page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 3, page.CurrentPage)
		taskStore.AssertExpectations(t)
	})

	t.Run("defaults are applied to an unset page request", func(t *testing.T) {
		t.Parallel()

		taskStore := new(mockTaskStore)
		taskStore.On("List", mock.Anything, ownerID, store.TaskFilter{},
			store.PageRequest{Page: store.DefaultPage, PageSize: store.DefaultPageSize}).
			Return([]*domain.Task{}, int64(0), nil)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		page, err := svc.ListTasks(context.Background(), ownerID, store.TaskFilter{}, store.PageRequest{})

		require.NoError(t, err)
		assert.Empty(t, page.Tasks)
		assert.Equal(t, 0, page.TotalPages)
		assert.Equal(t, store.DefaultPage, page.CurrentPage)
		taskStore.AssertExpectations(t)
	})

	t.Run("invalid priority filter is a validation error", func(t *testing.T) {
		t.Parallel()

		bogus := domain.TaskPriority("urgent")

		taskStore := new(mockTaskStore)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

		_, err := svc.ListTasks(context.Background(), ownerID,
			store.TaskFilter{Priority: &bogus}, store.PageRequest{})

		assert.ErrorIs(t, err, domain.ErrValidation)
		taskStore.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSummarizeTask(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ownerID := uuid.New()

	t.Run("success persists the summary exactly once", func(t *testing.T) {
		t.Parallel()

		task := newTestTask(t, ownerID, domain.TaskStatusTodo)
		summary := "Compile team metrics into a leadership-ready quarterly report."
		updated := *task
		updated.Summary = &summary

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, task.ID, ownerID).Return(task, nil)
		taskStore.On("UpdateSummary", mock.Anything, task.ID, ownerID, summary).
			Return(&updated, nil).Once()
		summarizer := &fakeSummarizer{summary: "  " + summary + "\n"}
		svc, _ := newTestService(t, taskStore, summarizer, time.Second)

		result, err := svc.SummarizeTask(context.Background(), task.ID, ownerID)

		require.NoError(t, err)
		assert.Equal(t, task.ID, result.TaskID)
		assert.Equal(t, summary, result.Summary, "summary should be trimmed before persisting")
		assert.Equal(t, 1, summarizer.calls)
		taskStore.AssertExpectations(t)
	})

	t.Run("failure writes nothing", func(t *testing.T) {
		t.Parallel()

		task := newTestTask(t, ownerID, domain.TaskStatusTodo)
		upstreamErr := errors.New("model unavailable")

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, task.ID, ownerID).Return(task, nil)
		summarizer := &fakeSummarizer{err: upstreamErr}
		svc, _ := newTestService(t, taskStore, summarizer, time.Second)

		_, err := svc.SummarizeTask(context.Background(), task.ID, ownerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrSummarizationFailed)
		assert.ErrorIs(t, err, upstreamErr)

		var summErr *service.SummarizationError
		require.True(t, errors.As(err, &summErr))
		assert.Equal(t, task.ID, summErr.TaskID)
		taskStore.AssertNotCalled(t, "UpdateSummary",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("slow summarizer is cut off at the timeout", func(t *testing.T) {
		t.Parallel()

		task := newTestTask(t, ownerID, domain.TaskStatusTodo)

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, task.ID, ownerID).Return(task, nil)
		summarizer := &fakeSummarizer{blockUntilCtx: true}
		svc, _ := newTestService(t, taskStore, summarizer, 20*time.Millisecond)

		start := time.Now()
		_, err := svc.SummarizeTask(context.Background(), task.ID, ownerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrSummarizationFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
		taskStore.AssertNotCalled(t, "UpdateSummary",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("whitespace-only response is a failure", func(t *testing.T) {
		t.Parallel()

		task := newTestTask(t, ownerID, domain.TaskStatusTodo)

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, task.ID, ownerID).Return(task, nil)
		svc, _ := newTestService(t, taskStore, &fakeSummarizer{summary: "   \n"}, time.Second)

		_, err := svc.SummarizeTask(context.Background(), task.ID, ownerID)

		require.Error(t, err)
		assert.ErrorIs(t, err, service.ErrSummarizationFailed)
		assert.ErrorIs(t, err, summarize.ErrInvalidResponse)
		taskStore.AssertNotCalled(t, "UpdateSummary",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing task never calls the summarizer", func(t *testing.T) {
		t.Parallel()

		taskID := uuid.New()

		taskStore := new(mockTaskStore)
		taskStore.On("GetByID", mock.Anything, taskID, ownerID).Return(nil, store.ErrTaskNotFound)
		summarizer := &fakeSummarizer{summary: "should not be used"}
		svc, _ := newTestService(t, taskStore, summarizer, time.Second)

		_, err := svc.SummarizeTask(context.Background(), taskID, ownerID)

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.Zero(t, summarizer.calls)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ownerID := uuid.New()
	taskID := uuid.New()

	taskStore := new(mockTaskStore)
	taskStore.On("Delete", mock.Anything, taskID, ownerID).Return(store.ErrTaskNotFound)
	svc, _ := newTestService(t, taskStore, &fakeSummarizer{}, time.Second)

	err := svc.DeleteTask(context.Background(), taskID, ownerID)

	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	taskStore.AssertExpectations(t)
}
