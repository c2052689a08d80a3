package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/service"
	"github.com/riya23dhim/task-management-ai/internal/store"
)

// MockTaskService implements service.TaskService for handler tests. Each
// operation delegates to the corresponding Fn field; unset operations return
// store.ErrTaskNotFound so a misconfigured test fails loudly instead of
// silently succeeding.
type MockTaskService struct {
	CreateTaskFn    func(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*domain.Task, error)
	GetTaskFn       func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)
	ListTasksFn     func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter, page store.PageRequest) (*service.TaskPage, error)
	UpdateTaskFn    func(ctx context.Context, id, ownerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	ChangeStatusFn  func(ctx context.Context, id, ownerID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	DeleteTaskFn    func(ctx context.Context, id, ownerID uuid.UUID) error
	SummarizeTaskFn func(ctx context.Context, id, ownerID uuid.UUID) (*service.SummaryResult, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements the service.TaskService interface
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, ownerID, input)
	}
	return nil, store.ErrTaskNotFound
}

// GetTask implements the service.TaskService interface
func (m *MockTaskService) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id, ownerID)
	}
	return nil, store.ErrTaskNotFound
}

// ListTasks implements the service.TaskService interface
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
	page store.PageRequest,
) (*service.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, ownerID, filter, page)
	}
	return nil, store.ErrTaskNotFound
}

// UpdateTask implements the service.TaskService interface
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, ownerID, patch)
	}
	return nil, store.ErrTaskNotFound
}

// ChangeStatus implements the service.TaskService interface
func (m *MockTaskService) ChangeStatus(
	ctx context.Context,
	id, ownerID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if m.ChangeStatusFn != nil {
		return m.ChangeStatusFn(ctx, id, ownerID, status)
	}
	return nil, store.ErrTaskNotFound
}

// DeleteTask implements the service.TaskService interface
func (m *MockTaskService) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id, ownerID)
	}
	return store.ErrTaskNotFound
}

// SummarizeTask implements the service.TaskService interface
func (m *MockTaskService) SummarizeTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*service.SummaryResult, error) {
	if m.SummarizeTaskFn != nil {
		return m.SummarizeTaskFn(ctx, id, ownerID)
	}
	return nil, store.ErrTaskNotFound
}
