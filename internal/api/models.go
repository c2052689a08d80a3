package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/service"
)

// Common request/response structures

// DueDate is a request timestamp that accepts either a full RFC 3339
// timestamp or a bare YYYY-MM-DD date, the same formats the list query's
// due_date parameter takes. A bare date means the end of that day.
type DueDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := parseDueDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateTaskRequest defines the payload for task creation.
// Status is not accepted here: every new task starts at todo.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	DueDate     DueDate `json:"due_date"    validate:"required"`
	Priority    string  `json:"priority"    validate:"required,oneof=low medium high"`
}

// UpdateTaskRequest defines the payload for a partial task update. Every
// field is optional; absent fields are left untouched. A status, when
// present, is validated against the transition rules before anything is
// written.
type UpdateTaskRequest struct {
	Title       *string  `json:"title,omitempty"       validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	DueDate     *DueDate `json:"due_date,omitempty"`
	Priority    *string  `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
	Status      *string  `json:"status,omitempty"      validate:"omitempty,oneof=todo in-progress done"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateTaskRequest) ToPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.DueDate != nil {
		due := r.DueDate.Time
		patch.DueDate = &due
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		patch.Priority = &p
	}
	if r.Status != nil {
		s := domain.TaskStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

// UpdateTaskStatusRequest defines the payload for the dedicated
// status-change endpoint.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in-progress done"`
}

// TaskResponse is the wire representation of a single task.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	Summary     *string   `json:"summary,omitempty"`
	HasSummary  bool      `json:"has_summary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskResponse converts a domain task to its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		Summary:     task.Summary,
		HasSummary:  task.HasSummary(),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ListTasksResponse is one page of tasks plus the pagination metadata a
// client needs to page through the rest.
type ListTasksResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	TotalCount  int64          `json:"total_count"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// NewListTasksResponse converts a service page to its wire representation.
func NewListTasksResponse(page *service.TaskPage) ListTasksResponse {
	tasks := make([]TaskResponse, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		tasks = append(tasks, NewTaskResponse(task))
	}
	return ListTasksResponse{
		Tasks:       tasks,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
}

// SummaryResponse is the result of a summarization request.
type SummaryResponse struct {
	TaskID  uuid.UUID `json:"task_id"`
	Summary string    `json:"summary"`
}

// MessageResponse is a plain confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
