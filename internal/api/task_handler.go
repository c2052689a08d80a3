package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riya23dhim/task-management-ai/internal/api/shared"
	"github.com/riya23dhim/task-management-ai/internal/domain"
	"github.com/riya23dhim/task-management-ai/internal/platform/logger"
	"github.com/riya23dhim/task-management-ai/internal/service"
	"github.com/riya23dhim/task-management-ai/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.respondValidationError(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Time,
		Priority:    domain.TaskPriority(req.Priority),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// ListTasks handles GET /tasks requests. It supports filtering by priority
// and due date, and page/limit pagination.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter, page, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.taskService.ListTasks(r.Context(), userID, filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewListTasksResponse(result))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests. Fields absent from the body
// are left unchanged; a status field is subject to the transition rules.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.respondValidationError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, userID, req.ToPatch())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// UpdateTaskStatus handles PATCH /tasks/{id}/status requests.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.respondValidationError(w, r, err)
		return
	}

	task, err := h.taskService.ChangeStatus(r.Context(), taskID, userID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID, userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task deleted",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Task deleted successfully",
	})
}

// GenerateSummary handles POST /tasks/{id}/summarize requests. A failure of
// the summarization capability maps to 502 and leaves the task untouched.
func (h *TaskHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := requireUserAndTaskID(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.SummarizeTask(r.Context(), taskID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("summary generated",
		slog.String("user_id", userID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, SummaryResponse{
		TaskID:  result.TaskID,
		Summary: result.Summary,
	})
}

// respondValidationError converts validator tag failures into the structured
// violations payload.
func (h *TaskHandler) respondValidationError(w http.ResponseWriter, r *http.Request, err error) {
	HandleAPIError(w, r, validatorToDomainError(err), "")
}

// validatorToDomainError converts a validator.ValidationErrors into a domain
// ValidationError so both validation paths produce the same response shape.
func validatorToDomainError(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.NewValidationError(domain.FieldError{
			Field:   "request",
			Message: "is invalid",
		})
	}

	violations := make([]domain.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, domain.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: validationTagMessage(fe.Tag()),
		})
	}
	return domain.NewValidationError(violations...)
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "oneof":
		return "has an invalid value"
	default:
		return "is invalid"
	}
}

// parseListQuery extracts the filter and pagination parameters from a list
// request's query string.
func parseListQuery(r *http.Request) (store.TaskFilter, store.PageRequest, error) {
	var filter store.TaskFilter
	var page store.PageRequest
	q := r.URL.Query()

	if raw := q.Get("priority"); raw != "" {
		priority := domain.TaskPriority(raw)
		if !priority.IsValid() {
			return filter, page, domain.NewValidationError(domain.FieldError{
				Field:   "priority",
				Message: "must be low, medium, or high",
			})
		}
		filter.Priority = &priority
	}

	if raw := q.Get("due_date"); raw != "" {
		due, err := parseDueDate(raw)
		if err != nil {
			return filter, page, domain.NewValidationError(domain.FieldError{
				Field:   "due_date",
				Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date",
			})
		}
		filter.DueOnOrBefore = &due
	}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, page, domain.NewValidationError(domain.FieldError{
				Field:   "page",
				Message: "must be a positive integer",
			})
		}
		page.Page = n
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, page, domain.NewValidationError(domain.FieldError{
				Field:   "limit",
				Message: "must be a positive integer",
			})
		}
		page.PageSize = n
	}

	return filter, page, nil
}

// parseDueDate accepts either a full RFC 3339 timestamp or a bare date.
// A bare date means "end of that day", so tasks due on the day itself match.
func parseDueDate(raw string) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, raw); err == nil {
		return due, nil
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(24*time.Hour - time.Nanosecond), nil
}
