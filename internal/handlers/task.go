package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskmesh/task-manager-api/internal/dto"
	apierrors "github.com/taskmesh/task-manager-api/internal/errors"
	"github.com/taskmesh/task-manager-api/internal/middleware"
	"github.com/taskmesh/task-manager-api/internal/services"
	"github.com/taskmesh/task-manager-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user, filtered and
// paginated. Non-admins only ever see tasks they own.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Search:        c.Query("search"),
		AssignedEmail: c.Query("assigned_user"),
		Page:          params.Page,
		Limit:         params.Limit,
	}

	// Only the literal strings "true"/"false" activate the filter
	switch c.Query("is_completed") {
	case "true":
		v := true
		input.IsCompleted = &v
	case "false":
		v := false
		input.IsCompleted = &v
	}

	if raw := c.Query("created_after"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid created_after")
			return
		}
		input.CreatedAfter = &t
	}
	if raw := c.Query("created_before"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid created_before")
			return
		}
		input.CreatedBefore = &t
	}

	tasks, total, err := h.taskService.ListTasks(user, input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// CreateTask creates a new task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title         string   `json:"title" binding:"required"`
		Description   string   `json:"description"`
		IsCompleted   bool     `json:"is_completed"`
		AssignedUsers []string `json:"assigned_users"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(user, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		IsCompleted:    req.IsCompleted,
		AssignedEmails: req.AssignedUsers,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a specific task by public identifier
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.GetTask(user, c.Param("task_id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask partially updates a task; only supplied fields change
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Title         *string   `json:"title"`
		Description   *string   `json:"description"`
		IsCompleted   *bool     `json:"is_completed"`
		AssignedUsers *[]string `json:"assigned_users"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(user, c.Param("task_id"), services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		IsCompleted:    req.IsCompleted,
		AssignedEmails: req.AssignedUsers,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask soft deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(user, c.Param("task_id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RestoreTask clears a task's deletion mark (admin-only route)
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	task, err := h.taskService.RestoreTask(c.Param("task_id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrUnknownAssignee):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// parseDateTime accepts either a date or an RFC 3339 datetime
func parseDateTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
