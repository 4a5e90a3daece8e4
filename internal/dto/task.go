package dto

import (
	"time"

	"github.com/taskmesh/task-manager-api/internal/models"
)

// TaskDTO represents a task in API responses. Assigned users and the owner
// are rendered as emails.
type TaskDTO struct {
	TaskID        string    `json:"task_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	IsCompleted   bool      `json:"is_completed"`
	AssignedUsers []string  `json:"assigned_users"`
	Owner         string    `json:"owner"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
	Total   int64     `json:"total"`
	Results []TaskDTO `json:"results"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		TaskID:        task.TaskID,
		Title:         task.Title,
		Description:   task.Description,
		IsCompleted:   task.IsCompleted,
		AssignedUsers: make([]string, 0, len(task.AssignedUsers)),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	for _, user := range task.AssignedUsers {
		dto.AssignedUsers = append(dto.AssignedUsers, user.Email)
	}

	// Legacy tasks may have no owner
	if task.Owner != nil {
		dto.Owner = task.Owner.Email
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, limit int, total int64) TaskListResponse {
	results := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		results[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Results: results,
	}
}
