package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskmesh/task-manager-api/internal/constants"
	"github.com/taskmesh/task-manager-api/internal/models"
	"github.com/taskmesh/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrUnknownAssignee = errors.New("one or more assigned users do not exist")
)

// TaskService combines permission checks with row-level ownership scoping.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	rbac     *RBACService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, rbac *RBACService) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		rbac:     rbac,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Search        string
	IsCompleted   *bool
	AssignedEmail string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          int
	Limit         int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	IsCompleted    bool
	AssignedEmails []string
}

// UpdateTaskInput represents input for partially updating a task. Nil
// fields are left untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	IsCompleted    *bool
	AssignedEmails *[]string
}

// ListTasks returns the tasks visible to the actor. Holders of task.admin
// see every live task; everyone else sees only tasks they own.
func (s *TaskService) ListTasks(actor *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	ownerScope, err := s.ownerScope(actor)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		OwnerID:       ownerScope,
		Search:        input.Search,
		IsCompleted:   input.IsCompleted,
		AssignedEmail: input.AssignedEmail,
		CreatedAfter:  input.CreatedAfter,
		CreatedBefore: input.CreatedBefore,
		Page:          input.Page,
		Limit:         input.Limit,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// CreateTask creates a task owned by the actor
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	assignees, err := s.resolveAssignees(input.AssignedEmails)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		IsCompleted: input.IsCompleted,
		OwnerID:     &actor.ID,
	}

	if err := s.taskRepo.Create(task, assignees); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByTaskID(task.TaskID, nil)
}

// GetTask returns a task by public identifier. For actors without
// task.admin, tasks owned by someone else look exactly like missing ones.
func (s *TaskService) GetTask(actor *models.User, taskID string) (*models.Task, error) {
	return s.findScoped(actor, taskID)
}

// UpdateTask applies a partial update to a task visible to the actor.
// Every field is validated before anything is written, so a rejected
// request leaves the task untouched.
func (s *TaskService) UpdateTask(actor *models.User, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findScoped(actor, taskID)
	if err != nil {
		return nil, err
	}

	var assignees []models.User
	if input.AssignedEmails != nil {
		assignees, err = s.resolveAssignees(*input.AssignedEmails)
		if err != nil {
			return nil, err
		}
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.AssignedEmails != nil {
		if err := s.taskRepo.ReplaceAssignees(task, assignees); err != nil {
			return nil, fmt.Errorf("failed to replace assignees: %w", err)
		}
	}

	return s.taskRepo.FindByTaskID(task.TaskID, nil)
}

// DeleteTask soft deletes a task visible to the actor
func (s *TaskService) DeleteTask(actor *models.User, taskID string) error {
	task, err := s.findScoped(actor, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// RestoreTask clears a task's deletion mark. Route-level guards restrict
// this to task.admin holders, so no ownership scoping applies.
func (s *TaskService) RestoreTask(taskID string) (*models.Task, error) {
	task, err := s.taskRepo.Restore(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to restore task: %w", err)
	}
	return task, nil
}

func (s *TaskService) findScoped(actor *models.User, taskID string) (*models.Task, error) {
	ownerScope, err := s.ownerScope(actor)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByTaskID(taskID, ownerScope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ownerScope returns nil for task.admin holders (unrestricted) and the
// actor's ID otherwise.
func (s *TaskService) ownerScope(actor *models.User) (*uint64, error) {
	admin, err := s.rbac.HasPermission(actor, constants.PermTaskAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve admin scope: %w", err)
	}
	if admin {
		return nil, nil
	}
	return &actor.ID, nil
}

// resolveAssignees maps emails to live users, rejecting unknown addresses
func (s *TaskService) resolveAssignees(emails []string) ([]models.User, error) {
	unique := uniqueStrings(emails)
	if len(unique) == 0 {
		return []models.User{}, nil
	}

	users, err := s.userRepo.FindByEmails(unique)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assignees: %w", err)
	}
	if len(users) != len(unique) {
		return nil, ErrUnknownAssignee
	}
	return users, nil
}

// uniqueStrings removes duplicate values from a slice of strings
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
