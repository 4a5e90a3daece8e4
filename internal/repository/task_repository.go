package repository

import (
	"fmt"
	"strings"

	"github.com/taskmesh/task-manager-api/internal/constants"
	"github.com/taskmesh/task-manager-api/internal/database"
	"github.com/taskmesh/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task and its assignees, allocating its TK<n>
// identifier inside the same transaction.
func (r *GormTaskRepository) Create(task *models.Task, assignees []models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		n, err := nextSequence(tx, constants.SequenceTasks, func(tx *gorm.DB) (uint64, error) {
			return maxNumericSuffix(tx, "tasks", "task_id", constants.TaskIDPrefix)
		})
		if err != nil {
			return err
		}

		task.TaskID = fmt.Sprintf("%s%d", constants.TaskIDPrefix, n)
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		if len(assignees) > 0 {
			if err := tx.Model(task).Association("AssignedUsers").Append(&assignees); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByTaskID finds a live task by public identifier. A non-nil ownerID
// narrows the lookup to tasks owned by that user, so foreign-owned tasks are
// indistinguishable from absent ones.
func (r *GormTaskRepository) FindByTaskID(taskID string, ownerID *uint64) (*models.Task, error) {
	query := r.db.Where("task_id = ?", taskID)
	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var task models.Task
	if err := query.Preload("Owner").Preload("AssignedUsers").First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves live tasks with filtering and pagination. The assignee
// filter uses an EXISTS subquery so a task with several matching assignees
// still appears once.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if filter.OwnerID != nil {
		query = query.Where("tasks.owner_id = ?", *filter.OwnerID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}
	if filter.IsCompleted != nil {
		query = query.Where("tasks.is_completed = ?", *filter.IsCompleted)
	}
	if filter.AssignedEmail != "" {
		assignmentSubQuery := r.db.Table("task_assignments").
			Select("1").
			Joins("JOIN users ON users.id = task_assignments.user_id").
			Where("task_assignments.task_id = tasks.id").
			Where("users.email = ?", filter.AssignedEmail).
			Where("users.deleted_at IS NULL")
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("tasks.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("tasks.created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := query.
		Order("tasks.created_at DESC, tasks.id DESC").
		Scopes(database.Paginate(filter.Page, filter.Limit)).
		Preload("Owner").
		Preload("AssignedUsers").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves task column changes without touching associations
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// ReplaceAssignees replaces the task's assigned user set
func (r *GormTaskRepository) ReplaceAssignees(task *models.Task, assignees []models.User) error {
	if err := r.db.Model(task).Association("AssignedUsers").Replace(&assignees); err != nil {
		return err
	}
	task.AssignedUsers = assignees
	return nil
}

// Delete soft deletes a task. Deleting an already-deleted task is a no-op.
func (r *GormTaskRepository) Delete(task *models.Task) error {
	return r.db.Delete(task).Error
}

// Restore clears the deletion mark through the unrestricted view and
// returns the live task. Restoring a live task is a no-op.
func (r *GormTaskRepository) Restore(taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Unscoped().Where("task_id = ?", taskID).First(&task).Error; err != nil {
		return nil, err
	}

	if task.DeletedAt.Valid {
		err := r.db.Unscoped().
			Model(&models.Task{}).
			Where("task_id = ?", taskID).
			Update("deleted_at", nil).Error
		if err != nil {
			return nil, err
		}
	}

	return r.FindByTaskID(taskID, nil)
}
