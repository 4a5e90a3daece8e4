package repository

import (
	"time"

	"github.com/taskmesh/task-manager-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create persists a new user, allocating its USR<n> identifier
	Create(user *models.User) error

	// FindByID finds a live user by primary key
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a live user by email
	FindByEmail(email string) (*models.User, error)

	// FindByEmails finds live users for a set of emails
	FindByEmails(emails []string) ([]models.User, error)

	// EmailExists reports whether any user, including soft-deleted ones,
	// holds the given email
	EmailExists(email string) (bool, error)

	// UpdateSessionToken replaces the user's current session identifier
	UpdateSessionToken(userID uint64, sessionToken string) error
}

// RoleRepository defines the interface for role and permission data access
type RoleRepository interface {
	// FindByName finds a live role by name
	FindByName(name string) (*models.Role, error)

	// AssignRole grants a role to a user; assigning an already-held role
	// is a no-op
	AssignRole(userID, roleID uint64) error

	// RoleIDsForUser returns the live role assignments of a user
	RoleIDsForUser(userID uint64) ([]uint64, error)

	// PermissionCodesForRoles returns the live permission codes attached
	// to any of the given roles
	PermissionCodesForRoles(roleIDs []uint64) ([]string, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task and its assignees, allocating its TK<n>
	// identifier
	Create(task *models.Task, assignees []models.User) error

	// FindByTaskID finds a live task by public identifier, optionally
	// restricted to an owner
	FindByTaskID(taskID string, ownerID *uint64) (*models.Task, error)

	// List retrieves live tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves task column changes
	Update(task *models.Task) error

	// ReplaceAssignees replaces the task's assigned user set
	ReplaceAssignees(task *models.Task, assignees []models.User) error

	// Delete soft deletes a task; deleting an already-deleted task is a
	// no-op
	Delete(task *models.Task) error

	// Restore clears the deletion mark and returns the live task
	Restore(taskID string) (*models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. All filters compound
// with AND semantics.
type TaskFilter struct {
	OwnerID       *uint64
	Search        string
	IsCompleted   *bool
	AssignedEmail string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          int
	Limit         int
}
