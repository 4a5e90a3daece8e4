package constants

// Context keys
const (
	ContextKeyUser        = "user"
	ContextKeyPermissions = "permissions"
)

// Validation limits
const (
	MinPasswordLength = 6
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Public identifier prefixes and their sequence names
const (
	UserIDPrefix = "USR"
	TaskIDPrefix = "TK"

	SequenceUsers = "users"
	SequenceTasks = "tasks"
)

// Permission codes
const (
	PermTaskCreate = "task.create"
	PermTaskView   = "task.view"
	PermTaskUpdate = "task.update"
	PermTaskDelete = "task.delete"
	PermTaskAdmin  = "task.admin"
)

// Built-in role names
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)
