package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TaskID      string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"task_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	OwnerID     *uint64        `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner         *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	AssignedUsers []User `gorm:"many2many:task_assignments" json:"assigned_users,omitempty"`
}
