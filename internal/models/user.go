package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	UserID       string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"user_id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"type:varchar(150);not null" json:"username"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string         `gorm:"type:varchar(255)" json:"full_name"`
	SessionToken string         `gorm:"type:varchar(64)" json:"-"`
	IsSuperuser  bool           `gorm:"not null;default:false" json:"-"`
	IsActive     bool           `gorm:"not null;default:true" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Roles      []UserRole `gorm:"foreignKey:UserID" json:"-"`
	OwnedTasks []Task     `gorm:"foreignKey:OwnerID" json:"-"`
}
