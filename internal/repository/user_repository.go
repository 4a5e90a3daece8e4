package repository

import (
	"fmt"

	"github.com/taskmesh/task-manager-api/internal/constants"
	"github.com/taskmesh/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create persists a new user, allocating its USR<n> identifier inside the
// same transaction.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		n, err := nextSequence(tx, constants.SequenceUsers, func(tx *gorm.DB) (uint64, error) {
			return maxNumericSuffix(tx, "users", "user_id", constants.UserIDPrefix)
		})
		if err != nil {
			return err
		}

		user.UserID = fmt.Sprintf("%s%d", constants.UserIDPrefix, n)
		return tx.Create(user).Error
	})
}

// FindByID finds a live user by primary key
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a live user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmails finds live users for a set of emails
func (r *GormUserRepository) FindByEmails(emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// EmailExists checks the email against every user row, soft-deleted ones
// included, so addresses of deleted accounts stay reserved.
func (r *GormUserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Unscoped().
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateSessionToken replaces the user's current session identifier.
// Concurrent logins race on this column; last write wins and every token
// stamped with an earlier value becomes invalid.
func (r *GormUserRepository) UpdateSessionToken(userID uint64, sessionToken string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("session_token", sessionToken).Error
}
