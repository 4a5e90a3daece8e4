package repository

import (
	"github.com/taskmesh/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByName finds a live role by name
func (r *GormRoleRepository) FindByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// AssignRole grants a role to a user. The (user, role) pair is unique;
// re-assigning an already-held role is a no-op.
func (r *GormRoleRepository) AssignRole(userID, roleID uint64) error {
	assignment := models.UserRole{UserID: userID, RoleID: roleID}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignment).Error
}

// RoleIDsForUser returns the live role assignments of a user
func (r *GormRoleRepository) RoleIDsForUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// PermissionCodesForRoles returns the live permission codes attached to any
// of the given roles
func (r *GormRoleRepository) PermissionCodesForRoles(roleIDs []uint64) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	var codes []string
	err := r.db.Model(&models.RolePermission{}).
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Where("permissions.deleted_at IS NULL").
		Pluck("permissions.code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}
