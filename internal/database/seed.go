package database

import (
	"fmt"

	"github.com/taskmesh/task-manager-api/internal/constants"
	"github.com/taskmesh/task-manager-api/internal/models"
	"gorm.io/gorm"
)

// Seed provisions the built-in roles and permissions. It is idempotent and
// safe to run on every startup.
func Seed(db *gorm.DB) error {
	permissions := []models.Permission{
		{Code: constants.PermTaskCreate, Description: "Create tasks"},
		{Code: constants.PermTaskView, Description: "View tasks"},
		{Code: constants.PermTaskUpdate, Description: "Update tasks"},
		{Code: constants.PermTaskDelete, Description: "Delete tasks"},
		{Code: constants.PermTaskAdmin, Description: "Administer all tasks regardless of ownership"},
	}

	permsByCode := make(map[string]models.Permission, len(permissions))
	for _, p := range permissions {
		var perm models.Permission
		if err := db.Where("code = ?", p.Code).
			Attrs(models.Permission{Description: p.Description}).
			FirstOrCreate(&perm, models.Permission{Code: p.Code}).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", p.Code, err)
		}
		permsByCode[p.Code] = perm
	}

	roleGrants := map[string][]string{
		constants.RoleAdmin: {
			constants.PermTaskCreate,
			constants.PermTaskView,
			constants.PermTaskUpdate,
			constants.PermTaskDelete,
			constants.PermTaskAdmin,
		},
		constants.RoleUser: {
			constants.PermTaskCreate,
			constants.PermTaskView,
			constants.PermTaskUpdate,
		},
	}

	for name, codes := range roleGrants {
		var role models.Role
		if err := db.FirstOrCreate(&role, models.Role{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}

		for _, code := range codes {
			perm := permsByCode[code]
			var rp models.RolePermission
			err := db.Where("role_id = ? AND permission_id = ?", role.ID, perm.ID).
				FirstOrCreate(&rp, models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error
			if err != nil {
				return fmt.Errorf("failed to grant %s to role %s: %w", code, name, err)
			}
		}
	}

	return nil
}
