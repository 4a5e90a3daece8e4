package services

import (
	"fmt"

	"github.com/taskmesh/task-manager-api/internal/models"
	"github.com/taskmesh/task-manager-api/internal/repository"
)

// RBACService resolves permissions through the user→role→permission graph.
// Resolution is one hop: roles do not inherit from each other.
type RBACService struct {
	roleRepo repository.RoleRepository
}

// NewRBACService creates a new RBACService
func NewRBACService(roleRepo repository.RoleRepository) *RBACService {
	return &RBACService{roleRepo: roleRepo}
}

// HasPermission reports whether the user may perform the action named by
// code. Superusers bypass the graph entirely. Unknown codes resolve to
// false.
func (s *RBACService) HasPermission(user *models.User, code string) (bool, error) {
	if user.IsSuperuser {
		return true, nil
	}

	codes, err := s.PermissionCodes(user)
	if err != nil {
		return false, err
	}

	_, ok := codes[code]
	return ok, nil
}

// PermissionCodes returns the full set of permission codes the user holds
// through live role assignments. Callers serving a single request may keep
// the returned set as a memo instead of resolving per check.
func (s *RBACService) PermissionCodes(user *models.User) (map[string]struct{}, error) {
	roleIDs, err := s.roleRepo.RoleIDsForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roles: %w", err)
	}

	codes, err := s.roleRepo.PermissionCodesForRoles(roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set, nil
}
