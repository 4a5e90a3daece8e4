package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/taskmesh/task-manager-api/internal/constants"
	apierrors "github.com/taskmesh/task-manager-api/internal/errors"
	"github.com/taskmesh/task-manager-api/internal/services"
)

// RequirePermission guards a route with a permission code. The user's
// resolved code set is memoized on the context, so stacked guards and
// handler-level checks within one request hit the database once.
func RequirePermission(rbac *services.RBACService, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.IsSuperuser {
			c.Next()
			return
		}

		codes, err := permissionCodes(c, rbac)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		if _, ok := codes[code]; !ok {
			apierrors.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func permissionCodes(c *gin.Context, rbac *services.RBACService) (map[string]struct{}, error) {
	if cached, exists := c.Get(constants.ContextKeyPermissions); exists {
		if codes, ok := cached.(map[string]struct{}); ok {
			return codes, nil
		}
	}

	user, _ := GetUser(c)
	codes, err := rbac.PermissionCodes(user)
	if err != nil {
		return nil, err
	}

	c.Set(constants.ContextKeyPermissions, codes)
	return codes, nil
}
