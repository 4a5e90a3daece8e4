package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskmesh/task-manager-api/internal/errors"
	"github.com/taskmesh/task-manager-api/internal/services"
)

// AuthHandler coordinates token-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// ObtainToken authenticates credentials and issues an access/refresh pair
// stamped with a fresh session identifier.
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	type TokenRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Invalid credentials")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  result.Access,
		"refresh": result.Refresh,
		"session": result.Session,
	})
}

// RefreshToken exchanges a refresh token for a new access token. Refresh
// tokens from superseded logins are rejected.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	type RefreshRequest struct {
		Refresh string `json:"refresh" binding:"required"`
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	access, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSessionSuperseded):
			apierrors.Unauthorized(c, "Session expired. Logged in elsewhere.")
		case errors.Is(err, services.ErrInvalidRefreshToken):
			apierrors.Unauthorized(c, "Invalid refresh token")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access": access,
	})
}
