package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmesh/task-manager-api/internal/constants"
	apierrors "github.com/taskmesh/task-manager-api/internal/errors"
	"github.com/taskmesh/task-manager-api/internal/services"
)

// AccountHandler coordinates account-related HTTP handlers.
type AccountHandler struct {
	authService *services.AuthService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(authService *services.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Signup registers a new user and grants the built-in "User" role.
func (h *AccountHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondSignupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": user.UserID,
		"email":   user.Email,
	})
}

func respondSignupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequestWithDetails(c, "Email already exists", gin.H{"email": "Email already exists"})
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequestWithDetails(c,
			fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength),
			gin.H{"password": "Too short"})
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrUsernameRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
