package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskmesh/task-manager-api/internal/constants"
	"github.com/taskmesh/task-manager-api/internal/models"
	"github.com/taskmesh/task-manager-api/internal/repository"
	"github.com/taskmesh/task-manager-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrEmailRequired        = errors.New("email is required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrSessionSuperseded    = errors.New("session superseded by a later login")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles signup, credential verification, and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// Signup creates a new user and grants the built-in "User" role. Email
// uniqueness is checked against every existing row, soft-deleted accounts
// included.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	taken, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(input.FullName),
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	role, err := s.roleRepo.FindByName(constants.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to find default role: %w", err)
	}
	if err := s.roleRepo.AssignRole(user.ID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the issued tokens and the new session identifier.
type LoginResult struct {
	User    *models.User
	Access  string
	Refresh string
	Session string
}

// Login verifies credentials, rotates the user's session identifier, and
// issues an access/refresh token pair stamped with the new identifier.
// Every token issued against the previous identifier becomes invalid.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := uuid.New().String()
	if err := s.userRepo.UpdateSessionToken(user.ID, session); err != nil {
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}
	user.SessionToken = session

	pair, err := s.tokens.GeneratePair(user.ID, session)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &LoginResult{
		User:    user,
		Access:  pair.AccessToken,
		Refresh: pair.RefreshToken,
		Session: session,
	}, nil
}

// Refresh verifies a refresh token and issues a new access token. A refresh
// token stamped with a superseded session identifier is rejected.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if claims.Session != user.SessionToken {
		return "", ErrSessionSuperseded
	}

	access, err := s.tokens.GenerateAccess(user.ID, user.SessionToken)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	return access, nil
}

// GetUser retrieves a live user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
