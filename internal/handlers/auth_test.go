package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskmesh/task-manager-api/internal/database"
	"github.com/taskmesh/task-manager-api/internal/middleware"
	"github.com/taskmesh/task-manager-api/internal/models"
	"github.com/taskmesh/task-manager-api/internal/repository"
	"github.com/taskmesh/task-manager-api/internal/services"
	"github.com/taskmesh/task-manager-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.UserRole{},
		&models.RolePermission{},
		&models.Task{},
		&models.Sequence{},
	)
	require.NoError(t, err)
	require.NoError(t, database.Seed(db))

	database.SetDB(db)

	tokens := token.NewManager("test-secret", 30*time.Minute, 24*time.Hour)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	authService := services.NewAuthService(userRepo, roleRepo, tokens)

	authHandler := NewAuthHandler(authService)
	accountHandler := NewAccountHandler(authService)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Authenticate(authService, tokens))
	api.POST("/auth/token/", authHandler.ObtainToken)
	api.POST("/auth/token/refresh/", authHandler.RefreshToken)
	api.POST("/accounts/signup/", accountHandler.Signup)
	api.GET("/me", middleware.RequireAuth(), func(c *gin.Context) {
		user, _ := middleware.GetUser(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.UserID})
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env authTestEnv) do(t *testing.T, method, url string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env authTestEnv) signup(t *testing.T, email string) {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/accounts/signup/", map[string]string{
		"email":     email,
		"username":  "tester",
		"password":  "supersecret",
		"full_name": "Test User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
}

func (env authTestEnv) login(t *testing.T, email string) map[string]string {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/token/", map[string]string{
		"email":    email,
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tokens map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens["access"])
	require.NotEmpty(t, tokens["refresh"])
	require.NotEmpty(t, tokens["session"])
	return tokens
}

func bearer(tokens map[string]string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tokens["access"]}
}

func TestSignup(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/accounts/signup/", map[string]string{
		"email":     "new@test.com",
		"username":  "newuser",
		"password":  "supersecret",
		"full_name": "New User",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "USR1", response["user_id"])
	require.Equal(t, "new@test.com", response["email"])

	// The built-in "User" role is granted automatically
	var user models.User
	require.NoError(t, env.db.Where("email = ?", "new@test.com").First(&user).Error)
	var count int64
	require.NoError(t, env.db.Model(&models.UserRole{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestSignup_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/accounts/signup/", map[string]string{
		"email":    "new@test.com",
		"username": "newuser",
		"password": "short",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "taken@test.com")

	w := env.do(t, http.MethodPost, "/api/accounts/signup/", map[string]string{
		"email":    "taken@test.com",
		"username": "other",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Email already exists")
}

func TestSignup_DuplicateEmailOfSoftDeletedUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "ghost@test.com")

	// Soft-delete the account; the email stays reserved
	require.NoError(t, env.db.Where("email = ?", "ghost@test.com").Delete(&models.User{}).Error)

	w := env.do(t, http.MethodPost, "/api/accounts/signup/", map[string]string{
		"email":    "ghost@test.com",
		"username": "revenant",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Email already exists")
}

func TestObtainToken_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "user@test.com")

	w := env.do(t, http.MethodPost, "/api/auth/token/", map[string]string{
		"email":    "user@test.com",
		"password": "wrongpassword",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown email fails identically
	w = env.do(t, http.MethodPost, "/api/auth/token/", map[string]string{
		"email":    "nobody@test.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestObtainToken_SoftDeletedUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "gone@test.com")
	require.NoError(t, env.db.Where("email = ?", "gone@test.com").Delete(&models.User{}).Error)

	w := env.do(t, http.MethodPost, "/api/auth/token/", map[string]string{
		"email":    "gone@test.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSecondLoginInvalidatesFirstToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "user@test.com")

	first := env.login(t, "user@test.com")

	w := env.do(t, http.MethodGet, "/api/me", nil, bearer(first))
	require.Equal(t, http.StatusOK, w.Code)

	second := env.login(t, "user@test.com")
	require.NotEqual(t, first["session"], second["session"])

	// The first token is still structurally valid and unexpired, but its
	// session stamp has been superseded
	w = env.do(t, http.MethodGet, "/api/me", nil, bearer(first))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Logged in elsewhere")

	w = env.do(t, http.MethodGet, "/api/me", nil, bearer(second))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequestWithoutTokenPassesThroughToGuard(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Authentication required")
}

func TestRequestWithGarbageTokenPassesThroughToGuard(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/me", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Authentication required")
}

func TestGetUser_UnknownID(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.GetUser(9999)
	require.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestRefreshToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "user@test.com")
	tokens := env.login(t, "user@test.com")

	w := env.do(t, http.MethodPost, "/api/auth/token/refresh/", map[string]string{
		"refresh": tokens["refresh"],
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response["access"])

	w = env.do(t, http.MethodGet, "/api/me", nil, map[string]string{
		"Authorization": "Bearer " + response["access"],
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshToken_RejectedAfterNewLogin(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "user@test.com")

	first := env.login(t, "user@test.com")
	env.login(t, "user@test.com")

	w := env.do(t, http.MethodPost, "/api/auth/token/refresh/", map[string]string{
		"refresh": first["refresh"],
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Logged in elsewhere")
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	env := setupAuthTestEnv(t)
	env.signup(t, "user@test.com")
	tokens := env.login(t, "user@test.com")

	w := env.do(t, http.MethodPost, "/api/auth/token/refresh/", map[string]string{
		"refresh": tokens["access"],
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
