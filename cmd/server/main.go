package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskmesh/task-manager-api/internal/config"
	"github.com/taskmesh/task-manager-api/internal/constants"
	"github.com/taskmesh/task-manager-api/internal/database"
	"github.com/taskmesh/task-manager-api/internal/handlers"
	"github.com/taskmesh/task-manager-api/internal/middleware"
	"github.com/taskmesh/task-manager-api/internal/repository"
	"github.com/taskmesh/task-manager-api/internal/services"
	"github.com/taskmesh/task-manager-api/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Provision built-in roles and permissions
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}

	// Initialize token manager
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.GetDB())
	roleRepo := repository.NewRoleRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	// Initialize services
	authService := services.NewAuthService(userRepo, roleRepo, tokens)
	rbacService := services.NewRBACService(roleRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, rbacService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Manager API is running",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Welcome to the Task Manager",
		})
	})

	// API routes
	api := r.Group("/api")
	api.Use(middleware.Authenticate(authService, tokens))
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/token/", authHandler.ObtainToken)
			auth.POST("/token/refresh/", authHandler.RefreshToken)
		}

		// Account routes (public)
		accounts := api.Group("/accounts")
		{
			accounts.POST("/signup/", accountHandler.Signup)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("/task/", middleware.RequirePermission(rbacService, constants.PermTaskView), taskHandler.ListTasks)
			tasks.POST("/task/", middleware.RequirePermission(rbacService, constants.PermTaskCreate), taskHandler.CreateTask)
			tasks.GET("/:task_id/", middleware.RequirePermission(rbacService, constants.PermTaskView), taskHandler.GetTask)
			tasks.PATCH("/:task_id/", middleware.RequirePermission(rbacService, constants.PermTaskUpdate), taskHandler.UpdateTask)
			tasks.DELETE("/:task_id/", middleware.RequirePermission(rbacService, constants.PermTaskDelete), taskHandler.DeleteTask)
			tasks.POST("/:task_id/restore/", middleware.RequirePermission(rbacService, constants.PermTaskAdmin), taskHandler.RestoreTask)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
