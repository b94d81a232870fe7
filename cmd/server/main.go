package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/discord-taskbot-api/internal/config"
	"github.com/yukikurage/discord-taskbot-api/internal/database"
	"github.com/yukikurage/discord-taskbot-api/internal/handlers"
	"github.com/yukikurage/discord-taskbot-api/internal/logger"
	"github.com/yukikurage/discord-taskbot-api/internal/middleware"
	"github.com/yukikurage/discord-taskbot-api/internal/repository"
	"github.com/yukikurage/discord-taskbot-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.GinMode)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("Database connection established")

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Initialize repositories and services
	taskRepo := repository.NewTaskRepository(database.GetDB())
	userRepo := repository.NewUserRepository(database.GetDB())
	taskService := services.NewTaskService(taskRepo, userRepo)

	// Initialize handler
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.RequestLogger(log))
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskbot API is running",
		})
	})

	// Routes consumed by the bot client
	r.GET("/task", taskHandler.ListTasks)
	r.POST("/task", taskHandler.CreateTask)
	r.GET("/task/:id", taskHandler.GetTask)
	r.DELETE("/task/:id", taskHandler.DeleteTask)
	r.POST("/due-date/:id", taskHandler.SetDueDate)
	r.GET("/due-date/:id", taskHandler.GetDueDate)
	r.PUT("/assignees/:id", taskHandler.AssignUsers)
	r.PUT("/reminder/:id", taskHandler.SetReminder)

	// Start server
	log.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
