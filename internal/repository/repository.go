package repository

import (
	"github.com/yukikurage/discord-taskbot-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, ordered by due date
	// ascending with null due dates last, ties broken by id
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task and its assignment rows
	Delete(id uint64) error

	// AssignedUsernames returns which of the candidate usernames are
	// already linked to the task
	AssignedUsernames(taskID uint64, candidates []string) ([]string, error)

	// LinkUser links a user to a task
	LinkUser(taskID uint64, username string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Username *string
	Guild    *int64
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// GetOrCreate returns the user with the given username, creating it
	// (username only) when it does not exist yet
	GetOrCreate(username string) (*models.User, error)
}
