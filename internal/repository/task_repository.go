package repository

import (
	"github.com/yukikurage/discord-taskbot-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading. Preloading
// "Assignments" always yields them in the order they were added.
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		if p == "Assignments" {
			query = query.Preload(p, orderAssignments)
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter. Tasks with a due date come
// first, ascending; tasks without one follow, and ties fall back to id so
// creation order is stable across databases.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.Username != nil {
		assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.username = ?", *filter.Username)
		query = query.Where("EXISTS (?)", assignmentSubQuery)
	}
	if filter.Guild != nil {
		query = query.Where("tasks.guild = ?", *filter.Guild)
	}

	err := query.
		Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.id ASC").
		Preload("Assignments", orderAssignments).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its assignment rows
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// AssignedUsernames returns which of the candidate usernames are already
// linked to the task
func (r *GormTaskRepository) AssignedUsernames(taskID uint64, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var usernames []string
	err := r.db.Model(&models.TaskAssignment{}).
		Where("task_id = ? AND username IN ?", taskID, candidates).
		Pluck("username", &usernames).Error
	if err != nil {
		return nil, err
	}

	return usernames, nil
}

// LinkUser links a user to a task
func (r *GormTaskRepository) LinkUser(taskID uint64, username string) error {
	return r.db.Create(&models.TaskAssignment{
		TaskID:   taskID,
		Username: username,
	}).Error
}

func orderAssignments(db *gorm.DB) *gorm.DB {
	return db.Order("task_assignments.id ASC")
}
