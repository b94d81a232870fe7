package dto

import (
	"time"

	"github.com/yukikurage/discord-taskbot-api/internal/models"
)

// TaskDTO represents a task in API responses. Assignees is an ordered array
// of usernames: the order users were added to the task.
type TaskDTO struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	DueDate   *time.Time `json:"due_date"`
	Reminder  *time.Time `json:"reminder"`
	Guild     *int64     `json:"guild"`
	Assignees []string   `json:"assignees"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	assignees := make([]string, len(task.Assignments))
	for i, assignment := range task.Assignments {
		assignees[i] = assignment.Username
	}

	return TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		DueDate:   task.DueDate,
		Reminder:  task.Reminder,
		Guild:     task.Guild,
		Assignees: assignees,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of Task models, preserving order
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
