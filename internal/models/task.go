package models

import (
	"time"
)

type Task struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	Title     string     `gorm:"type:varchar(60);not null" json:"title"`
	DueDate   *time.Time `json:"due_date"`
	Reminder  *time.Time `json:"reminder"`
	Guild     *int64     `json:"guild"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations. Assignments are ordered by their row id, which records the
	// order users were added to the task.
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}
