package models

import "time"

// TaskAssignment links a user to a task. The surrogate id makes insertion
// order an explicit property of the schema: assignee listings order by it,
// so tasks present their assignees in the order they were added. The unique
// index enforces at most one link per user and task.
type TaskAssignment struct {
	ID        uint64    `gorm:"primarykey" json:"-"`
	TaskID    uint64    `gorm:"uniqueIndex:idx_task_assignments_task_user;not null" json:"task_id"`
	Username  string    `gorm:"uniqueIndex:idx_task_assignments_task_user;type:varchar(60);not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:Username;references:Username" json:"user,omitempty"`
}
