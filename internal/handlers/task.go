package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/discord-taskbot-api/internal/dto"
	apierrors "github.com/yukikurage/discord-taskbot-api/internal/errors"
	"github.com/yukikurage/discord-taskbot-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks ordered by due date (tasks without one last).
// Optional query parameters `user` and `guild` restrict the result to tasks
// assigned to that username or tagged with that guild.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{}

	if user := c.Query("user"); user != "" {
		input.Username = &user
	}
	if guildStr := c.Query("guild"); guildStr != "" {
		guild, err := strconv.ParseInt(guildStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid guild")
			return
		}
		input.Guild = &guild
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task. Assignees cannot be set through this
// endpoint; they are added via PUT /assignees/:id.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title    string     `json:"title" binding:"required"`
		DueDate  *time.Time `json:"due_date"`
		Reminder *time.Time `json:"reminder"`
		Guild    *int64     `json:"guild"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:    req.Title,
		DueDate:  req.DueDate,
		Reminder: req.Reminder,
		Guild:    req.Guild,
	})
	if err != nil {
		if errors.Is(err, services.ErrTitleRequired) {
			apierrors.BadRequest(c, "Title is required")
			return
		}
		apierrors.InternalError(c, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task by ID
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// SetDueDate stores a due date on a task, replacing any existing one
func (h *TaskHandler) SetDueDate(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type SetDueDateRequest struct {
		DueDate time.Time `json:"due_date" binding:"required"`
	}

	var req SetDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.SetDueDate(taskID, req.DueDate); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to set due date")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "A due date has been assigned to the task"})
}

// GetDueDate returns the task's due date formatted as "YYYY-MM-DD HH:MM",
// or null when the task has no due date
func (h *TaskHandler) GetDueDate(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	dueDate, err := h.taskService.GetDueDate(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.InternalError(c, "Failed to fetch due date")
		return
	}

	c.JSON(http.StatusOK, dueDate)
}

// AssignUsers assigns a list of usernames to a task. Unknown usernames get
// a user record created on the fly; if any username is already assigned the
// whole request is rejected and nothing is linked.
func (h *TaskHandler) AssignUsers(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type AssignUsersRequest struct {
		Assignees []string `json:"assignees" binding:"required"`
	}

	var req AssignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	count, err := h.taskService.AssignUsers(taskID, req.Assignees)
	if err != nil {
		var dupErr *services.DuplicateAssignmentError
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrNoAssigneesProvided):
			apierrors.BadRequest(c, "At least one username is required")
		case errors.As(err, &dupErr):
			apierrors.ConflictWithDetails(
				c,
				apierrors.ErrCodeDuplicateAssignment,
				fmt.Sprintf("User(s) %v are already assigned to this task", dupErr.Usernames),
				gin.H{"usernames": dupErr.Usernames},
			)
		default:
			apierrors.InternalError(c, "Failed to add user(s)")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Added user(s)",
		"assigned_count": count,
	})
}

// SetReminder stores a reminder timestamp on a task. The value must be an
// RFC 3339 instant; the reminder is stored data only, nothing schedules it.
func (h *TaskHandler) SetReminder(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type SetReminderRequest struct {
		Reminder string `json:"reminder" binding:"required"`
	}

	var req SetReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.SetReminder(taskID, req.Reminder); err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, "Task not found")
		case errors.Is(err, services.ErrInvalidReminderFormat):
			apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFormat, "Reminder has an invalid format")
		default:
			apierrors.InternalError(c, "Failed to set reminder")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder has been set"})
}

// parseTaskID reads the :id route parameter; on failure it writes the error
// response and returns false
func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return 0, false
	}
	return taskID, true
}
