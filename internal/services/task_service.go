package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yukikurage/discord-taskbot-api/internal/models"
	"github.com/yukikurage/discord-taskbot-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrTitleRequired         = errors.New("title is required")
	ErrNoAssigneesProvided   = errors.New("at least one username is required")
	ErrInvalidReminderFormat = errors.New("reminder must be a timezone-aware timestamp")
	ErrAssignmentFailed      = errors.New("failed to add user(s)")
)

// DuplicateAssignmentError is returned when one or more requested usernames
// are already assigned to the task. It carries the offending usernames in
// the order they appeared in the request.
type DuplicateAssignmentError struct {
	Usernames []string
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("user(s) %v are already assigned to this task", e.Usernames)
}

// DueDateLayout is how due dates are rendered for the bot: minute
// precision, no seconds, no offset.
const DueDateLayout = "2006-01-02 15:04"

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository

	// taskLocks serializes the check-then-link sequence of AssignUsers per
	// task id, so two concurrent requests cannot both pass the duplicate
	// check and insert the same link.
	taskLocks sync.Map // uint64 -> *sync.Mutex
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Username *string
	Guild    *int64
}

// CreateTaskInput represents input for creating a task. Assignees cannot be
// set at creation time; they go through AssignUsers.
type CreateTaskInput struct {
	Title    string
	DueDate  *time.Time
	Reminder *time.Time
	Guild    *int64
}

// ListTasks returns tasks matching the filters, ordered by due date
// ascending with tasks lacking a due date last, ties broken by creation
// order. Filters compose with AND semantics; an unknown username or guild
// simply yields an empty list.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		Username: input.Username,
		Guild:    input.Guild,
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task with its assignees in the order they were added
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task with validation
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title:    input.Title,
		DueDate:  input.DueDate,
		Reminder: input.Reminder,
		Guild:    input.Guild,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task and its assignment links
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUsers links the given usernames to a task and returns how many were
// linked. Usernames repeated within one request count as a single logical
// assignment. If any requested username is already assigned, the whole
// request is rejected with a DuplicateAssignmentError naming those
// usernames and no link is made. Unknown usernames get a user record
// created on the fly.
func (s *TaskService) AssignUsers(taskID uint64, usernames []string) (int, error) {
	if len(usernames) == 0 {
		return 0, ErrNoAssigneesProvided
	}

	unlock := s.lockTask(taskID)
	defer unlock()

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, fmt.Errorf("%w: %v", ErrAssignmentFailed, err)
	}

	usernames = uniqueStrings(usernames)

	assigned, err := s.taskRepo.AssignedUsernames(taskID, usernames)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAssignmentFailed, err)
	}
	if len(assigned) > 0 {
		assignedSet := make(map[string]struct{}, len(assigned))
		for _, username := range assigned {
			assignedSet[username] = struct{}{}
		}

		// report duplicates in request order, not store order
		duplicates := make([]string, 0, len(assigned))
		for _, username := range usernames {
			if _, ok := assignedSet[username]; ok {
				duplicates = append(duplicates, username)
			}
		}

		return 0, &DuplicateAssignmentError{Usernames: duplicates}
	}

	for _, username := range usernames {
		if _, err := s.userRepo.GetOrCreate(username); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrAssignmentFailed, err)
		}
		if err := s.taskRepo.LinkUser(taskID, username); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrAssignmentFailed, err)
		}
	}

	return len(usernames), nil
}

// SetDueDate stores the due date on a task, overwriting any previous value
func (s *TaskService) SetDueDate(taskID uint64, due time.Time) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	task.DueDate = &due
	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update due date: %w", err)
	}

	return nil
}

// GetDueDate returns the task's due date rendered with DueDateLayout, or
// nil when no due date is set
func (s *TaskService) GetDueDate(taskID uint64) (*string, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.DueDate == nil {
		return nil, nil
	}

	formatted := task.DueDate.Format(DueDateLayout)
	return &formatted, nil
}

// SetReminder parses raw as an RFC 3339 instant and stores it as the
// task's reminder, overwriting any previous value. The reminder is pure
// data; nothing in this service schedules delivery.
func (s *TaskService) SetReminder(taskID uint64, raw string) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	reminder, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return ErrInvalidReminderFormat
	}

	task.Reminder = &reminder
	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	return nil
}

// lockTask acquires the mutex for a task id and returns its unlock func
func (s *TaskService) lockTask(taskID uint64) func() {
	v, _ := s.taskLocks.LoadOrStore(taskID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// uniqueStrings removes duplicate values while preserving first-seen order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
