package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "todo"
	TaskStatusDone TaskStatus = "done"
)

// TaskType tells manual tasks apart from those the reminder watcher creates
type TaskType string

const (
	TaskTypeManual       TaskType = "manual"
	TaskTypeAutoReminder TaskType = "auto_reminder"
)

// DueDateLayout is the calendar-date format of Task.DueDate
const DueDateLayout = "2006-01-02"

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
	ErrInvalidDate   = errors.New("due date must be YYYY-MM-DD")
)

// Task represents a to-do item created manually, from an AI suggestion, or
// by the follow-up reminder watcher
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Details        string     `json:"details"`
	DueDate        string     `json:"dueDate"` // calendar date, see DueDateLayout
	Status         TaskStatus `json:"status"`
	Type           TaskType   `json:"type"`
	RelatedEmailID *string    `json:"relatedEmailId,omitempty"`
}

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	return s == TaskStatusTodo || s == TaskStatusDone
}

// TaskInput holds the caller-supplied fields of a new task
type TaskInput struct {
	Title          string     `json:"title" binding:"required"`
	Details        string     `json:"details"`
	DueDate        string     `json:"dueDate"`
	Status         TaskStatus `json:"status"`
	Type           TaskType   `json:"type"`
	RelatedEmailID *string    `json:"relatedEmailId"`
}

// NewTask creates a task. Status defaults to Todo and type to Manual.
func NewTask(id string, in TaskInput) Task {
	status := in.Status
	if status == "" {
		status = TaskStatusTodo
	}
	taskType := in.Type
	if taskType == "" {
		taskType = TaskTypeManual
	}
	return Task{
		ID:             id,
		Title:          in.Title,
		Details:        in.Details,
		DueDate:        in.DueDate,
		Status:         status,
		Type:           taskType,
		RelatedEmailID: in.RelatedEmailID,
	}
}

// ValidateDueDate accepts an empty date or a YYYY-MM-DD calendar date
func ValidateDueDate(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse(DueDateLayout, d); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Tomorrow returns the calendar date after now in now's location
func Tomorrow(now time.Time) string {
	return now.AddDate(0, 0, 1).Format(DueDateLayout)
}

// IsReminderFor reports whether t is the auto reminder for emailID
func (t *Task) IsReminderFor(emailID string) bool {
	return t.Type == TaskTypeAutoReminder && t.RelatedEmailID != nil && *t.RelatedEmailID == emailID
}
