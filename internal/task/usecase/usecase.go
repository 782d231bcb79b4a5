package usecase

import (
	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/task/domain"
)

// TaskUsecase defines the interface for task business logic
type TaskUsecase interface {
	// ListTasks returns all tasks, optionally only those with the given status
	ListTasks(status *domain.TaskStatus) []domain.Task

	// GetTaskByID retrieves a task by ID
	GetTaskByID(taskID string) (*domain.Task, error)

	// CreateTask creates a new manual task
	CreateTask(in domain.TaskInput) (*domain.Task, error)

	// UpdateTask updates an existing task
	UpdateTask(taskID string, updates TaskUpdateRequest) (*domain.Task, error)

	// SetStatus toggles a task between todo and done
	SetStatus(taskID string, status domain.TaskStatus) (*domain.Task, error)

	// DeleteTask deletes a task
	DeleteTask(taskID string) error

	// AcceptSuggestion turns the index-th AI-suggested task of an email into a task
	AcceptSuggestion(emailID string, index int) (*domain.Task, error)
}

// TaskUpdateRequest represents the fields that can be updated
type TaskUpdateRequest struct {
	Title   *string            `json:"title,omitempty"`
	Details *string            `json:"details,omitempty"`
	DueDate *string            `json:"dueDate,omitempty"`
	Status  *domain.TaskStatus `json:"status,omitempty"`
}

// Store is the part of the workspace store the task usecase needs
type Store interface {
	Dispatch(a state.Action)
	DispatchAndGet(a state.Action) *state.State
	GetState() *state.State
}

// Translator renders notification messages
type Translator interface {
	T(messageID string) string
}
