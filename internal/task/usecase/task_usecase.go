package usecase

import (
	"errors"
	"fmt"
	"strings"

	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/task/domain"
	"eventdesk-backend/pkg/idgen"

	"github.com/sirupsen/logrus"
)

// ErrTitleRequired is returned when a task would have a blank title
var ErrTitleRequired = errors.New("task title is required")

// taskUsecase implements TaskUsecase interface
type taskUsecase struct {
	store      Store
	translator Translator
	newID      idgen.Generator
}

// NewTaskUsecase creates a new instance of taskUsecase
func NewTaskUsecase(store Store, translator Translator, newID idgen.Generator) TaskUsecase {
	if newID == nil {
		newID = idgen.New
	}
	return &taskUsecase{store: store, translator: translator, newID: newID}
}

func (u *taskUsecase) notify(messageID string) {
	u.store.Dispatch(state.AddNotification{Message: u.translator.T(messageID), Kind: state.NotifySuccess})
}

func (u *taskUsecase) ListTasks(status *domain.TaskStatus) []domain.Task {
	tasks := u.store.GetState().Tasks
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (u *taskUsecase) GetTaskByID(taskID string) (*domain.Task, error) {
	t, ok := u.store.GetState().FindTask(taskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (u *taskUsecase) CreateTask(in domain.TaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := domain.ValidateDueDate(in.DueDate); err != nil {
		return nil, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	// Reminder tasks are only created by the watcher
	in.Type = domain.TaskTypeManual

	task := domain.NewTask(u.newID("task"), in)
	s := u.store.DispatchAndGet(state.AddTask{Task: task})
	u.notify("task_added")
	t, ok := s.FindTask(task.ID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (u *taskUsecase) UpdateTask(taskID string, updates TaskUpdateRequest) (*domain.Task, error) {
	task, err := u.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	if updates.Title != nil {
		title := strings.TrimSpace(*updates.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if updates.Details != nil {
		task.Details = *updates.Details
	}
	if updates.DueDate != nil {
		if err := domain.ValidateDueDate(*updates.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = *updates.DueDate
	}
	if updates.Status != nil {
		if !updates.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		task.Status = *updates.Status
	}

	s := u.store.DispatchAndGet(state.UpdateTask{Task: *task})
	u.notify("task_updated")
	t, _ := s.FindTask(taskID)
	return &t, nil
}

func (u *taskUsecase) SetStatus(taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if _, err := u.GetTaskByID(taskID); err != nil {
		return nil, err
	}
	s := u.store.DispatchAndGet(state.UpdateTaskStatus{TaskID: taskID, Status: status})
	t, _ := s.FindTask(taskID)
	return &t, nil
}

func (u *taskUsecase) DeleteTask(taskID string) error {
	if _, err := u.GetTaskByID(taskID); err != nil {
		return err
	}
	u.store.Dispatch(state.DeleteTask{TaskID: taskID})
	u.notify("task_deleted")
	return nil
}

func (u *taskUsecase) AcceptSuggestion(emailID string, index int) (*domain.Task, error) {
	email, ok := u.store.GetState().FindEmail(emailID)
	if !ok {
		return nil, mail.ErrEmailNotFound
	}
	if index < 0 || index >= len(email.SuggestedTasks) {
		return nil, fmt.Errorf("%w: email %s has no suggestion %d", domain.ErrTaskNotFound, emailID, index)
	}
	suggestion := email.SuggestedTasks[index]
	logrus.WithFields(logrus.Fields{"email_id": emailID, "title": suggestion.Title}).Debug("[TaskUsecase] Accepting suggested task")

	id := emailID
	return u.CreateTask(domain.TaskInput{
		Title:          suggestion.Title,
		Details:        suggestion.Details,
		RelatedEmailID: &id,
	})
}
