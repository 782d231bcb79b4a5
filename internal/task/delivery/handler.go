package delivery

import (
	"errors"
	"net/http"
	"strconv"

	mail "eventdesk-backend/internal/mail/domain"
	"eventdesk-backend/internal/task/domain"
	"eventdesk-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskUsecase usecase.TaskUsecase
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskUsecase usecase.TaskUsecase) *TaskHandler {
	return &TaskHandler{
		taskUsecase: taskUsecase,
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, mail.ErrEmailNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, usecase.ErrTitleRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetTasks returns all tasks
// GET /api/tasks?status=todo
func (h *TaskHandler) GetTasks(c *gin.Context) {
	var statusPtr *domain.TaskStatus
	if status := c.Query("status"); status != "" {
		s := domain.TaskStatus(status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidStatus.Error()})
			return
		}
		statusPtr = &s
	}

	tasks := h.taskUsecase.ListTasks(statusPtr)
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetTaskByID returns a specific task
// GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.taskUsecase.GetTaskByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task manually
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req domain.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.CreateTask(req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask updates an existing task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var updates usecase.TaskUpdateRequest
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.UpdateTask(c.Param("id"), updates)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskUsecase.DeleteTask(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UpdateTaskStatus is a convenience endpoint to just update status
// PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	var req struct {
		Status domain.TaskStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskUsecase.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// AcceptSuggestion turns an AI-suggested task of an email into a real task
// POST /api/tasks/from-email/:emailId/:index
func (h *TaskHandler) AcceptSuggestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer"})
		return
	}

	task, err := h.taskUsecase.AcceptSuggestion(c.Param("emailId"), index)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}
