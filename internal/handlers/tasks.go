package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tasktracker/internal/models"
	"tasktracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	tasks services.TaskService
	log   *logrus.Logger
}

type TaskRequest struct {
	ID          uint   `json:"id"`
	Title       string `json:"title" binding:"max=255"`
	Description string `json:"description" binding:"max=2000"`
	DueDate     string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority" binding:"max=20"`
	Status      string `json:"status" binding:"max=20"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,max=20"`
}

func NewTaskHandler(tasks services.TaskService, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

// toTask copies the request fields; the id is left to the caller.
func (r TaskRequest) toTask() (*models.Task, error) {
	dueDate, err := models.ParseDueDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	return &models.Task{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     dueDate,
		Priority:    r.Priority,
		Status:      r.Status,
	}, nil
}

func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return 0, false
	}
	return uint(id), true
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasksForUser(c.Request.Context(), user)
	if err != nil {
		h.log.WithError(err).Error("failed to list tasks")
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// QuickAdd creates a task. A request carrying an id is refused.
func (h *TaskHandler) QuickAdd(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.ID != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot update through the Quick Add form."})
		return
	}

	task, err := req.toTask()
	if err != nil {
		badRequest(c, err)
		return
	}
	if !task.HasTitle() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task title cannot be empty."})
		return
	}
	task.ApplyDefaultStatus()

	saved, err := h.tasks.CreateTask(c.Request.Context(), task, user)
	if err != nil {
		h.log.WithError(err).Error("failed to create task")
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New task added successfully!",
		"task":    saved,
	})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, found, err := h.tasks.FindTaskForUser(c.Request.Context(), id, user)
	if err != nil {
		h.log.WithError(err).Error("failed to load task")
		internalError(c)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask overwrites every mutable field of an owned task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	replacement, err := req.toTask()
	if err != nil {
		badRequest(c, err)
		return
	}
	if !replacement.HasTitle() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task title cannot be empty."})
		return
	}

	existing, found, err := h.tasks.FindTaskForUser(c.Request.Context(), id, user)
	if err != nil {
		h.log.WithError(err).Error("failed to load task")
		internalError(c)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return
	}

	replacement.ID = existing.ID
	replacement.CreatedAt = existing.CreatedAt
	replacement.Status = strings.TrimSpace(replacement.Status)
	if replacement.Status == "" {
		replacement.Status = existing.Status
	}

	saved, err := h.tasks.SaveTask(c.Request.Context(), replacement, user)
	if err != nil {
		h.log.WithError(err).Error("failed to update task")
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully.",
		"task":    saved,
	})
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, found, err := h.tasks.UpdateStatus(c.Request.Context(), id, req.Status, user)
	if errors.Is(err, services.ErrInvalidStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task status cannot be empty."})
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to update task status")
		internalError(c)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Task '%s' moved to %s.", task.Title, task.Status),
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := taskID(c)
	if !ok {
		return
	}

	deleted, err := h.tasks.DeleteTaskForUser(c.Request.Context(), id, user)
	if err != nil {
		h.log.WithError(err).Error("failed to delete task")
		internalError(c)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully."})
}
