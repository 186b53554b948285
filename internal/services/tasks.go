package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/models"
	"tasktracker/internal/repositories"

	"github.com/sirupsen/logrus"
)

type TaskStore interface {
	FindByUser(ctx context.Context, userID uint) ([]models.Task, error)
	FindByIDAndUser(ctx context.Context, id, userID uint) (*models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

type TaskService interface {
	ListTasksForUser(ctx context.Context, user *models.User) ([]models.Task, error)
	FindTaskForUser(ctx context.Context, taskID uint, user *models.User) (*models.Task, bool, error)
	SaveTask(ctx context.Context, task *models.Task, user *models.User) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task, user *models.User) (*models.Task, error)
	UpdateStatus(ctx context.Context, taskID uint, status string, user *models.User) (*models.Task, bool, error)
	DeleteTaskForUser(ctx context.Context, taskID uint, user *models.User) (bool, error)
}

type TaskServiceImpl struct {
	tasks TaskStore
	log   *logrus.Logger
}

func NewTaskService(tasks TaskStore, log *logrus.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, log: log}
}

func (s *TaskServiceImpl) ListTasksForUser(ctx context.Context, user *models.User) ([]models.Task, error) {
	tasks, err := s.tasks.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// FindTaskForUser reports found=false both when the task does not exist
// and when it belongs to someone else.
func (s *TaskServiceImpl) FindTaskForUser(ctx context.Context, taskID uint, user *models.User) (*models.Task, bool, error) {
	task, err := s.tasks.FindByIDAndUser(ctx, taskID, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to load task: %w", err)
	}
	return task, true, nil
}

// SaveTask creates the task when it has no id and overwrites every mutable
// field otherwise. The owner is always replaced with user. An id with no
// stored task fails with repositories.ErrNotFound.
func (s *TaskServiceImpl) SaveTask(ctx context.Context, task *models.Task, user *models.User) (*models.Task, error) {
	task.UserID = user.ID
	if task.IsNew() {
		task.ApplyDefaultStatus()
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"task_id": task.ID,
		"user_id": user.ID,
		"status":  task.Status,
	}).Debug("task saved")
	return task, nil
}

// CreateTask is the quick-add entry point. It never updates an existing
// record.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, task *models.Task, user *models.User) (*models.Task, error) {
	if !task.IsNew() {
		return nil, ErrTaskHasIdentity
	}
	if !task.HasTitle() {
		return nil, ErrInvalidTitle
	}
	task.ApplyDefaultStatus()
	return s.SaveTask(ctx, task, user)
}

// UpdateStatus loads the owned task, sets its status and saves it. Any
// non-blank status may follow any other.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, taskID uint, status string, user *models.User) (*models.Task, bool, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, false, ErrInvalidStatus
	}

	task, found, err := s.FindTaskForUser(ctx, taskID, user)
	if err != nil || !found {
		return nil, found, err
	}

	task.Status = status
	saved, err := s.SaveTask(ctx, task, user)
	if err != nil {
		return nil, true, err
	}
	return saved, true, nil
}

func (s *TaskServiceImpl) DeleteTaskForUser(ctx context.Context, taskID uint, user *models.User) (bool, error) {
	deleted, err := s.tasks.Delete(ctx, taskID, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	if deleted {
		s.log.WithFields(logrus.Fields{"task_id": taskID, "user_id": user.ID}).Info("task deleted")
	}
	return deleted, nil
}
