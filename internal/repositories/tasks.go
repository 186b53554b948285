package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/models"

	"gorm.io/gorm"
)

// TaskRepository is the Task Store. Every read and delete used by the
// request path is scoped by owner in the query itself.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) FindByUser(ctx context.Context, userID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, translate("find tasks by user", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, translate("find task by id and user", err)
	}
	return &task, nil
}

// FindByID is unscoped; it exists for tests and maintenance code only.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translate("find task by id", err)
	}
	return &task, nil
}

// Save inserts a task without an id and fully overwrites one with an id.
// An id that matches no row is ErrNotFound; ids are never chosen by the
// caller. The stored row is read back into task.
func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveTask(tx, task, false)
	})
}

// saveTask creates or overwrites task. With ownedOnly the update also
// requires the stored row to already belong to task.UserID.
func saveTask(tx *gorm.DB, task *models.Task, ownedOnly bool) error {
	if task.UserID == 0 {
		return fmt.Errorf("save task: %w: task has no owner", ErrConstraint)
	}
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("save task: %w: title is required", ErrConstraint)
	}

	if task.IsNew() {
		if err := tx.Create(task).Error; err != nil {
			return translate("create task", err)
		}
	} else {
		query := tx.Select("*").Omit("created_at")
		if ownedOnly {
			query = query.Where("user_id = ?", task.UserID)
		}
		result := query.Updates(task)
		if result.Error != nil {
			return translate("update task", result.Error)
		}
		if result.RowsAffected == 0 {
			return translate("update task", gorm.ErrRecordNotFound)
		}
	}

	return translate("reload task", tx.First(task, task.ID).Error)
}

// Delete removes the task only if it is owned by userID. It reports
// whether a row was removed.
func (r *TaskRepository) Delete(ctx context.Context, id, userID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Task{})
	if result.Error != nil {
		return false, translate("delete task", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
