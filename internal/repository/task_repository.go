package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"habit-planner/internal/model"
)

// TaskRepository handles CRUD for tasks and their recurrence rules.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := task.Recurrence.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetWithRecurrence loads a task together with its recurrence rule. A task
// without a rule comes back with Recurrence == nil; a missing task is
// ErrNotFound.
func (r *TaskRepository) GetWithRecurrence(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Recurrence").First(&task, taskID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get task %d: %w", taskID, err)
	}
	return &task, nil
}

// ListActiveByUser returns the user's active tasks with recurrences loaded.
func (r *TaskRepository) ListActiveByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Recurrence").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("importance DESC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return tasks, nil
}

// Complete closes the task for good: it keeps its history but no further
// occurrences are created for it.
func (r *TaskRepository) Complete(ctx context.Context, taskID uint, completedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"is_active":    false,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("complete task %d: %w", taskID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return nil
}

// Deactivate soft-deletes the task without recording a completion time.
func (r *TaskRepository) Deactivate(ctx context.Context, taskID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate task %d: %w", taskID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return nil
}

// Delete removes a task; the recurrence and occurrences cascade with it.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
