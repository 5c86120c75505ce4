package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"habit-planner/internal/model"
)

// OccurrenceRepository handles CRUD for task occurrences.
type OccurrenceRepository struct {
	db *gorm.DB
}

func NewOccurrenceRepository(db *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

func (r *OccurrenceRepository) Create(ctx context.Context, occ *model.TaskOccurrence) error {
	if err := r.db.WithContext(ctx).Create(occ).Error; err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}
	return nil
}

func (r *OccurrenceRepository) FindByID(ctx context.Context, id uint) (*model.TaskOccurrence, error) {
	var occ model.TaskOccurrence
	err := r.db.WithContext(ctx).First(&occ, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("occurrence %d: %w", id, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get occurrence %d: %w", id, err)
	}
	return &occ, nil
}

// LatestByTask returns the task's newest occurrence by start date, nil when
// the task has none yet.
func (r *OccurrenceRepository) LatestByTask(ctx context.Context, taskID uint) (*model.TaskOccurrence, error) {
	var occ model.TaskOccurrence
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Order("start_date DESC, id DESC").
		First(&occ).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("latest occurrence for task %d: %w", taskID, err)
	}
	return &occ, nil
}

func (r *OccurrenceRepository) ListByTask(ctx context.Context, taskID uint) ([]model.TaskOccurrence, error) {
	var occs []model.TaskOccurrence
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Order("start_date ASC, id ASC").
		Find(&occs).Error; err != nil {
		return nil, fmt.Errorf("list occurrences for task %d: %w", taskID, err)
	}
	return occs, nil
}

// ListPendingByUser returns unfinished occurrences of the user's active
// tasks, soonest limit first.
func (r *OccurrenceRepository) ListPendingByUser(ctx context.Context, userID uint) ([]model.TaskOccurrence, error) {
	var occs []model.TaskOccurrence
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = task_occurrences.task_id").
		Where("tasks.user_id = ? AND tasks.is_active = ? AND task_occurrences.status IN ?",
			userID, true, []model.OccurrenceStatus{model.StatusPending, model.StatusInProgress}).
		Order("task_occurrences.limit_date ASC, task_occurrences.start_date ASC").
		Find(&occs).Error; err != nil {
		return nil, fmt.Errorf("list pending occurrences: %w", err)
	}
	return occs, nil
}

// SetStatus moves an occurrence through its lifecycle. CompletedAt is
// recorded for finished statuses and cleared otherwise.
func (r *OccurrenceRepository) SetStatus(ctx context.Context, id uint, status model.OccurrenceStatus, at time.Time) error {
	fields := map[string]interface{}{"status": status}
	if status.IsFinished() {
		fields["completed_at"] = at
	} else {
		fields["completed_at"] = nil
	}

	res := r.db.WithContext(ctx).Model(&model.TaskOccurrence{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("set occurrence %d status: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("occurrence %d: %w", id, ErrNotFound)
	}
	return nil
}

// AddTimeConsumed accrues minutes spent on the occurrence.
func (r *OccurrenceRepository) AddTimeConsumed(ctx context.Context, id uint, minutes int) error {
	res := r.db.WithContext(ctx).Model(&model.TaskOccurrence{}).Where("id = ?", id).
		Update("time_consumed", gorm.Expr("COALESCE(time_consumed, 0) + ?", minutes))
	if res.Error != nil {
		return fmt.Errorf("add time to occurrence %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("occurrence %d: %w", id, ErrNotFound)
	}
	return nil
}
