package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"habit-planner/internal/model"
)

// RecurrenceRepository manages recurrence rules. Counter and anchor writes
// go through Update only, which is the period manager's entry point.
type RecurrenceRepository struct {
	db *gorm.DB
}

func NewRecurrenceRepository(db *gorm.DB) *RecurrenceRepository {
	return &RecurrenceRepository{db: db}
}

func (r *RecurrenceRepository) GetByID(ctx context.Context, id uint) (*model.TaskRecurrence, error) {
	var rec model.TaskRecurrence
	err := r.db.WithContext(ctx).First(&rec, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("recurrence %d: %w", id, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get recurrence %d: %w", id, err)
	}
	return &rec, nil
}

// Update applies counter/anchor changes. Only fields present in the update
// are written.
func (r *RecurrenceRepository) Update(ctx context.Context, id uint, update model.RecurrenceUpdate) error {
	fields := map[string]interface{}{}
	if update.CompletedOccurrences != nil {
		fields["completed_occurrences"] = *update.CompletedOccurrences
	}
	if update.LastPeriodStart != nil {
		fields["last_period_start"] = *update.LastPeriodStart
	}
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.TaskRecurrence{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update recurrence %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recurrence %d: %w", id, ErrNotFound)
	}
	return nil
}
