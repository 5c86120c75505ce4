package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"habit-planner/internal/model"
)

// EventRepository handles CRUD for calendar events.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.CalendarEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.db.WithContext(ctx).First(&event, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return &event, nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID uint) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("start ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) ListByOccurrence(ctx context.Context, occurrenceID uint) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	if err := r.db.WithContext(ctx).Where("occurrence_id = ?", occurrenceID).
		Order("start ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events for occurrence %d: %w", occurrenceID, err)
	}
	return events, nil
}

func (r *EventRepository) MarkCompleted(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.CalendarEvent{}).Where("id = ?", id).
		Update("is_completed", true)
	if res.Error != nil {
		return fmt.Errorf("complete event %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return nil
}
