package service

import (
	"context"
	"time"

	"habit-planner/internal/model"
)

// The engine services talk to persistence through these narrow interfaces;
// internal/repository provides the production implementations.

type TaskStore interface {
	GetWithRecurrence(ctx context.Context, taskID uint) (*model.Task, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]model.Task, error)
	Complete(ctx context.Context, taskID uint, completedAt time.Time) error
	Deactivate(ctx context.Context, taskID uint) error
}

type OccurrenceStore interface {
	Create(ctx context.Context, occ *model.TaskOccurrence) error
	FindByID(ctx context.Context, id uint) (*model.TaskOccurrence, error)
	LatestByTask(ctx context.Context, taskID uint) (*model.TaskOccurrence, error)
	ListByTask(ctx context.Context, taskID uint) ([]model.TaskOccurrence, error)
	ListPendingByUser(ctx context.Context, userID uint) ([]model.TaskOccurrence, error)
	SetStatus(ctx context.Context, id uint, status model.OccurrenceStatus, at time.Time) error
	AddTimeConsumed(ctx context.Context, id uint, minutes int) error
}

type EventStore interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	FindByID(ctx context.Context, id uint) (*model.CalendarEvent, error)
	ListByUser(ctx context.Context, userID uint) ([]model.CalendarEvent, error)
	MarkCompleted(ctx context.Context, id uint) error
}

type UserStore interface {
	ListAll(ctx context.Context) ([]model.User, error)
}
