package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
)

// InitialDates lets callers pin the target/limit pair of the occurrence
// being created instead of the computed defaults.
type InitialDates struct {
	Target *time.Time
	Limit  *time.Time
}

// OccurrenceService creates the next occurrence for a task: it walks the
// recurrence state, handles period rollover and persists the result. Its
// locker is shared with the completion workflow so that creation-side
// rollover and completion-side counting never interleave for one task.
type OccurrenceService struct {
	tasks       TaskStore
	occurrences OccurrenceStore
	periods     *recurrence.PeriodManager
	locks       *taskLocker
	log         *zap.Logger
	now         func() time.Time
}

func NewOccurrenceService(tasks TaskStore, occurrences OccurrenceStore, periods *recurrence.PeriodManager, log *zap.Logger) *OccurrenceService {
	return &OccurrenceService{
		tasks:       tasks,
		occurrences: occurrences,
		periods:     periods,
		locks:       newTaskLocker(),
		log:         log,
		now:         time.Now,
	}
}

// CreateNextOccurrence creates the task's next occurrence. One-off tasks get
// their single occurrence and nothing after that; recurring tasks get the
// next date per their rule, with a period-rollover override when the current
// period's cap is already used up.
func (s *OccurrenceService) CreateNextOccurrence(ctx context.Context, taskID uint, initial *InitialDates) error {
	unlock := s.locks.lock(taskID)
	defer unlock()
	return s.createNext(ctx, taskID, initial)
}

// createNext is the unlocked creation path. Callers must hold the task lock.
func (s *OccurrenceService) createNext(ctx context.Context, taskID uint, initial *InitialDates) error {
	task, err := s.tasks.GetWithRecurrence(ctx, taskID)
	if err != nil {
		return err
	}
	rec := task.Recurrence
	today := dates.Today(s.now())

	if rec.IsSingle() {
		return s.createSingle(ctx, task, today, initial)
	}

	next, err := s.nextDate(ctx, taskID, rec, today)
	if err != nil {
		return err
	}
	if next.IsZero() {
		// Past the rule's end date, nothing left to create.
		s.log.Info("recurrence ended, no occurrence created",
			zap.Uint("task_id", taskID))
		return nil
	}

	computed := recurrence.CalculateOccurrenceDates(next, rec)
	occ := &model.TaskOccurrence{
		TaskID:    taskID,
		StartDate: next.Time(),
		Status:    model.StatusPending,
	}
	applyDates(occ, computed, initial)

	if err := s.occurrences.Create(ctx, occ); err != nil {
		return err
	}
	s.log.Debug("occurrence created",
		zap.Uint("task_id", taskID),
		zap.String("start", next.String()))
	return nil
}

// nextDate decides when the next occurrence should start. A zero deadline
// means the rule has run out (end date reached).
func (s *OccurrenceService) nextDate(ctx context.Context, taskID uint, rec *model.TaskRecurrence, today dates.Deadline) (dates.Deadline, error) {
	latest, err := s.occurrences.LatestByTask(ctx, taskID)
	if err != nil {
		return dates.Deadline{}, err
	}

	var next dates.Deadline
	if latest == nil {
		// First occurrence starts immediately.
		next = today
	} else {
		next = recurrence.NextOccurrenceDate(dates.NewDeadline(latest.StartDate), rec)
	}

	if rec.LastPeriodStart != nil && s.periods.HasReachedPeriodLimit(rec) {
		// The current period is full: open the next one and place the
		// occurrence on the period's first pattern date instead of the
		// naive next date.
		newStart, err := s.periods.StartNewPeriod(ctx, rec)
		if err != nil {
			return dates.Deadline{}, fmt.Errorf("task %d: %w", taskID, err)
		}
		next = firstInPeriod(newStart, rec)
	}

	if rec.EndDate != nil && next.After(dates.NewDeadline(*rec.EndDate)) {
		return dates.Deadline{}, nil
	}
	return next, nil
}

func (s *OccurrenceService) createSingle(ctx context.Context, task *model.Task, today dates.Deadline, initial *InitialDates) error {
	existing, err := s.occurrences.LatestByTask(ctx, task.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		// Exactly one occurrence ever exists for a one-off task.
		return nil
	}

	occ := &model.TaskOccurrence{
		TaskID:    task.ID,
		StartDate: today.Time(),
		Status:    model.StatusPending,
	}
	applyDates(occ, recurrence.OccurrenceDates{
		Target: today.AddDays(1),
		Limit:  today.AddDays(7),
	}, initial)
	return s.occurrences.Create(ctx, occ)
}

// firstInPeriod places the first occurrence of a fresh period.
func firstInPeriod(start dates.PeriodStart, rec *model.TaskRecurrence) dates.Deadline {
	switch {
	case rec.HasWeekdays():
		return recurrence.FirstDayOfWeekInPeriod(start, rec.DaysOfWeek)
	case rec.HasMonthDays():
		return recurrence.FirstDayOfMonthInPeriod(start, rec.DaysOfMonth)
	default:
		return start.Deadline()
	}
}

func applyDates(occ *model.TaskOccurrence, computed recurrence.OccurrenceDates, initial *InitialDates) {
	target := computed.Target.Time()
	limit := computed.Limit.Time()
	occ.TargetDate = &target
	occ.LimitDate = &limit
	if initial != nil {
		if initial.Target != nil {
			occ.TargetDate = initial.Target
		}
		if initial.Limit != nil {
			occ.LimitDate = initial.Limit
		}
	}
}
