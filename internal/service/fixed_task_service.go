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

// Fixed tasks carry wall-clock times, so their occurrences and calendar
// events are materialized eagerly up front instead of one at a time. That is
// also why the fixed strategies never ask for lazy creation.

// defaultFixedHorizonDays bounds day-pattern materialization when the rule
// has neither an end date nor an interval.
const defaultFixedHorizonDays = 30

// FixedEventConfig describes the block of time to replicate across the
// materialized dates. Recurrence overrides the task's stored rule when set.
type FixedEventConfig struct {
	StartDateTime time.Time
	EndDateTime   time.Time
	Recurrence    *model.TaskRecurrence
}

type FixedTaskService struct {
	tasks       TaskStore
	occurrences OccurrenceStore
	events      EventStore
	log         *zap.Logger
}

func NewFixedTaskService(tasks TaskStore, occurrences OccurrenceStore, events EventStore, log *zap.Logger) *FixedTaskService {
	return &FixedTaskService{
		tasks:       tasks,
		occurrences: occurrences,
		events:      events,
		log:         log,
	}
}

// CreateFixedTaskEvents materializes every occurrence/event pair for a fixed
// task. Each date gets one occurrence (start, target and limit all on that
// day) and one event combining the date with the configured time of day.
func (s *FixedTaskService) CreateFixedTaskEvents(ctx context.Context, taskID, ownerID uint, cfg FixedEventConfig) error {
	task, err := s.tasks.GetWithRecurrence(ctx, taskID)
	if err != nil {
		return err
	}
	if cfg.StartDateTime.IsZero() || cfg.EndDateTime.IsZero() {
		return fmt.Errorf("fixed task %d: start and end datetimes are required", taskID)
	}

	rec := cfg.Recurrence
	if rec == nil {
		rec = task.Recurrence
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	start := dates.NewEventTime(cfg.StartDateTime)
	finish := dates.NewEventTime(cfg.EndDateTime)
	duration := start.MinutesUntil(finish)
	if duration < 0 {
		return fmt.Errorf("fixed task %d: end time before start time", taskID)
	}

	days := materializeDates(start.Day(), rec)
	if max := rec.MaxOccurrencesValue(); max > 0 && len(days) > max {
		days = days[:max]
	}

	for _, day := range days {
		occ := &model.TaskOccurrence{
			TaskID:    taskID,
			StartDate: day.Time(),
			Status:    model.StatusPending,
		}
		target := day.Time()
		limit := day.Time()
		occ.TargetDate = &target
		occ.LimitDate = &limit
		if err := s.occurrences.Create(ctx, occ); err != nil {
			return err
		}

		event := &model.CalendarEvent{
			UserID:        ownerID,
			OccurrenceID:  &occ.ID,
			Title:         task.Name,
			IsFixed:       true,
			Start:         start.OnDay(day).Time(),
			Finish:        finish.OnDay(day).Time(),
			DedicatedTime: duration,
		}
		if err := s.events.Create(ctx, event); err != nil {
			return err
		}
	}

	s.log.Debug("fixed task materialized",
		zap.Uint("task_id", taskID),
		zap.Int("occurrences", len(days)))
	return nil
}

// materializeDates computes the full set of dates for a fixed task: the one
// target date for single rules, every pattern date up to a horizon for day
// patterns, otherwise maxOccurrences dates spaced by the interval.
func materializeDates(first dates.Deadline, rec *model.TaskRecurrence) []dates.Deadline {
	if rec == nil || rec.MaxOccurrencesValue() == 1 {
		return []dates.Deadline{first}
	}

	if rec.HasDayPattern() {
		return patternDates(first, rec)
	}

	count := rec.MaxOccurrencesValue()
	if count == 0 {
		count = 1
	}
	spacing := 1
	if rec.HasInterval() {
		spacing = *rec.Interval
	}
	days := make([]dates.Deadline, 0, count)
	for i := 0; i < count; i++ {
		days = append(days, first.AddDays(i*spacing))
	}
	return days
}

func patternDates(first dates.Deadline, rec *model.TaskRecurrence) []dates.Deadline {
	horizon := first.AddDays(defaultFixedHorizonDays)
	if rec.EndDate != nil {
		horizon = dates.NewDeadline(*rec.EndDate)
	} else if rec.HasInterval() {
		horizon = first.AddDays(*rec.Interval)
	}

	// Walk the pattern itself; an interval on the rule only bounds the
	// horizon here, it does not space the dates.
	var days []dates.Deadline
	day := firstInPeriod(dates.NewPeriodStart(first.Time()), rec)
	for day.OnOrBefore(horizon) {
		days = append(days, day)
		var next dates.Deadline
		if rec.HasWeekdays() {
			next = recurrence.NextDayOfWeek(day, rec.DaysOfWeek)
		} else {
			next = recurrence.NextDayOfMonth(day, rec.DaysOfMonth)
		}
		if !next.After(day) {
			break
		}
		day = next
	}
	return days
}
