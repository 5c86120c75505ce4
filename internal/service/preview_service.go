package service

import (
	"context"
	"time"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
	"habit-planner/internal/strategy"
)

// PreviewService answers "when would the next occurrence start?" without
// touching any state. Whether a next occurrence should exist at all is the
// strategy layer's call, not re-derived here.
type PreviewService struct {
	tasks       TaskStore
	occurrences OccurrenceStore
	periods     *recurrence.PeriodManager
	strategies  *strategy.Factory
	now         func() time.Time
}

func NewPreviewService(tasks TaskStore, occurrences OccurrenceStore, periods *recurrence.PeriodManager, strategies *strategy.Factory) *PreviewService {
	return &PreviewService{
		tasks:       tasks,
		occurrences: occurrences,
		periods:     periods,
		strategies:  strategies,
		now:         time.Now,
	}
}

// PreviewNextOccurrenceDate returns the start date the next occurrence would
// get, or nil when the task's strategy says no further occurrence should
// exist.
func (s *PreviewService) PreviewNextOccurrenceDate(ctx context.Context, taskID uint) (*time.Time, error) {
	task, err := s.tasks.GetWithRecurrence(ctx, taskID)
	if err != nil {
		return nil, err
	}
	rec := task.Recurrence

	occs, err := s.occurrences.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	st := s.strategies.ForTask(task, rec)
	if !st.ShouldCreateNextOccurrence(strategy.Input{
		Task:        task,
		Recurrence:  rec,
		Occurrences: occs,
	}) {
		return nil, nil
	}

	today := dates.Today(s.now())
	if rec.IsSingle() {
		t := today.Time()
		return &t, nil
	}

	next, err := s.previewDate(occs, rec, today)
	if err != nil {
		return nil, err
	}
	if next.IsZero() {
		return nil, nil
	}
	t := next.Time()
	return &t, nil
}

// previewDate mirrors the creation service's decision tree, computing the
// rollover override without persisting it.
func (s *PreviewService) previewDate(occs []model.TaskOccurrence, rec *model.TaskRecurrence, today dates.Deadline) (dates.Deadline, error) {
	var next dates.Deadline
	if len(occs) == 0 {
		next = today
	} else {
		latest := occs[len(occs)-1]
		next = recurrence.NextOccurrenceDate(dates.NewDeadline(latest.StartDate), rec)
	}

	if rec.LastPeriodStart != nil && s.periods.HasReachedPeriodLimit(rec) {
		newStart, err := s.periods.NextPeriodStart(dates.NewPeriodStart(*rec.LastPeriodStart), rec)
		if err != nil {
			return dates.Deadline{}, err
		}
		next = firstInPeriod(newStart, rec)
	}

	if rec.EndDate != nil && next.After(dates.NewDeadline(*rec.EndDate)) {
		return dates.Deadline{}, nil
	}
	return next, nil
}
