package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
	"habit-planner/internal/strategy"
)

// processWorkers bounds how many users are processed concurrently. Work for
// different users never touches the same recurrence, so the fan-out is safe.
const processWorkers = 4

// maxBacklogPerRun caps how many catch-up occurrences one run will create
// for a single task, so a habit dormant for a year cannot flood the table in
// one pass.
const maxBacklogPerRun = 60

// ProcessService is the recurring-task job: it makes sure every active
// recurring task has the occurrences it should have by now, including
// backlog occurrences for habit types.
type ProcessService struct {
	users       UserStore
	tasks       TaskStore
	occurrences OccurrenceStore
	strategies  *strategy.Factory
	creator     *OccurrenceService
	log         *zap.Logger
	now         func() time.Time
}

func NewProcessService(users UserStore, tasks TaskStore, occurrences OccurrenceStore, strategies *strategy.Factory, creator *OccurrenceService, log *zap.Logger) *ProcessService {
	return &ProcessService{
		users:       users,
		tasks:       tasks,
		occurrences: occurrences,
		strategies:  strategies,
		creator:     creator,
		log:         log,
		now:         time.Now,
	}
}

// ProcessRecurringTasks runs one pass over all users.
func (s *ProcessService) ProcessRecurringTasks(ctx context.Context) error {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(processWorkers)
	for _, user := range users {
		user := user
		g.Go(func() error {
			return s.processUser(ctx, user.ID)
		})
	}
	return g.Wait()
}

func (s *ProcessService) processUser(ctx context.Context, userID uint) error {
	tasks, err := s.tasks.ListActiveByUser(ctx, userID)
	if err != nil {
		return err
	}

	for i := range tasks {
		task := &tasks[i]
		if task.IsFixed || task.Recurrence == nil {
			// Fixed tasks were materialized up front; tasks without a rule
			// have nothing to generate.
			continue
		}
		if err := s.processTask(ctx, task); err != nil {
			s.log.Warn("process task failed",
				zap.Uint("task_id", task.ID),
				zap.Error(err))
		}
	}
	return nil
}

// processTask tops up one task's occurrences: at least one pending
// occurrence, plus catch-up occurrences for backlog-generating types.
func (s *ProcessService) processTask(ctx context.Context, task *model.Task) error {
	rec := task.Recurrence
	st := s.strategies.ForTask(task, rec)
	today := dates.Today(s.now())

	for created := 0; created < maxBacklogPerRun; created++ {
		occs, err := s.occurrences.ListByTask(ctx, task.ID)
		if err != nil {
			return err
		}
		if !st.ShouldCreateNextOccurrence(strategy.Input{
			Task:        task,
			Recurrence:  rec,
			Occurrences: occs,
		}) {
			return nil
		}

		if len(occs) > 0 {
			latest := occs[len(occs)-1]
			next := recurrence.NextOccurrenceDate(dates.NewDeadline(latest.StartDate), rec)
			if next.After(today) {
				// The schedule is already ahead of the calendar.
				return nil
			}
			if !st.ShouldGenerateBacklogOccurrences() && !latest.Status.IsFinished() {
				// One pending occurrence is all non-backlog types carry.
				return nil
			}
		}

		if err := s.creator.CreateNextOccurrence(ctx, task.ID, nil); err != nil {
			return err
		}
		if rec.IsSingle() {
			return nil
		}
	}
	return nil
}
