package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habit-planner/internal/model"
	"habit-planner/internal/strategy"
)

// CompletionService drives the occurrence/event lifecycle: it records the
// status change, asks the task's strategy what should happen next and
// executes the returned action. Mutations are serialized per task through
// the creator's locker, because the period counter behind the strategies is
// read-modify-write and the scheduled creation pass touches the same state.
type CompletionService struct {
	tasks       TaskStore
	occurrences OccurrenceStore
	events      EventStore
	strategies  *strategy.Factory
	creator     *OccurrenceService
	log         *zap.Logger
	now         func() time.Time
}

func NewCompletionService(tasks TaskStore, occurrences OccurrenceStore, events EventStore, strategies *strategy.Factory, creator *OccurrenceService, log *zap.Logger) *CompletionService {
	return &CompletionService{
		tasks:       tasks,
		occurrences: occurrences,
		events:      events,
		strategies:  strategies,
		creator:     creator,
		log:         log,
		now:         time.Now,
	}
}

// CompleteOccurrence marks the occurrence completed and runs the strategy's
// follow-up.
func (s *CompletionService) CompleteOccurrence(ctx context.Context, occurrenceID uint) error {
	return s.finishOccurrence(ctx, occurrenceID, model.StatusCompleted)
}

// SkipOccurrence marks the occurrence skipped. For capped task types a skip
// spends the cap just like a completion.
func (s *CompletionService) SkipOccurrence(ctx context.Context, occurrenceID uint) error {
	return s.finishOccurrence(ctx, occurrenceID, model.StatusSkipped)
}

func (s *CompletionService) finishOccurrence(ctx context.Context, occurrenceID uint, status model.OccurrenceStatus) error {
	occ, err := s.occurrences.FindByID(ctx, occurrenceID)
	if err != nil {
		return err
	}
	task, err := s.tasks.GetWithRecurrence(ctx, occ.TaskID)
	if err != nil {
		return err
	}

	unlock := s.creator.locks.lock(task.ID)
	defer unlock()

	now := s.now()
	if err := s.occurrences.SetStatus(ctx, occ.ID, status, now); err != nil {
		return err
	}
	occ.Status = status
	occ.CompletedAt = &now

	all, err := s.occurrences.ListByTask(ctx, task.ID)
	if err != nil {
		return err
	}

	st := s.strategies.ForTask(task, task.Recurrence)
	in := strategy.Input{
		Task:        task,
		Recurrence:  task.Recurrence,
		Occurrence:  occ,
		Occurrences: all,
	}

	var action strategy.Action
	if status == model.StatusCompleted {
		action, err = st.OnOccurrenceCompleted(ctx, in)
	} else {
		action, err = st.OnOccurrenceSkipped(ctx, in)
	}
	if err != nil {
		return fmt.Errorf("occurrence %d strategy: %w", occ.ID, err)
	}

	s.log.Debug("occurrence finished",
		zap.Uint("occurrence_id", occ.ID),
		zap.String("status", string(status)),
		zap.String("task_type", st.TaskType().String()),
		zap.String("action", action.Type.String()))

	return s.execute(ctx, action)
}

// CompleteEvent finishes a calendar event. For fixed tasks the event routes
// through its occurrence, which is where the strategy acts; a free-standing
// event just accrues its dedicated time. The event is only marked completed
// once its occurrence routing has gone through, so a failure midway leaves
// the event open for a retry instead of stranding the occurrence.
func (s *CompletionService) CompleteEvent(ctx context.Context, eventID uint) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OccurrenceID == nil {
		return s.events.MarkCompleted(ctx, eventID)
	}

	occ, err := s.occurrences.FindByID(ctx, *event.OccurrenceID)
	if err != nil {
		return err
	}
	if event.DedicatedTime > 0 {
		if err := s.occurrences.AddTimeConsumed(ctx, occ.ID, event.DedicatedTime); err != nil {
			return err
		}
	}

	task, err := s.tasks.GetWithRecurrence(ctx, occ.TaskID)
	if err != nil {
		return err
	}
	if task.IsFixed && !occ.Status.IsFinished() {
		if err := s.CompleteOccurrence(ctx, occ.ID); err != nil {
			return err
		}
		return s.events.MarkCompleted(ctx, eventID)
	}

	if err := s.events.MarkCompleted(ctx, eventID); err != nil {
		return err
	}

	unlock := s.creator.locks.lock(task.ID)
	defer unlock()

	st := s.strategies.ForTask(task, task.Recurrence)
	action, err := st.OnEventCompleted(ctx, strategy.Input{Task: task, Recurrence: task.Recurrence, Occurrence: occ})
	if err != nil {
		return fmt.Errorf("event %d strategy: %w", eventID, err)
	}
	return s.execute(ctx, action)
}

// SkipEvent drops a planned event. Fixed-task events route through
// occurrence skipping, anything else is a no-op beyond the event itself.
func (s *CompletionService) SkipEvent(ctx context.Context, eventID uint) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OccurrenceID == nil {
		return nil
	}
	occ, err := s.occurrences.FindByID(ctx, *event.OccurrenceID)
	if err != nil {
		return err
	}
	task, err := s.tasks.GetWithRecurrence(ctx, occ.TaskID)
	if err != nil {
		return err
	}
	if task.IsFixed && !occ.Status.IsFinished() {
		return s.SkipOccurrence(ctx, occ.ID)
	}

	unlock := s.creator.locks.lock(task.ID)
	defer unlock()

	st := s.strategies.ForTask(task, task.Recurrence)
	action, err := st.OnEventSkipped(ctx, strategy.Input{Task: task, Recurrence: task.Recurrence, Occurrence: occ})
	if err != nil {
		return fmt.Errorf("event %d strategy: %w", eventID, err)
	}
	return s.execute(ctx, action)
}

// execute runs the strategy's verdict. Callers hold the task lock, so the
// creation path is entered directly rather than through the locking wrapper.
func (s *CompletionService) execute(ctx context.Context, action strategy.Action) error {
	switch action.Type {
	case strategy.ActionCreateNextOccurrence:
		return s.creator.createNext(ctx, action.TaskID, nil)
	case strategy.ActionCompleteTask:
		return s.tasks.Complete(ctx, action.TaskID, s.now())
	case strategy.ActionDeactivateTask:
		return s.tasks.Deactivate(ctx, action.TaskID)
	case strategy.ActionNone:
		return nil
	}
	return fmt.Errorf("unknown strategy action %d", action.Type)
}
