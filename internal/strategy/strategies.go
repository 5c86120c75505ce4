package strategy

import (
	"context"

	"habit-planner/internal/recurrence"
)

// singleStrategy: exactly one occurrence ever exists, finishing it finishes
// the task.
type singleStrategy struct{}

func (singleStrategy) TaskType() recurrence.TaskType { return recurrence.TypeSingle }

func (s singleStrategy) OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error) {
	return completeTask(in.Task.ID), nil
}

func (s singleStrategy) OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error) {
	return completeTask(in.Task.ID), nil
}

func (s singleStrategy) OnEventCompleted(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (s singleStrategy) OnEventSkipped(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (singleStrategy) ShouldCreateNextOccurrence(in Input) bool {
	// The single occurrence is created once; after that, never again.
	return len(in.Occurrences) == 0
}

func (singleStrategy) ShouldGenerateBacklogOccurrences() bool { return false }
func (singleStrategy) ShouldCompleteTask() bool               { return true }
func (singleStrategy) ShouldDeactivateTask() bool             { return false }

// finiteRecurringStrategy repeats until the total occurrence cap is used up.
// Skips spend the cap the same way completions do.
type finiteRecurringStrategy struct {
	periods PeriodTracker
}

func (finiteRecurringStrategy) TaskType() recurrence.TaskType { return recurrence.TypeFiniteRecurring }

func (s finiteRecurringStrategy) OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error) {
	return s.advance(ctx, in)
}

func (s finiteRecurringStrategy) OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error) {
	return s.advance(ctx, in)
}

func (s finiteRecurringStrategy) advance(ctx context.Context, in Input) (Action, error) {
	if err := countPeriod(ctx, s.periods, in); err != nil {
		return Action{}, err
	}
	if discardedOccurrences(in) < in.Recurrence.MaxOccurrencesValue() {
		return createNext(in.Task.ID), nil
	}
	return completeTask(in.Task.ID), nil
}

func (s finiteRecurringStrategy) OnEventCompleted(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (s finiteRecurringStrategy) OnEventSkipped(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (finiteRecurringStrategy) ShouldCreateNextOccurrence(in Input) bool {
	return discardedOccurrences(in) < in.Recurrence.MaxOccurrencesValue()
}

func (finiteRecurringStrategy) ShouldGenerateBacklogOccurrences() bool { return false }
func (finiteRecurringStrategy) ShouldCompleteTask() bool               { return true }
func (finiteRecurringStrategy) ShouldDeactivateTask() bool             { return false }

// habitStrategy recurs on a plain interval with no end: every finished
// occurrence asks for the next one.
type habitStrategy struct {
	periods PeriodTracker
}

func (habitStrategy) TaskType() recurrence.TaskType { return recurrence.TypeHabit }

func (s habitStrategy) OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error) {
	if err := countPeriod(ctx, s.periods, in); err != nil {
		return Action{}, err
	}
	return createNext(in.Task.ID), nil
}

func (s habitStrategy) OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error) {
	return s.OnOccurrenceCompleted(ctx, in)
}

func (s habitStrategy) OnEventCompleted(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (s habitStrategy) OnEventSkipped(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (habitStrategy) ShouldCreateNextOccurrence(in Input) bool { return true }
func (habitStrategy) ShouldGenerateBacklogOccurrences() bool   { return true }
func (habitStrategy) ShouldCompleteTask() bool                 { return false }
func (habitStrategy) ShouldDeactivateTask() bool               { return false }

// habitPlusStrategy is a habit with period bookkeeping (day pattern or
// per-period cap). Rollover is the period manager's business; the strategy
// itself never auto-completes.
type habitPlusStrategy struct {
	periods PeriodTracker
}

func (habitPlusStrategy) TaskType() recurrence.TaskType { return recurrence.TypeHabitPlus }

func (s habitPlusStrategy) OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error) {
	if err := countPeriod(ctx, s.periods, in); err != nil {
		return Action{}, err
	}
	return createNext(in.Task.ID), nil
}

func (s habitPlusStrategy) OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error) {
	return s.OnOccurrenceCompleted(ctx, in)
}

func (s habitPlusStrategy) OnEventCompleted(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (s habitPlusStrategy) OnEventSkipped(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (habitPlusStrategy) ShouldCreateNextOccurrence(in Input) bool { return true }
func (habitPlusStrategy) ShouldGenerateBacklogOccurrences() bool   { return true }
func (habitPlusStrategy) ShouldCompleteTask() bool                 { return false }
func (habitPlusStrategy) ShouldDeactivateTask() bool               { return false }

// fixedSingleStrategy: the one pre-materialized occurrence/event pair is
// terminal.
type fixedSingleStrategy struct {
	periods PeriodTracker
}

func (fixedSingleStrategy) TaskType() recurrence.TaskType { return recurrence.TypeFixedSingle }

func (s fixedSingleStrategy) OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error) {
	if err := countPeriod(ctx, s.periods, in); err != nil {
		return Action{}, err
	}
	return deactivateTask(in.Task.ID), nil
}

func (s fixedSingleStrategy) OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error) {
	return s.OnOccurrenceCompleted(ctx, in)
}

func (s fixedSingleStrategy) OnEventCompleted(ctx context.Context, in Input) (Action, error) {
	// Event completion is routed through occurrence completion by the
	// workflow; by itself it does nothing.
	return noAction(in.Task.ID), nil
}

func (s fixedSingleStrategy) OnEventSkipped(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (fixedSingleStrategy) ShouldCreateNextOccurrence(in Input) bool { return false }
func (fixedSingleStrategy) ShouldGenerateBacklogOccurrences() bool   { return false }
func (fixedSingleStrategy) ShouldCompleteTask() bool                 { return false }
func (fixedSingleStrategy) ShouldDeactivateTask() bool               { return true }

// fixedRepetitiveStrategy: all occurrences were materialized eagerly, so
// nothing is ever created lazily; the task deactivates once every occurrence
// is finished.
type fixedRepetitiveStrategy struct {
	periods PeriodTracker
}

func (fixedRepetitiveStrategy) TaskType() recurrence.TaskType { return recurrence.TypeFixedRepetitive }

func (s fixedRepetitiveStrategy) OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error) {
	if err := countPeriod(ctx, s.periods, in); err != nil {
		return Action{}, err
	}
	for _, occ := range in.Occurrences {
		if !occ.Status.IsFinished() {
			return noAction(in.Task.ID), nil
		}
	}
	return deactivateTask(in.Task.ID), nil
}

func (s fixedRepetitiveStrategy) OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error) {
	return s.OnOccurrenceCompleted(ctx, in)
}

func (s fixedRepetitiveStrategy) OnEventCompleted(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (s fixedRepetitiveStrategy) OnEventSkipped(ctx context.Context, in Input) (Action, error) {
	return noAction(in.Task.ID), nil
}

func (fixedRepetitiveStrategy) ShouldCreateNextOccurrence(in Input) bool { return false }
func (fixedRepetitiveStrategy) ShouldGenerateBacklogOccurrences() bool   { return false }
func (fixedRepetitiveStrategy) ShouldCompleteTask() bool                 { return false }
func (fixedRepetitiveStrategy) ShouldDeactivateTask() bool               { return true }
