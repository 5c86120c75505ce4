package strategy

import (
	"context"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
)

// PeriodTracker is the single capability strategies get for mutating
// recurrence state. It is the period manager in production and a fake in
// tests.
type PeriodTracker interface {
	IncrementCompletedOccurrences(ctx context.Context, recurrenceID uint, occurrenceStart dates.Deadline) error
}

// Input is the state a strategy decides on. Occurrence is the one that just
// changed status; Occurrences is the task's full occurrence set after that
// change.
type Input struct {
	Task        *model.Task
	Recurrence  *model.TaskRecurrence
	Occurrence  *model.TaskOccurrence
	Occurrences []model.TaskOccurrence
}

// Strategy is the per-task-type behavior behind occurrence and event
// completion. Implementations are stateless apart from the injected period
// tracker and safe to use concurrently across different tasks.
type Strategy interface {
	TaskType() recurrence.TaskType

	OnOccurrenceCompleted(ctx context.Context, in Input) (Action, error)
	OnOccurrenceSkipped(ctx context.Context, in Input) (Action, error)
	OnEventCompleted(ctx context.Context, in Input) (Action, error)
	OnEventSkipped(ctx context.Context, in Input) (Action, error)

	ShouldCreateNextOccurrence(in Input) bool
	ShouldGenerateBacklogOccurrences() bool
	ShouldCompleteTask() bool
	ShouldDeactivateTask() bool
}

// Factory hands out the strategy matching a task's classified type.
type Factory struct {
	periods PeriodTracker
}

func NewFactory(periods PeriodTracker) *Factory {
	return &Factory{periods: periods}
}

// ForTask classifies the task and returns its strategy.
func (f *Factory) ForTask(task *model.Task, rec *model.TaskRecurrence) Strategy {
	return f.ForType(recurrence.Classify(task, rec))
}

// ForType returns the strategy for an already-classified type. The switch is
// exhaustive over the task-type constants; adding a type without a strategy
// is a compile-visible gap here.
func (f *Factory) ForType(t recurrence.TaskType) Strategy {
	switch t {
	case recurrence.TypeSingle:
		return singleStrategy{}
	case recurrence.TypeFiniteRecurring:
		return finiteRecurringStrategy{periods: f.periods}
	case recurrence.TypeHabit:
		return habitStrategy{periods: f.periods}
	case recurrence.TypeHabitPlus:
		return habitPlusStrategy{periods: f.periods}
	case recurrence.TypeFixedSingle:
		return fixedSingleStrategy{periods: f.periods}
	case recurrence.TypeFixedRepetitive:
		return fixedRepetitiveStrategy{periods: f.periods}
	}
	return singleStrategy{}
}

// countPeriod records the finished occurrence against its period when the
// task has a recurrence to count on.
func countPeriod(ctx context.Context, periods PeriodTracker, in Input) error {
	if periods == nil || in.Recurrence == nil || in.Occurrence == nil {
		return nil
	}
	return periods.IncrementCompletedOccurrences(ctx, in.Recurrence.ID, dates.NewDeadline(in.Occurrence.StartDate))
}

// discardedOccurrences counts occurrences that no longer need work.
func discardedOccurrences(in Input) int {
	n := 0
	for _, occ := range in.Occurrences {
		if occ.Status.IsFinished() {
			n++
		}
	}
	return n
}
