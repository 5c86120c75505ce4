// Package recurrence implements the scheduling core: task-type
// classification, next-occurrence date calculation and period bookkeeping.
// Everything here works at UTC calendar-day granularity via internal/dates.
package recurrence

import "habit-planner/internal/model"

// TaskType is the derived shape of a task. It is a pure function of the
// task's fixed flag and its recurrence rule and is never persisted.
type TaskType int

const (
	// TypeSingle is a one-off: exactly one occurrence ever exists.
	TypeSingle TaskType = iota
	// TypeFiniteRecurring repeats until a total cap of occurrences is used up.
	TypeFiniteRecurring
	// TypeHabit repeats on a plain day interval, unbounded.
	TypeHabit
	// TypeHabitPlus repeats with period bookkeeping: a day pattern or a
	// per-period occurrence cap on top of the interval.
	TypeHabitPlus
	// TypeFixedSingle is one pre-materialized occurrence with wall-clock times.
	TypeFixedSingle
	// TypeFixedRepetitive is a set of pre-materialized timed occurrences.
	TypeFixedRepetitive
)

func (t TaskType) String() string {
	switch t {
	case TypeSingle:
		return "single"
	case TypeFiniteRecurring:
		return "finite_recurring"
	case TypeHabit:
		return "habit"
	case TypeHabitPlus:
		return "habit_plus"
	case TypeFixedSingle:
		return "fixed_single"
	case TypeFixedRepetitive:
		return "fixed_repetitive"
	}
	return "unknown"
}

// IsFixed reports whether occurrences of this type are materialized eagerly
// with wall-clock times.
func (t TaskType) IsFixed() bool {
	return t == TypeFixedSingle || t == TypeFixedRepetitive
}

// Classify maps a task and its recurrence rule to one of the six task types.
// Total: every input yields a type.
func Classify(task *model.Task, rec *model.TaskRecurrence) TaskType {
	if task != nil && task.IsFixed {
		if rec == nil || rec.MaxOccurrencesValue() == 1 {
			return TypeFixedSingle
		}
		return TypeFixedRepetitive
	}

	switch {
	case rec == nil:
		return TypeSingle
	case rec.MaxOccurrencesValue() == 1 && !rec.HasInterval():
		return TypeSingle
	case rec.MaxOccurrencesValue() > 1 && !rec.HasInterval():
		return TypeFiniteRecurring
	case rec.HasInterval():
		if rec.HasDayPattern() || rec.MaxOccurrencesValue() > 1 {
			return TypeHabitPlus
		}
		return TypeHabit
	default:
		return TypeSingle
	}
}
