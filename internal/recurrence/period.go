package recurrence

import (
	"context"
	"fmt"
	"time"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
)

// RecurrenceStore is the slice of persistence the period manager needs. The
// counter and period anchor on a recurrence are mutated exclusively through
// this interface, and exclusively by the period manager.
type RecurrenceStore interface {
	GetByID(ctx context.Context, id uint) (*model.TaskRecurrence, error)
	Update(ctx context.Context, id uint, update model.RecurrenceUpdate) error
}

// PeriodManager tracks period windows for period-based recurrences and owns
// the per-period completion counter. Callers must serialize calls per
// recurrence id; the manager itself does read-modify-write against the
// store.
type PeriodManager struct {
	store RecurrenceStore
}

func NewPeriodManager(store RecurrenceStore) *PeriodManager {
	return &PeriodManager{store: store}
}

// PeriodEnd computes the exclusive end of the period anchored at start.
// Interval rules span interval days, weekday patterns one week, month-day
// patterns run to the first day of the following month. A rule with no
// cadence leaves the anchor unchanged.
func (m *PeriodManager) PeriodEnd(start dates.PeriodStart, rec *model.TaskRecurrence) (dates.PeriodStart, error) {
	switch {
	case rec != nil && rec.Interval != nil:
		if *rec.Interval <= 0 {
			return dates.PeriodStart{}, fmt.Errorf("period end: recurrence %d has interval cadence without a positive interval", rec.ID)
		}
		return start.AddDays(*rec.Interval), nil
	case rec.HasWeekdays():
		return start.AddDays(7), nil
	case rec.HasMonthDays():
		return start.FirstOfNextMonth(), nil
	default:
		return start, nil
	}
}

// NextPeriodStart advances the anchor by exactly one period.
func (m *PeriodManager) NextPeriodStart(current dates.PeriodStart, rec *model.TaskRecurrence) (dates.PeriodStart, error) {
	next, err := m.PeriodEnd(current, rec)
	if err != nil {
		return dates.PeriodStart{}, err
	}
	if next.Equal(current) {
		return dates.PeriodStart{}, fmt.Errorf("next period: recurrence %d has no cadence to advance by", recID(rec))
	}
	return next, nil
}

// HasReachedPeriodLimit reports whether the current period's counter has hit
// the cap. Always false for uncapped rules.
func (m *PeriodManager) HasReachedPeriodLimit(rec *model.TaskRecurrence) bool {
	if rec == nil || rec.MaxOccurrences == nil {
		return false
	}
	return rec.CompletedOccurrencesValue() >= *rec.MaxOccurrences
}

// ShouldStartNewPeriod reports whether now falls at or past the end of the
// current period. Only meaningful for rules that carry both a cap and an
// anchor.
func (m *PeriodManager) ShouldStartNewPeriod(rec *model.TaskRecurrence, now time.Time) (bool, error) {
	if rec == nil || rec.MaxOccurrences == nil || rec.LastPeriodStart == nil {
		return false, nil
	}
	end, err := m.PeriodEnd(dates.NewPeriodStart(*rec.LastPeriodStart), rec)
	if err != nil {
		return false, err
	}
	return dates.NewTimestamp(now).OnOrAfterDay(end.Deadline()), nil
}

// IncrementCompletedOccurrences counts one finished occurrence against the
// period its start date belongs to. Start dates inside the current window
// bump the counter; dates at or past the window's end fast-forward the
// anchor to the period containing them and reset the counter to 1; dates
// before the window (backlog) leave the counter alone, so historical
// completions never inflate the current period.
func (m *PeriodManager) IncrementCompletedOccurrences(ctx context.Context, recurrenceID uint, occurrenceStart dates.Deadline) error {
	rec, err := m.store.GetByID(ctx, recurrenceID)
	if err != nil {
		return fmt.Errorf("increment completed occurrences: %w", err)
	}

	if rec.LastPeriodStart == nil {
		count := rec.CompletedOccurrencesValue() + 1
		return m.store.Update(ctx, rec.ID, model.RecurrenceUpdate{CompletedOccurrences: &count})
	}

	start := dates.NewPeriodStart(*rec.LastPeriodStart)
	end, err := m.PeriodEnd(start, rec)
	if err != nil {
		return err
	}

	switch {
	case occurrenceStart.Before(start.Deadline()):
		// Backlog completion from an earlier period.
		return nil
	case start.Contains(occurrenceStart, end):
		count := rec.CompletedOccurrencesValue() + 1
		return m.store.Update(ctx, rec.ID, model.RecurrenceUpdate{CompletedOccurrences: &count})
	default:
		// Completion belongs to a future period: fast-forward the anchor
		// until it contains the occurrence, then count it as the first of
		// that period.
		for !start.Contains(occurrenceStart, end) {
			start = end
			end, err = m.PeriodEnd(start, rec)
			if err != nil {
				return err
			}
			if !end.After(start) {
				return fmt.Errorf("increment completed occurrences: recurrence %d period does not advance", rec.ID)
			}
		}
		count := 1
		anchor := start.Time()
		return m.store.Update(ctx, rec.ID, model.RecurrenceUpdate{
			CompletedOccurrences: &count,
			LastPeriodStart:      &anchor,
		})
	}
}

// StartNewPeriod advances the stored anchor one period and clears the
// counter. Used by occurrence creation when the current period's cap is
// exhausted.
func (m *PeriodManager) StartNewPeriod(ctx context.Context, rec *model.TaskRecurrence) (dates.PeriodStart, error) {
	if rec.LastPeriodStart == nil {
		return dates.PeriodStart{}, fmt.Errorf("start new period: recurrence %d has no period anchor", recID(rec))
	}
	next, err := m.NextPeriodStart(dates.NewPeriodStart(*rec.LastPeriodStart), rec)
	if err != nil {
		return dates.PeriodStart{}, err
	}
	count := 0
	anchor := next.Time()
	if err := m.store.Update(ctx, rec.ID, model.RecurrenceUpdate{
		CompletedOccurrences: &count,
		LastPeriodStart:      &anchor,
	}); err != nil {
		return dates.PeriodStart{}, err
	}
	return next, nil
}

func recID(rec *model.TaskRecurrence) uint {
	if rec == nil {
		return 0
	}
	return rec.ID
}
