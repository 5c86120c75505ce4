package recurrence

import (
	"habit-planner/internal/dates"
	"habit-planner/internal/model"
)

// Date calculation is pure: no clock, no storage. All functions take the
// reference date explicitly and guarantee strictly-increasing output for the
// "next" family.

// targetRatio is the soft-goal heuristic: the target date sits at 60% of the
// distance to the hard limit. Downstream insight text depends on the exact
// value, do not tune it.
const targetRatio = 0.6

const (
	defaultTargetDays = 1
	defaultLimitDays  = 7
)

// OccurrenceDates is the computed target/limit pair for a new occurrence.
type OccurrenceDates struct {
	Target dates.Deadline
	Limit  dates.Deadline
}

// NextOccurrenceDate computes the first date strictly after last on which a
// new occurrence should start, according to the rule's pattern. Pattern
// precedence: interval, days of week, days of month, then plain next day.
func NextOccurrenceDate(last dates.Deadline, rec *model.TaskRecurrence) dates.Deadline {
	switch {
	case rec.HasInterval():
		spacing := *rec.Interval
		if rec.MaxOccurrencesValue() > 1 {
			// Spread the cap evenly across the interval.
			spacing = *rec.Interval / rec.MaxOccurrencesValue()
		}
		if spacing < 1 {
			spacing = 1
		}
		return last.AddDays(spacing)
	case rec.HasWeekdays():
		return NextDayOfWeek(last, rec.DaysOfWeek)
	case rec.HasMonthDays():
		return NextDayOfMonth(last, rec.DaysOfMonth)
	default:
		return last.AddDays(1)
	}
}

// CalculateOccurrenceDates derives the target/limit pair for an occurrence
// starting at start. Interval rules use the fixed 60% heuristic against the
// interval; day-pattern rules use the distance to the next pattern date.
func CalculateOccurrenceDates(start dates.Deadline, rec *model.TaskRecurrence) OccurrenceDates {
	switch {
	case rec.HasInterval():
		interval := *rec.Interval
		return OccurrenceDates{
			Target: start.AddDays(scaledDays(interval)),
			Limit:  start.AddDays(interval),
		}
	case rec.HasDayPattern():
		limit := NextOccurrenceDate(start, rec)
		targetDays := scaledDays(start.DaysUntil(limit))
		if targetDays < 1 {
			targetDays = 1
		}
		return OccurrenceDates{
			Target: start.AddDays(targetDays),
			Limit:  limit,
		}
	default:
		return OccurrenceDates{
			Target: start.AddDays(defaultTargetDays),
			Limit:  start.AddDays(defaultLimitDays),
		}
	}
}

func scaledDays(days int) int {
	return int(float64(days) * targetRatio)
}

// NextDayOfWeek finds the earliest day in the set strictly after from,
// wrapping into the following week when no weekday remains in the current
// one.
func NextDayOfWeek(from dates.Deadline, days model.WeekdaySet) dates.Deadline {
	for offset := 1; offset <= 7; offset++ {
		candidate := from.AddDays(offset)
		if days.Contains(candidate.Weekday()) {
			return candidate
		}
	}
	// Unreachable for a non-empty set; keep the contract for an empty one.
	return from.AddDays(1)
}

// NextDayOfMonth finds the earliest pattern day strictly after from: first
// the remaining days of from's month, then the following months. A day that
// does not exist in a candidate month (the 31st against February) is
// detected and skipped. If two successive months yield nothing, the search
// falls back to the pattern's smallest day in the third month, clamped to
// that month's length, so it always terminates.
func NextDayOfMonth(from dates.Deadline, days model.MonthDaySet) dates.Deadline {
	if len(days) == 0 {
		return from.AddDays(1)
	}

	for _, day := range days.Sorted() {
		if day <= from.Day() {
			continue
		}
		if d, ok := dates.DayOfMonth(from.Year(), from.Month(), day); ok {
			return d
		}
	}

	for monthOffset := 1; monthOffset <= 2; monthOffset++ {
		first := from.FirstOfMonth().AddMonths(monthOffset)
		if d, ok := earliestInMonth(first, days); ok {
			return d
		}
	}

	third := from.FirstOfMonth().AddMonths(3)
	day := days.Min()
	if day > third.DaysInMonth() {
		day = third.DaysInMonth()
	}
	return dates.DeadlineOf(third.Year(), third.Month(), day)
}

// FirstDayOfWeekInPeriod locates the first pattern weekday on or after the
// period anchor. Used when a new period begins and its first occurrence must
// be placed.
func FirstDayOfWeekInPeriod(period dates.PeriodStart, days model.WeekdaySet) dates.Deadline {
	start := period.Deadline()
	for offset := 0; offset <= 7; offset++ {
		candidate := start.AddDays(offset)
		if days.Contains(candidate.Weekday()) {
			return candidate
		}
	}
	return start
}

// FirstDayOfMonthInPeriod locates the first pattern day on or after the
// period anchor, with the same overflow handling as NextDayOfMonth.
func FirstDayOfMonthInPeriod(period dates.PeriodStart, days model.MonthDaySet) dates.Deadline {
	start := period.Deadline()
	if len(days) == 0 {
		return start
	}

	for _, day := range days.Sorted() {
		if day < start.Day() {
			continue
		}
		if d, ok := dates.DayOfMonth(start.Year(), start.Month(), day); ok {
			return d
		}
	}
	return NextDayOfMonth(start.LastOfMonth(), days)
}

func earliestInMonth(first dates.Deadline, days model.MonthDaySet) (dates.Deadline, bool) {
	for _, day := range days.Sorted() {
		if d, ok := dates.DayOfMonth(first.Year(), first.Month(), day); ok {
			return d, true
		}
	}
	return dates.Deadline{}, false
}
