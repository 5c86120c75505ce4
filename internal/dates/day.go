// Package dates holds the value types the recurrence engine does its
// arithmetic with. Recurrence decisions are made at calendar-day granularity
// in UTC; wall-clock instants only matter for fixed tasks and are kept in
// separate types so the two granularities cannot be mixed up by accident.
package dates

import "time"

const dayLayout = "2006-01-02"

// Deadline is a calendar day in UTC. The zero value is "no deadline".
type Deadline struct {
	t time.Time
}

// NewDeadline truncates an instant to its UTC calendar day.
func NewDeadline(t time.Time) Deadline {
	if t.IsZero() {
		return Deadline{}
	}
	u := t.UTC()
	return Deadline{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// DeadlineOf builds a day directly from its components. The components are
// normalized the way time.Date normalizes them, so callers that need
// overflow detection should use DayOfMonth instead.
func DeadlineOf(year int, month time.Month, day int) Deadline {
	return Deadline{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOfMonth builds year/month/day and reports whether the day actually
// exists in that month. time.Date silently rolls 2024-02-31 over into March;
// the recurrence search must notice that and keep looking instead.
func DayOfMonth(year int, month time.Month, day int) (Deadline, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return Deadline{}, false
	}
	return Deadline{t: d}, true
}

// Today is the current UTC calendar day.
func Today(now time.Time) Deadline {
	return NewDeadline(now)
}

func (d Deadline) IsZero() bool { return d.t.IsZero() }

// Time returns the UTC midnight instant of the day.
func (d Deadline) Time() time.Time { return d.t }

func (d Deadline) Year() int         { return d.t.Year() }
func (d Deadline) Month() time.Month { return d.t.Month() }
func (d Deadline) Day() int          { return d.t.Day() }

func (d Deadline) Weekday() time.Weekday { return d.t.Weekday() }

func (d Deadline) AddDays(n int) Deadline {
	return Deadline{t: d.t.AddDate(0, 0, n)}
}

func (d Deadline) AddMonths(n int) Deadline {
	return Deadline{t: d.t.AddDate(0, n, 0)}
}

func (d Deadline) Before(o Deadline) bool { return d.t.Before(o.t) }
func (d Deadline) After(o Deadline) bool  { return d.t.After(o.t) }
func (d Deadline) Equal(o Deadline) bool  { return d.t.Equal(o.t) }

// OnOrAfter reports d >= o.
func (d Deadline) OnOrAfter(o Deadline) bool { return !d.t.Before(o.t) }

// OnOrBefore reports d <= o.
func (d Deadline) OnOrBefore(o Deadline) bool { return !d.t.After(o.t) }

// DaysUntil counts whole days from d to o; negative when o is earlier.
func (d Deadline) DaysUntil(o Deadline) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

// FirstOfMonth is the first day of d's month.
func (d Deadline) FirstOfMonth() Deadline {
	return DeadlineOf(d.Year(), d.Month(), 1)
}

// FirstOfNextMonth is the first day of the month after d's.
func (d Deadline) FirstOfNextMonth() Deadline {
	return d.FirstOfMonth().AddMonths(1)
}

// LastOfMonth is the final day of d's month.
func (d Deadline) LastOfMonth() Deadline {
	return d.FirstOfNextMonth().AddDays(-1)
}

// DaysInMonth is the number of days in d's month.
func (d Deadline) DaysInMonth() int {
	return d.LastOfMonth().Day()
}

// At combines the day with a time-of-day, yielding a wall-clock instant.
func (d Deadline) At(clock EventTime) time.Time {
	c := clock.Time()
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC)
}

func (d Deadline) Format() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

func (d Deadline) String() string { return d.Format() }

// PeriodStart anchors a recurrence period window. Day granularity, UTC, same
// representation as Deadline but a distinct type so that period arithmetic
// and deadline arithmetic stay separate in signatures.
type PeriodStart struct {
	t time.Time
}

func NewPeriodStart(t time.Time) PeriodStart {
	return PeriodStart{t: NewDeadline(t).Time()}
}

func PeriodStartOf(year int, month time.Month, day int) PeriodStart {
	return PeriodStart{t: DeadlineOf(year, month, day).Time()}
}

func (p PeriodStart) IsZero() bool    { return p.t.IsZero() }
func (p PeriodStart) Time() time.Time { return p.t }

// Deadline converts the anchor to a plain calendar day.
func (p PeriodStart) Deadline() Deadline { return Deadline{t: p.t} }

func (p PeriodStart) AddDays(n int) PeriodStart {
	return PeriodStart{t: p.t.AddDate(0, 0, n)}
}

// FirstOfNextMonth advances the anchor to the first day of the next month.
func (p PeriodStart) FirstOfNextMonth() PeriodStart {
	return PeriodStart{t: p.Deadline().FirstOfNextMonth().Time()}
}

func (p PeriodStart) Before(o PeriodStart) bool { return p.t.Before(o.t) }
func (p PeriodStart) After(o PeriodStart) bool  { return p.t.After(o.t) }
func (p PeriodStart) Equal(o PeriodStart) bool  { return p.t.Equal(o.t) }

// Contains reports whether day falls in [p, end).
func (p PeriodStart) Contains(day Deadline, end PeriodStart) bool {
	return day.OnOrAfter(p.Deadline()) && day.Before(end.Deadline())
}

func (p PeriodStart) Format() string {
	if p.IsZero() {
		return ""
	}
	return p.t.Format(dayLayout)
}

func (p PeriodStart) String() string { return p.Format() }
