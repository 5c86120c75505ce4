package dates

import "time"

const instantLayout = "2006-01-02 15:04"

// EventTime is a wall-clock instant carried by fixed tasks and calendar
// events. Unlike Deadline it keeps the time of day.
type EventTime struct {
	t time.Time
}

func NewEventTime(t time.Time) EventTime {
	return EventTime{t: t.UTC().Truncate(time.Minute)}
}

func (e EventTime) IsZero() bool    { return e.t.IsZero() }
func (e EventTime) Time() time.Time { return e.t }

// Day is the UTC calendar day the instant falls on.
func (e EventTime) Day() Deadline { return NewDeadline(e.t) }

// ClockMinutes is the offset from midnight, in minutes. Used when the same
// time of day has to be replayed onto a different calendar day.
func (e EventTime) ClockMinutes() int {
	return e.t.Hour()*60 + e.t.Minute()
}

// OnDay keeps the time of day but moves the instant onto another day.
func (e EventTime) OnDay(d Deadline) EventTime {
	return EventTime{t: d.At(e)}
}

func (e EventTime) Before(o EventTime) bool { return e.t.Before(o.t) }
func (e EventTime) After(o EventTime) bool  { return e.t.After(o.t) }
func (e EventTime) Equal(o EventTime) bool  { return e.t.Equal(o.t) }

// MinutesUntil is the whole-minute distance to o; negative when o is earlier.
func (e EventTime) MinutesUntil(o EventTime) int {
	return int(o.t.Sub(e.t) / time.Minute)
}

func (e EventTime) Format() string {
	if e.IsZero() {
		return ""
	}
	return e.t.Format(instantLayout)
}

func (e EventTime) String() string { return e.Format() }

// Timestamp records when something happened (creation, completion). Second
// granularity, UTC.
type Timestamp struct {
	t time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.UTC().Truncate(time.Second)}
}

func (ts Timestamp) IsZero() bool    { return ts.t.IsZero() }
func (ts Timestamp) Time() time.Time { return ts.t }

// Day is the UTC calendar day of the instant.
func (ts Timestamp) Day() Deadline { return NewDeadline(ts.t) }

func (ts Timestamp) Before(o Timestamp) bool { return ts.t.Before(o.t) }
func (ts Timestamp) After(o Timestamp) bool  { return ts.t.After(o.t) }

// OnOrAfterDay reports whether the timestamp's day is at or past d.
func (ts Timestamp) OnOrAfterDay(d Deadline) bool {
	return ts.Day().OnOrAfter(d)
}

func (ts Timestamp) Format() string {
	if ts.IsZero() {
		return ""
	}
	return ts.t.Format(time.RFC3339)
}

func (ts Timestamp) String() string { return ts.Format() }
