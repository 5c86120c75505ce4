package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeadlineTruncatesToUTCDay(t *testing.T) {
	in := time.Date(2025, 3, 14, 23, 45, 12, 0, time.FixedZone("X", 3*3600))
	d := NewDeadline(in)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d.Time())
	assert.Equal(t, "2025-03-14", d.Format())
}

func TestDayOfMonthOverflow(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		ok    bool
	}{
		{"valid mid-month", 2024, time.January, 15, true},
		{"leap february 29", 2024, time.February, 29, true},
		{"non-leap february 29", 2023, time.February, 29, false},
		{"february 31", 2024, time.February, 31, false},
		{"april 31", 2024, time.April, 31, false},
		{"december 31", 2024, time.December, 31, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := DayOfMonth(tt.year, tt.month, tt.day)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.day, d.Day())
				assert.Equal(t, tt.month, d.Month())
			}
		})
	}
}

func TestDeadlineArithmetic(t *testing.T) {
	d := DeadlineOf(2025, time.January, 31)

	assert.Equal(t, "2025-02-01", d.AddDays(1).Format())
	assert.Equal(t, "2025-01-24", d.AddDays(-7).Format())
	// Go month normalization: Jan 31 + 1 month lands in March.
	assert.Equal(t, "2025-03-03", d.AddMonths(1).Format())

	assert.Equal(t, 7, DeadlineOf(2025, time.January, 1).DaysUntil(DeadlineOf(2025, time.January, 8)))
	assert.Equal(t, -1, DeadlineOf(2025, time.January, 2).DaysUntil(DeadlineOf(2025, time.January, 1)))
}

func TestDeadlineMonthHelpers(t *testing.T) {
	d := DeadlineOf(2024, time.February, 14)

	assert.Equal(t, "2024-02-01", d.FirstOfMonth().Format())
	assert.Equal(t, "2024-03-01", d.FirstOfNextMonth().Format())
	assert.Equal(t, "2024-02-29", d.LastOfMonth().Format())
	assert.Equal(t, 29, d.DaysInMonth())
}

func TestPeriodStartContains(t *testing.T) {
	start := PeriodStartOf(2025, time.January, 1)
	end := start.AddDays(7)

	assert.True(t, start.Contains(DeadlineOf(2025, time.January, 1), end))
	assert.True(t, start.Contains(DeadlineOf(2025, time.January, 7), end))
	assert.False(t, start.Contains(DeadlineOf(2025, time.January, 8), end))
	assert.False(t, start.Contains(DeadlineOf(2024, time.December, 31), end))
}

func TestEventTimeOnDay(t *testing.T) {
	e := NewEventTime(time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC))
	moved := e.OnDay(DeadlineOf(2025, 6, 15))

	require.Equal(t, time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC), moved.Time())
	assert.Equal(t, 9*60+30, moved.ClockMinutes())
}

func TestEventTimeMinutesUntil(t *testing.T) {
	start := NewEventTime(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	finish := NewEventTime(time.Date(2025, 5, 1, 10, 45, 0, 0, time.UTC))

	assert.Equal(t, 105, start.MinutesUntil(finish))
	assert.Equal(t, -105, finish.MinutesUntil(start))
}

func TestTimestampDayBoundary(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 1, 7, 23, 59, 59, 0, time.UTC))

	assert.True(t, ts.OnOrAfterDay(DeadlineOf(2025, time.January, 7)))
	assert.False(t, ts.OnOrAfterDay(DeadlineOf(2025, time.January, 8)))
}

func TestZeroValues(t *testing.T) {
	assert.True(t, Deadline{}.IsZero())
	assert.Equal(t, "", Deadline{}.Format())
	assert.True(t, PeriodStart{}.IsZero())
	assert.True(t, EventTime{}.IsZero())
	assert.True(t, Timestamp{}.IsZero())
}
