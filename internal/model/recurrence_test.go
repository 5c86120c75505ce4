package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaySetRoundTrip(t *testing.T) {
	set := WeekdaySet{time.Friday, time.Monday, time.Wednesday}

	v, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "MON,WED,FRI", v)

	var scanned WeekdaySet
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, WeekdaySet{time.Monday, time.Wednesday, time.Friday}, scanned)
}

func TestWeekdaySetScanEmpty(t *testing.T) {
	var set WeekdaySet
	require.NoError(t, set.Scan(nil))
	assert.Empty(t, set)

	require.NoError(t, set.Scan(""))
	assert.Empty(t, set)
}

func TestWeekdaySetScanRejectsGarbage(t *testing.T) {
	var set WeekdaySet
	assert.Error(t, set.Scan("MON,NOPE"))
}

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday("wed")
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, wd)

	wd, err = ParseWeekday("Sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)

	_, err = ParseWeekday("noday")
	assert.Error(t, err)
}

func TestMonthDaySetRoundTrip(t *testing.T) {
	set := MonthDaySet{31, 1, 15}

	v, err := set.Value()
	require.NoError(t, err)
	assert.Equal(t, "1,15,31", v)

	var scanned MonthDaySet
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, MonthDaySet{1, 15, 31}, scanned)
	assert.Equal(t, 1, scanned.Min())
}

func TestRecurrenceValidate(t *testing.T) {
	interval := 7
	max := 3
	bad := -1

	tests := []struct {
		name    string
		rec     *TaskRecurrence
		wantErr bool
	}{
		{"nil rule", nil, false},
		{"interval only", &TaskRecurrence{Interval: &interval}, false},
		{"interval with cap", &TaskRecurrence{Interval: &interval, MaxOccurrences: &max}, false},
		{"both day patterns", &TaskRecurrence{
			DaysOfWeek:  WeekdaySet{time.Monday},
			DaysOfMonth: MonthDaySet{1},
		}, true},
		{"non-positive interval", &TaskRecurrence{Interval: &bad}, true},
		{"non-positive cap", &TaskRecurrence{MaxOccurrences: &bad}, true},
		{"month day out of range", &TaskRecurrence{DaysOfMonth: MonthDaySet{0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsSingle(t *testing.T) {
	one := 1
	two := 2
	interval := 5

	assert.True(t, (*TaskRecurrence)(nil).IsSingle())
	assert.True(t, (&TaskRecurrence{MaxOccurrences: &one}).IsSingle())
	assert.False(t, (&TaskRecurrence{MaxOccurrences: &two}).IsSingle())
	assert.False(t, (&TaskRecurrence{MaxOccurrences: &one, Interval: &interval}).IsSingle())
	assert.False(t, (&TaskRecurrence{MaxOccurrences: &one, DaysOfWeek: WeekdaySet{time.Monday}}).IsSingle())
}
