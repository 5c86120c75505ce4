package recurrence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
)

type fakeRecurrenceStore struct {
	recs    map[uint]*model.TaskRecurrence
	updates int
}

func newFakeRecurrenceStore(recs ...*model.TaskRecurrence) *fakeRecurrenceStore {
	s := &fakeRecurrenceStore{recs: make(map[uint]*model.TaskRecurrence)}
	for _, r := range recs {
		s.recs[r.ID] = r
	}
	return s
}

func (s *fakeRecurrenceStore) GetByID(_ context.Context, id uint) (*model.TaskRecurrence, error) {
	rec, ok := s.recs[id]
	if !ok {
		return nil, fmt.Errorf("recurrence %d not found", id)
	}
	return rec, nil
}

func (s *fakeRecurrenceStore) Update(_ context.Context, id uint, update model.RecurrenceUpdate) error {
	rec, ok := s.recs[id]
	if !ok {
		return fmt.Errorf("recurrence %d not found", id)
	}
	if update.CompletedOccurrences != nil {
		rec.CompletedOccurrences = update.CompletedOccurrences
	}
	if update.LastPeriodStart != nil {
		rec.LastPeriodStart = update.LastPeriodStart
	}
	s.updates++
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }

func TestPeriodEnd(t *testing.T) {
	m := NewPeriodManager(nil)
	anchor := dates.PeriodStartOf(2025, time.January, 15)

	tests := []struct {
		name string
		rec  *model.TaskRecurrence
		want dates.PeriodStart
	}{
		{"interval", &model.TaskRecurrence{Interval: intPtr(7)}, anchor.AddDays(7)},
		{"weekdays span a week", &model.TaskRecurrence{DaysOfWeek: model.WeekdaySet{time.Monday}}, anchor.AddDays(7)},
		{"month days run to next month", &model.TaskRecurrence{DaysOfMonth: model.MonthDaySet{15}}, dates.PeriodStartOf(2025, time.February, 1)},
		{"no cadence leaves the anchor", &model.TaskRecurrence{}, anchor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.PeriodEnd(anchor, tt.rec)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	_, err := m.PeriodEnd(anchor, &model.TaskRecurrence{Interval: intPtr(0)})
	assert.Error(t, err)
}

func TestNextPeriodStartRequiresCadence(t *testing.T) {
	m := NewPeriodManager(nil)
	_, err := m.NextPeriodStart(dates.PeriodStartOf(2025, time.January, 1), &model.TaskRecurrence{})
	assert.Error(t, err)
}

func TestHasReachedPeriodLimit(t *testing.T) {
	m := NewPeriodManager(nil)

	assert.False(t, m.HasReachedPeriodLimit(nil))
	assert.False(t, m.HasReachedPeriodLimit(&model.TaskRecurrence{CompletedOccurrences: intPtr(9)}))
	assert.False(t, m.HasReachedPeriodLimit(&model.TaskRecurrence{MaxOccurrences: intPtr(3), CompletedOccurrences: intPtr(2)}))
	assert.True(t, m.HasReachedPeriodLimit(&model.TaskRecurrence{MaxOccurrences: intPtr(3), CompletedOccurrences: intPtr(3)}))
}

func TestShouldStartNewPeriod(t *testing.T) {
	m := NewPeriodManager(nil)
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &model.TaskRecurrence{
		Interval:        intPtr(7),
		MaxOccurrences:  intPtr(3),
		LastPeriodStart: timePtr(anchor),
	}

	inside, err := m.ShouldStartNewPeriod(rec, time.Date(2025, 1, 5, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, inside)

	past, err := m.ShouldStartNewPeriod(rec, time.Date(2025, 1, 8, 0, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, past)

	noAnchor, err := m.ShouldStartNewPeriod(&model.TaskRecurrence{MaxOccurrences: intPtr(3)}, anchor)
	require.NoError(t, err)
	assert.False(t, noAnchor)
}

func TestIncrementWithoutAnchorCountsPlainly(t *testing.T) {
	rec := &model.TaskRecurrence{ID: 1, MaxOccurrences: intPtr(5), CompletedOccurrences: intPtr(2)}
	store := newFakeRecurrenceStore(rec)
	m := NewPeriodManager(store)

	err := m.IncrementCompletedOccurrences(context.Background(), 1, dates.DeadlineOf(2025, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, 3, rec.CompletedOccurrencesValue())
	assert.Nil(t, rec.LastPeriodStart)
}

func TestIncrementInsideWindow(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &model.TaskRecurrence{
		ID:                   1,
		Interval:             intPtr(7),
		MaxOccurrences:       intPtr(3),
		CompletedOccurrences: intPtr(1),
		LastPeriodStart:      timePtr(anchor),
	}
	store := newFakeRecurrenceStore(rec)
	m := NewPeriodManager(store)

	err := m.IncrementCompletedOccurrences(context.Background(), 1, dates.DeadlineOf(2025, time.January, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.CompletedOccurrencesValue())
	assert.Equal(t, anchor, *rec.LastPeriodStart)
}

func TestIncrementBacklogIsIgnored(t *testing.T) {
	anchor := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	rec := &model.TaskRecurrence{
		ID:                   1,
		Interval:             intPtr(7),
		MaxOccurrences:       intPtr(3),
		CompletedOccurrences: intPtr(1),
		LastPeriodStart:      timePtr(anchor),
	}
	store := newFakeRecurrenceStore(rec)
	m := NewPeriodManager(store)

	err := m.IncrementCompletedOccurrences(context.Background(), 1, dates.DeadlineOf(2025, time.January, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CompletedOccurrencesValue(), "older period completions stay out of the counter")
	assert.Zero(t, store.updates)
}

func TestIncrementFastForwardsToFuturePeriod(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &model.TaskRecurrence{
		ID:                   1,
		Interval:             intPtr(7),
		MaxOccurrences:       intPtr(3),
		CompletedOccurrences: intPtr(3),
		LastPeriodStart:      timePtr(anchor),
	}
	store := newFakeRecurrenceStore(rec)
	m := NewPeriodManager(store)
	ctx := context.Background()

	// Jan 9 sits in the next window, [Jan 8, Jan 15).
	err := m.IncrementCompletedOccurrences(ctx, 1, dates.DeadlineOf(2025, time.January, 9))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CompletedOccurrencesValue())
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), *rec.LastPeriodStart)

	// A second completion in the same window only bumps the counter.
	err = m.IncrementCompletedOccurrences(ctx, 1, dates.DeadlineOf(2025, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.CompletedOccurrencesValue())
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), *rec.LastPeriodStart)
}

func TestIncrementSkipsMultiplePeriods(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &model.TaskRecurrence{
		ID:                   1,
		Interval:             intPtr(7),
		MaxOccurrences:       intPtr(3),
		CompletedOccurrences: intPtr(2),
		LastPeriodStart:      timePtr(anchor),
	}
	store := newFakeRecurrenceStore(rec)
	m := NewPeriodManager(store)

	err := m.IncrementCompletedOccurrences(context.Background(), 1, dates.DeadlineOf(2025, time.January, 23))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CompletedOccurrencesValue())
	assert.Equal(t, time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC), *rec.LastPeriodStart)
}

func TestStartNewPeriod(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &model.TaskRecurrence{
		ID:                   1,
		Interval:             intPtr(7),
		MaxOccurrences:       intPtr(3),
		CompletedOccurrences: intPtr(3),
		LastPeriodStart:      timePtr(anchor),
	}
	store := newFakeRecurrenceStore(rec)
	m := NewPeriodManager(store)

	next, err := m.StartNewPeriod(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, dates.PeriodStartOf(2025, time.January, 8).Equal(next))
	assert.Equal(t, 0, rec.CompletedOccurrencesValue())
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), *rec.LastPeriodStart)

	_, err = m.StartNewPeriod(context.Background(), &model.TaskRecurrence{ID: 2})
	assert.Error(t, err)
}
