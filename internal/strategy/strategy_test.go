package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habit-planner/internal/dates"
	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
)

type fakePeriodTracker struct {
	calls []trackedCall
	err   error
}

type trackedCall struct {
	recurrenceID uint
	start        dates.Deadline
}

func (f *fakePeriodTracker) IncrementCompletedOccurrences(_ context.Context, recurrenceID uint, start dates.Deadline) error {
	f.calls = append(f.calls, trackedCall{recurrenceID: recurrenceID, start: start})
	return f.err
}

func intPtr(n int) *int { return &n }

func occurrences(statuses ...model.OccurrenceStatus) []model.TaskOccurrence {
	out := make([]model.TaskOccurrence, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, model.TaskOccurrence{
			ID:        uint(i + 1),
			StartDate: time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Status:    s,
		})
	}
	return out
}

func TestFactoryMatchesClassifier(t *testing.T) {
	factory := NewFactory(&fakePeriodTracker{})

	tests := []struct {
		name string
		task *model.Task
		rec  *model.TaskRecurrence
	}{
		{"no rule", &model.Task{}, nil},
		{"cap of one", &model.Task{}, &model.TaskRecurrence{MaxOccurrences: intPtr(1)}},
		{"finite cap", &model.Task{}, &model.TaskRecurrence{MaxOccurrences: intPtr(5)}},
		{"plain interval", &model.Task{}, &model.TaskRecurrence{Interval: intPtr(7)}},
		{"interval with cap", &model.Task{}, &model.TaskRecurrence{Interval: intPtr(7), MaxOccurrences: intPtr(3)}},
		{"interval with pattern", &model.Task{}, &model.TaskRecurrence{Interval: intPtr(7), DaysOfWeek: model.WeekdaySet{time.Monday}}},
		{"fixed single", &model.Task{IsFixed: true}, nil},
		{"fixed repetitive", &model.Task{IsFixed: true}, &model.TaskRecurrence{Interval: intPtr(1), MaxOccurrences: intPtr(4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := factory.ForTask(tt.task, tt.rec)
			require.NotNil(t, s)
			assert.Equal(t, recurrence.Classify(tt.task, tt.rec), s.TaskType())
		})
	}
}

func TestSingleCompletesTheTask(t *testing.T) {
	factory := NewFactory(&fakePeriodTracker{})
	s := factory.ForType(recurrence.TypeSingle)
	task := &model.Task{ID: 42}
	occs := occurrences(model.StatusCompleted)

	in := Input{Task: task, Occurrence: &occs[0], Occurrences: occs}

	got, err := s.OnOccurrenceCompleted(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Action{Type: ActionCompleteTask, TaskID: 42}, got)

	got, err = s.OnOccurrenceSkipped(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, ActionCompleteTask, got.Type, "a skipped single still finishes the task")

	assert.True(t, s.ShouldCreateNextOccurrence(Input{Task: task}))
	assert.False(t, s.ShouldCreateNextOccurrence(in), "the one occurrence already exists")
}

func TestFiniteRecurringSpendsTheCap(t *testing.T) {
	tracker := &fakePeriodTracker{}
	s := NewFactory(tracker).ForType(recurrence.TypeFiniteRecurring)
	task := &model.Task{ID: 7}
	rec := &model.TaskRecurrence{ID: 3, MaxOccurrences: intPtr(5)}

	// Four discarded plus one pending: the cap still has room.
	occs := occurrences(
		model.StatusCompleted, model.StatusCompleted, model.StatusSkipped,
		model.StatusCompleted, model.StatusCompleted,
	)
	occs[4].Status = model.StatusPending
	in := Input{Task: task, Recurrence: rec, Occurrence: &occs[3], Occurrences: occs}

	got, err := s.OnOccurrenceCompleted(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Action{Type: ActionCreateNextOccurrence, TaskID: 7}, got)
	assert.True(t, s.ShouldCreateNextOccurrence(in))

	// All five discarded: the task is done.
	occs[4].Status = model.StatusSkipped
	in.Occurrence = &occs[4]
	got, err = s.OnOccurrenceSkipped(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Action{Type: ActionCompleteTask, TaskID: 7}, got)
	assert.False(t, s.ShouldCreateNextOccurrence(in))

	require.Len(t, tracker.calls, 2)
	assert.Equal(t, uint(3), tracker.calls[0].recurrenceID)
	assert.Equal(t, dates.NewDeadline(occs[3].StartDate), tracker.calls[0].start)
}

func TestHabitAlwaysAsksForTheNext(t *testing.T) {
	tracker := &fakePeriodTracker{}
	s := NewFactory(tracker).ForType(recurrence.TypeHabit)
	task := &model.Task{ID: 9}
	rec := &model.TaskRecurrence{ID: 4, Interval: intPtr(7)}

	for _, status := range []model.OccurrenceStatus{model.StatusCompleted, model.StatusSkipped} {
		occs := occurrences(status)
		in := Input{Task: task, Recurrence: rec, Occurrence: &occs[0], Occurrences: occs}

		got, err := s.OnOccurrenceCompleted(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, Action{Type: ActionCreateNextOccurrence, TaskID: 9}, got)
		assert.True(t, s.ShouldCreateNextOccurrence(in))
	}

	assert.True(t, s.ShouldGenerateBacklogOccurrences())
	assert.False(t, s.ShouldCompleteTask())
	assert.False(t, s.ShouldDeactivateTask())
	assert.Len(t, tracker.calls, 2)
}

func TestHabitPlusCountsThePeriod(t *testing.T) {
	tracker := &fakePeriodTracker{}
	s := NewFactory(tracker).ForType(recurrence.TypeHabitPlus)
	rec := &model.TaskRecurrence{ID: 11, Interval: intPtr(7), MaxOccurrences: intPtr(3)}
	occs := occurrences(model.StatusCompleted)
	in := Input{Task: &model.Task{ID: 2}, Recurrence: rec, Occurrence: &occs[0], Occurrences: occs}

	got, err := s.OnOccurrenceCompleted(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, ActionCreateNextOccurrence, got.Type)

	require.Len(t, tracker.calls, 1)
	assert.Equal(t, uint(11), tracker.calls[0].recurrenceID)
	assert.True(t, s.ShouldGenerateBacklogOccurrences())
}

func TestFixedSingleDeactivates(t *testing.T) {
	s := NewFactory(&fakePeriodTracker{}).ForType(recurrence.TypeFixedSingle)
	occs := occurrences(model.StatusCompleted)
	in := Input{Task: &model.Task{ID: 5, IsFixed: true}, Occurrence: &occs[0], Occurrences: occs}

	got, err := s.OnOccurrenceCompleted(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Action{Type: ActionDeactivateTask, TaskID: 5}, got)
	assert.False(t, s.ShouldCreateNextOccurrence(in))
	assert.True(t, s.ShouldDeactivateTask())
}

func TestFixedRepetitiveDeactivatesOnceAllFinished(t *testing.T) {
	s := NewFactory(&fakePeriodTracker{}).ForType(recurrence.TypeFixedRepetitive)
	task := &model.Task{ID: 8, IsFixed: true}

	allDone := occurrences(
		model.StatusCompleted, model.StatusSkipped,
		model.StatusCompleted, model.StatusCompleted,
	)
	in := Input{Task: task, Occurrence: &allDone[3], Occurrences: allDone}
	got, err := s.OnOccurrenceCompleted(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Action{Type: ActionDeactivateTask, TaskID: 8}, got)

	onePending := occurrences(model.StatusCompleted, model.StatusCompleted, model.StatusPending)
	in = Input{Task: task, Occurrence: &onePending[1], Occurrences: onePending}
	got, err = s.OnOccurrenceCompleted(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Action{Type: ActionNone, TaskID: 8}, got)
}

func TestEventOutcomesAreNeutral(t *testing.T) {
	factory := NewFactory(&fakePeriodTracker{})
	in := Input{Task: &model.Task{ID: 1}}

	for _, tt := range []recurrence.TaskType{
		recurrence.TypeSingle, recurrence.TypeFiniteRecurring, recurrence.TypeHabit,
		recurrence.TypeHabitPlus, recurrence.TypeFixedSingle, recurrence.TypeFixedRepetitive,
	} {
		s := factory.ForType(tt)

		got, err := s.OnEventCompleted(context.Background(), in)
		require.NoError(t, err, tt)
		assert.Equal(t, ActionNone, got.Type, tt)

		got, err = s.OnEventSkipped(context.Background(), in)
		require.NoError(t, err, tt)
		assert.Equal(t, ActionNone, got.Type, tt)
	}
}

func TestPeriodTrackerFailurePropagates(t *testing.T) {
	tracker := &fakePeriodTracker{err: assert.AnError}
	s := NewFactory(tracker).ForType(recurrence.TypeHabit)
	occs := occurrences(model.StatusCompleted)
	in := Input{
		Task:        &model.Task{ID: 1},
		Recurrence:  &model.TaskRecurrence{ID: 1, Interval: intPtr(7)},
		Occurrence:  &occs[0],
		Occurrences: occs,
	}

	_, err := s.OnOccurrenceCompleted(context.Background(), in)
	assert.ErrorIs(t, err, assert.AnError)
}
