package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
	"habit-planner/internal/repository"
	"habit-planner/internal/strategy"
)

// testNow is the frozen clock all service tests run on, a Monday.
var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func frozenNow() time.Time { return testNow }

type testEnv struct {
	tasks       *repository.TaskRepository
	occurrences *repository.OccurrenceRepository
	events      *repository.EventRepository
	recurrences *repository.RecurrenceRepository
	users       *repository.UserRepository
	periods     *recurrence.PeriodManager
	strategies  *strategy.Factory

	creator     *OccurrenceService
	completions *CompletionService
	previews    *PreviewService
	fixed       *FixedTaskService
	process     *ProcessService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	log := zap.NewNop()
	e := &testEnv{
		tasks:       repository.NewTaskRepository(db),
		occurrences: repository.NewOccurrenceRepository(db),
		events:      repository.NewEventRepository(db),
		recurrences: repository.NewRecurrenceRepository(db),
		users:       repository.NewUserRepository(db),
	}
	e.periods = recurrence.NewPeriodManager(e.recurrences)
	e.strategies = strategy.NewFactory(e.periods)

	e.creator = NewOccurrenceService(e.tasks, e.occurrences, e.periods, log)
	e.creator.now = frozenNow
	e.completions = NewCompletionService(e.tasks, e.occurrences, e.events, e.strategies, e.creator, log)
	e.completions.now = frozenNow
	e.previews = NewPreviewService(e.tasks, e.occurrences, e.periods, e.strategies)
	e.previews.now = frozenNow
	e.fixed = NewFixedTaskService(e.tasks, e.occurrences, e.events, log)
	e.process = NewProcessService(e.users, e.tasks, e.occurrences, e.strategies, e.creator, log)
	e.process.now = frozenNow

	return e
}

func (e *testEnv) createTask(t *testing.T, task *model.Task) *model.Task {
	t.Helper()
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func (e *testEnv) occurrencesOf(t *testing.T, taskID uint) []model.TaskOccurrence {
	t.Helper()
	occs, err := e.occurrences.ListByTask(context.Background(), taskID)
	require.NoError(t, err)
	return occs
}

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func utcDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
