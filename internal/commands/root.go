// Package commands wires the cobra CLI around the planner services.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"habit-planner/internal/config"
	"habit-planner/internal/recurrence"
	"habit-planner/internal/repository"
	"habit-planner/internal/service"
	"habit-planner/internal/strategy"
)

var rootCmd = &cobra.Command{
	Use:   "habitplanner",
	Short: "A personal task and habit planner",
	Long: `habitplanner tracks one-off tasks, recurring habits and fixed
calendar blocks, generating the next unit of work for each from its
recurrence rule.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(serveCmd)
}

// app bundles configuration, storage and services for one command run.
type app struct {
	cfg config.Config
	db  *gorm.DB
	log *zap.Logger

	users       *repository.UserRepository
	tasks       *repository.TaskRepository
	occurrences *repository.OccurrenceRepository
	events      *repository.EventRepository

	periods     *recurrence.PeriodManager
	strategies  *strategy.Factory
	creator     *service.OccurrenceService
	previews    *service.PreviewService
	fixed       *service.FixedTaskService
	completions *service.CompletionService
	processor   *service.ProcessService
	reminders   *service.ReminderService
	exporter    *service.ExportService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	a := &app{
		cfg:         cfg,
		db:          db,
		log:         log,
		users:       repository.NewUserRepository(db),
		tasks:       repository.NewTaskRepository(db),
		occurrences: repository.NewOccurrenceRepository(db),
		events:      repository.NewEventRepository(db),
	}

	a.periods = recurrence.NewPeriodManager(repository.NewRecurrenceRepository(db))
	a.strategies = strategy.NewFactory(a.periods)
	a.creator = service.NewOccurrenceService(a.tasks, a.occurrences, a.periods, log)
	a.previews = service.NewPreviewService(a.tasks, a.occurrences, a.periods, a.strategies)
	a.fixed = service.NewFixedTaskService(a.tasks, a.occurrences, a.events, log)
	a.completions = service.NewCompletionService(a.tasks, a.occurrences, a.events, a.strategies, a.creator, log)
	a.processor = service.NewProcessService(a.users, a.tasks, a.occurrences, a.strategies, a.creator, log)
	a.reminders = service.NewReminderService(a.tasks, a.occurrences)
	a.exporter = service.NewExportService(a.tasks, a.occurrences, a.events)

	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}
