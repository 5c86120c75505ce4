package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habit-planner/internal/bot"
	"habit-planner/internal/service"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send the daily summary to every Telegram user once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		b, err := newBot(a)
		if err != nil {
			return err
		}
		return b.SendDailyReports(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot with scheduled processing and reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		b, err := newBot(a)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scheduler := service.NewSchedulerService(a.cfg.Timezone)
		if _, err := scheduler.ScheduleInterval(a.cfg.ProcessInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := a.processor.ProcessRecurringTasks(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Warn("processing pass", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule processing: %w", err)
		}
		if _, err := scheduler.ScheduleDaily(a.cfg.ReportTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := b.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.Warn("daily report", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule reports: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()

		a.log.Info("habit planner started")
		if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		a.log.Info("shutdown complete")
		return nil
	},
}

func newBot(a *app) (*bot.Bot, error) {
	if a.cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required for this command")
	}
	return bot.New(a.cfg.TelegramToken, a.users, a.reminders, a.completions, a.previews, a.tasks, a.occurrences, a.log)
}
