package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"habit-planner/internal/model"
	"habit-planner/internal/service"
)

var addFlags struct {
	description string
	importance  int
	interval    int
	weekdays    string
	monthDays   []int
	max         int
	end         string
	fixed       bool
	start       string
	finish      string
}

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a task, habit or fixed calendar block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		user, err := a.users.EnsureLocal(ctx)
		if err != nil {
			return err
		}

		rec, err := buildRecurrence()
		if err != nil {
			return err
		}

		task := &model.Task{
			UserID:      user.ID,
			Name:        args[0],
			Description: addFlags.description,
			Importance:  addFlags.importance,
			IsFixed:     addFlags.fixed,
			IsActive:    true,
			Recurrence:  rec,
		}
		if err := a.tasks.Create(ctx, task); err != nil {
			return err
		}

		if addFlags.fixed {
			start, finish, err := parseFixedTimes()
			if err != nil {
				return err
			}
			if err := a.fixed.CreateFixedTaskEvents(ctx, task.ID, user.ID, service.FixedEventConfig{
				StartDateTime: start,
				EndDateTime:   finish,
			}); err != nil {
				return err
			}
		} else {
			if err := a.creator.CreateNextOccurrence(ctx, task.ID, nil); err != nil {
				return err
			}
		}

		fmt.Printf("Added task #%d: %s\n", task.ID, task.Name)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addFlags.description, "desc", "d", "", "task description")
	addCmd.Flags().IntVarP(&addFlags.importance, "importance", "i", 5, "importance 1-10")
	addCmd.Flags().IntVar(&addFlags.interval, "interval", 0, "days per recurrence period")
	addCmd.Flags().StringVar(&addFlags.weekdays, "weekdays", "", "comma-separated weekdays (mon,wed,fri)")
	addCmd.Flags().IntSliceVar(&addFlags.monthDays, "monthdays", nil, "days of month (1,15)")
	addCmd.Flags().IntVar(&addFlags.max, "max", 0, "occurrence cap (per period, or total without an interval)")
	addCmd.Flags().StringVar(&addFlags.end, "end", "", "recurrence end date (YYYY-MM-DD)")
	addCmd.Flags().BoolVar(&addFlags.fixed, "fixed", false, "fixed task: materialize timed occurrences up front")
	addCmd.Flags().StringVar(&addFlags.start, "start", "", "fixed start datetime (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addFlags.finish, "finish", "", "fixed finish datetime (YYYY-MM-DD HH:MM)")
}

// buildRecurrence assembles the rule from flags; nil when no recurrence
// options were given.
func buildRecurrence() (*model.TaskRecurrence, error) {
	rec := &model.TaskRecurrence{}
	hasRule := false

	if addFlags.interval > 0 {
		interval := addFlags.interval
		rec.Interval = &interval
		hasRule = true
	}
	if addFlags.weekdays != "" {
		for _, part := range strings.Split(addFlags.weekdays, ",") {
			wd, err := model.ParseWeekday(part)
			if err != nil {
				return nil, err
			}
			rec.DaysOfWeek = append(rec.DaysOfWeek, wd)
		}
		hasRule = true
	}
	if len(addFlags.monthDays) > 0 {
		rec.DaysOfMonth = model.MonthDaySet(addFlags.monthDays)
		hasRule = true
	}
	if addFlags.max > 0 {
		max := addFlags.max
		rec.MaxOccurrences = &max
		hasRule = true
	}
	if addFlags.end != "" {
		end, err := time.ParseInLocation("2006-01-02", addFlags.end, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid --end: %w", err)
		}
		rec.EndDate = &end
		hasRule = true
	}
	if !hasRule {
		return nil, nil
	}

	// Period-based rules start their first period today.
	if rec.MaxOccurrences != nil && (rec.Interval != nil || len(rec.DaysOfWeek) > 0 || len(rec.DaysOfMonth) > 0) {
		anchor := time.Now().UTC().Truncate(24 * time.Hour)
		zero := 0
		rec.LastPeriodStart = &anchor
		rec.CompletedOccurrences = &zero
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseFixedTimes() (time.Time, time.Time, error) {
	const layout = "2006-01-02 15:04"
	if addFlags.start == "" || addFlags.finish == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--fixed requires --start and --finish")
	}
	start, err := time.ParseInLocation(layout, addFlags.start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	finish, err := time.ParseInLocation(layout, addFlags.finish, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --finish: %w", err)
	}
	return start, finish, nil
}
