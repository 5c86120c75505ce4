package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"habit-planner/internal/model"
	"habit-planner/internal/recurrence"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active tasks and their open occurrences",
	Args:  cobra.NoArgs,
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

		tasks, err := a.tasks.ListActiveByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No active tasks.")
			return nil
		}

		pending, err := a.occurrences.ListPendingByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		open := make(map[uint][]model.TaskOccurrence)
		for _, occ := range pending {
			open[occ.TaskID] = append(open[occ.TaskID], occ)
		}

		for _, task := range tasks {
			taskType := recurrence.Classify(&task, task.Recurrence)
			fmt.Printf("#%d %s [%s] importance %d\n", task.ID, task.Name, taskType, task.Importance)
			for _, occ := range open[task.ID] {
				line := fmt.Sprintf("  occurrence #%d from %s", occ.ID, occ.StartDate.Format("2006-01-02"))
				if occ.LimitDate != nil {
					line += " by " + occ.LimitDate.Format("2006-01-02")
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}
