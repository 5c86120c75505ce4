package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [task-id]",
	Short: "Show when the task's next occurrence would start",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		next, err := a.previews.PreviewNextOccurrenceDate(cmd.Context(), uint(id))
		if err != nil {
			return err
		}
		if next == nil {
			fmt.Println("No further occurrence is due for this task.")
			return nil
		}
		fmt.Printf("Next occurrence: %s\n", next.Format("2006-01-02"))
		return nil
	},
}
