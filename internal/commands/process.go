package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one recurring-task processing pass for all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.processor.ProcessRecurringTasks(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Processing pass finished.")
		return nil
	},
}
