package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [occurrence-id]",
	Short: "Complete an occurrence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid occurrence id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.completions.CompleteOccurrence(cmd.Context(), uint(id)); err != nil {
			return err
		}
		fmt.Printf("✅ Occurrence #%d completed\n", id)
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip [occurrence-id]",
	Short: "Skip an occurrence without doing the work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid occurrence id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.completions.SkipOccurrence(cmd.Context(), uint(id)); err != nil {
			return err
		}
		fmt.Printf("⏭️  Occurrence #%d skipped\n", id)
		return nil
	},
}
