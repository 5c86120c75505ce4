package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the schedule as an iCalendar (.ics) document",
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

		ics, err := a.exporter.Export(ctx, user.ID)
		if err != nil {
			return err
		}

		if exportOutput == "" {
			fmt.Print(ics)
			return nil
		}
		if err := os.WriteFile(exportOutput, []byte(ics), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		fmt.Printf("Wrote %s\n", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}
