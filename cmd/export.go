package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/export"
	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/reminder"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write history and reminders to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		items := history.NewLedger(s).Items()
		reminders := reminder.NewRegistry(s).All()

		out := exportOut
		if out == "" {
			out = "sprout-" + time.Now().Format("2006-01-02") + ".xlsx"
		}
		if err := export.Workbook(out, items, reminders); err != nil {
			return err
		}
		cmd.Printf("Wrote %d history entries and %d reminders to %s.\n", len(items), len(reminders), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: sprout-<date>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
