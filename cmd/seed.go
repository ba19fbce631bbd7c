package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/photo"
)

var seedCmd = &cobra.Command{
	Use:   "seed <photo>",
	Short: "Identify seeds from a photo and record the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, mime, err := photo.Encode(args[0])
		if err != nil {
			return err
		}
		report, err := assistant().IdentifySeed(cmd.Context(), data, mime)
		if err != nil {
			return fmt.Errorf("analyzing photo: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		// The parent plant doubles as the entry's display label.
		item := history.New(report.ParentPlant, report)
		if err := history.NewLedger(s).Append(item); err != nil {
			return err
		}

		printItem(cmd, item)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
