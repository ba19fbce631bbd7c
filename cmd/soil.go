package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/photo"
)

var soilCmd = &cobra.Command{
	Use:   "soil <photo>",
	Short: "Analyze soil quality from a photo and record the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, mime, err := photo.Encode(args[0])
		if err != nil {
			return err
		}
		report, err := assistant().AnalyzeSoil(cmd.Context(), data, mime)
		if err != nil {
			return fmt.Errorf("analyzing photo: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		item := history.New("", report)
		if err := history.NewLedger(s).Append(item); err != nil {
			return err
		}

		printItem(cmd, item)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(soilCmd)
}
