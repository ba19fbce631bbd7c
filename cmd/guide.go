package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/history"
)

var guideCmd = &cobra.Command{
	Use:   "guide <plant>",
	Short: "Generate a care guide for a plant and keep it in history",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		text, err := assistant().CareGuide(cmd.Context(), name)
		if err != nil {
			return fmt.Errorf("generating guide: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		item := history.New(name, history.Guide{Text: text})
		if err := history.NewLedger(s).Append(item); err != nil {
			return err
		}

		cmd.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
