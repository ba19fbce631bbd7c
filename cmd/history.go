package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/history"
)

var historyClearYes bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past analyses, guides and reports (newest first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		items := history.NewLedger(s).Items()
		if len(items) == 0 {
			cmd.Println("No history yet. Try 'sprout diagnose <photo>' or 'sprout guide <plant>'.")
			return nil
		}

		for _, it := range items {
			line := fmt.Sprintf("%s  %-13s %s", it.Timestamp.Format("2006-01-02 15:04"), it.Payload.Kind(), it.Payload.Headline())
			if it.PlantName != "" {
				line += fmt.Sprintf("  (%s)", it.PlantName)
			}
			cmd.Println(line)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyClearYes {
			if !term.IsTerminal(os.Stdin.Fd()) {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			reader := bufio.NewReader(cmd.InOrStdin())
			cmd.Print("Delete all history? This cannot be undone. [y/N]: ")
			answer, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading answer: %w", err)
			}
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				cmd.Println("Nothing deleted.")
				return nil
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		if err := history.NewLedger(s).Clear(); err != nil {
			return err
		}
		cmd.Println("History cleared.")
		return nil
	},
}

func init() {
	historyClearCmd.Flags().BoolVar(&historyClearYes, "yes", false, "skip the confirmation prompt")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
