package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/photo"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <photo>",
	Short: "Diagnose a plant from a photo and record the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, mime, err := photo.Encode(args[0])
		if err != nil {
			return err
		}
		d, err := assistant().DiagnosePlant(cmd.Context(), data, mime)
		if err != nil {
			return fmt.Errorf("analyzing photo: %w", err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		item := history.New(d.PlantName, d.Analysis)
		if err := history.NewLedger(s).Append(item); err != nil {
			return err
		}

		printItem(cmd, item)
		return nil
	},
}

// printItem renders one ledger item as plain text.
func printItem(cmd *cobra.Command, it history.Item) {
	if it.PlantName != "" {
		cmd.Printf("%s — %s\n", it.PlantName, it.Payload.Headline())
	} else {
		cmd.Println(it.Payload.Headline())
	}
	cmd.Println(it.Timestamp.Format("Mon, 2 Jan 2006 15:04"))

	section := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		cmd.Println()
		cmd.Println(label + ":")
		for _, v := range values {
			cmd.Println("  - " + v)
		}
	}
	line := func(label, value string) {
		if value != "" {
			cmd.Printf("%s: %s\n", label, value)
		}
	}

	switch p := it.Payload.(type) {
	case history.Analysis:
		section("Symptoms", p.Symptoms)
		section("Organic treatment", p.OrganicCure)
		section("Chemical treatment", p.ChemicalCure)
		section("Prevention", p.Prevention)
		section("Look for", p.PurchaseLinks)
	case history.Guide:
		cmd.Println()
		cmd.Println(p.Text)
	case history.SoilReport:
		cmd.Println()
		line("Nitrogen", p.Nitrogen)
		line("Phosphorus", p.Phosphorus)
		line("Potassium", p.Potassium)
		section("Suitable crops", p.SuitableCrops)
		section("Improvements", p.Improvements)
	case history.SeedReport:
		cmd.Println()
		line("Grows into", p.ParentPlant)
		line("Description", p.Description)
		line("Best soil", p.BestSoil)
		section("Regions", p.Regions)
		section("Growth tips", p.GrowthTips)
	}
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
