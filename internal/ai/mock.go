package ai

import (
	"context"
	"fmt"

	"github.com/ferntree/sprout/internal/history"
)

type mock struct{}

// NewMock returns a canned assistant: every call succeeds with fixed,
// plausible data and nothing leaves the machine. Used by --mock and by
// the command tests.
func NewMock() Assistant { return mock{} }

func (mock) Chat(_ context.Context, _ []Turn, _, _, _ string) (string, error) {
	return "Water most houseplants only when the top couple of centimetres of soil feel dry, and always let the pot drain fully.", nil
}

func (mock) DiagnosePlant(_ context.Context, image, _ string) (Diagnosis, error) {
	return Diagnosis{
		PlantName: "Tomato",
		Analysis: history.Analysis{
			Disease:       "Early blight",
			Severity:      "Medium",
			Symptoms:      []string{"Dark concentric spots on lower leaves", "Yellowing around the spots"},
			OrganicCure:   []string{"Remove affected leaves", "Spray neem oil weekly"},
			ChemicalCure:  []string{"Copper-based fungicide"},
			Prevention:    []string{"Water at the base, not the foliage", "Rotate crops yearly"},
			PurchaseLinks: []string{"neem oil concentrate", "copper fungicide spray"},
			Image:         image,
		},
	}, nil
}

func (mock) AnalyzeSoil(_ context.Context, image, _ string) (history.SoilReport, error) {
	return history.SoilReport{
		PH:            "6.5",
		Nitrogen:      "Medium",
		Phosphorus:    "Low",
		Potassium:     "High",
		SuitableCrops: []string{"Tomato", "Pepper", "Basil"},
		Improvements:  []string{"Work in bone meal for phosphorus", "Top-dress with compost"},
		Image:         image,
	}, nil
}

func (mock) IdentifySeed(_ context.Context, image, _ string) (history.SeedReport, error) {
	return history.SeedReport{
		SeedName:    "Sunflower",
		ParentPlant: "Helianthus annuus",
		Description: "Large striped seeds from the common sunflower.",
		Regions:     []string{"Temperate zones worldwide"},
		BestSoil:    "Well-drained loam in full sun",
		GrowthTips:  []string{"Sow after the last frost", "Stake tall varieties"},
		Image:       image,
	}, nil
}

func (mock) CareGuide(_ context.Context, plantName string) (string, error) {
	return fmt.Sprintf(`# %s care guide

## Light
Bright, indirect light suits most varieties.

## Watering
Water when the top of the soil feels dry; never let the pot stand in water.

## Soil
A free-draining potting mix with some added compost.

## Feeding
Feed monthly through spring and summer, not at all in winter.`, plantName), nil
}

func (mock) Translate(_ context.Context, text, language string) (string, error) {
	return fmt.Sprintf("[%s] %s", language, text), nil
}
