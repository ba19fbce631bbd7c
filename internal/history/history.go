// Package history holds the garden history: a persistent, append-only ledger
// of assistant results. Each entry is one of four variants (disease analysis,
// care guide, soil analysis, seed analysis) sharing an id, a timestamp and a
// plant name.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the item variants on the wire.
type Kind string

const (
	KindAnalysis Kind = "analysis"
	KindGuide    Kind = "guide"
	KindSoil     Kind = "soil-analysis"
	KindSeed     Kind = "seed-analysis"
)

// Payload is the variant-specific body of an Item. The interface is sealed:
// only the four types in this package implement it, so a type switch over
// payloads is exhaustive.
type Payload interface {
	Kind() Kind
	// Headline returns a one-line description for lists and exports.
	Headline() string

	payload() // seals the interface
}

// Analysis is a plant disease diagnosis produced from a photo.
type Analysis struct {
	Disease       string   `json:"diseaseName"`
	Severity      string   `json:"severity"`
	Symptoms      []string `json:"symptoms"`
	OrganicCure   []string `json:"organicCure"`
	ChemicalCure  []string `json:"chemicalCure"`
	Prevention    []string `json:"prevention"`
	PurchaseLinks []string `json:"purchaseLinks"`
	Image         string   `json:"image,omitempty"` // source photo, un-prefixed base64
}

func (Analysis) Kind() Kind { return KindAnalysis }
func (Analysis) payload()   {}

func (a Analysis) Headline() string {
	if a.Disease == "" {
		return "Plant analysis"
	}
	if a.Severity == "" {
		return a.Disease
	}
	return fmt.Sprintf("%s (%s)", a.Disease, strings.ToLower(a.Severity))
}

// Guide is a free-form care guide for a plant.
type Guide struct {
	Text string `json:"guide"`
}

func (Guide) Kind() Kind { return KindGuide }
func (Guide) payload()   {}

func (g Guide) Headline() string {
	line := g.Text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "# "))
	if line == "" {
		return "Care guide"
	}
	return line
}

// SoilReport is a soil quality analysis produced from a photo.
type SoilReport struct {
	PH            string   `json:"ph"`
	Nitrogen      string   `json:"nitrogen"`
	Phosphorus    string   `json:"phosphorus"`
	Potassium     string   `json:"potassium"`
	SuitableCrops []string `json:"suitableCrops"`
	Improvements  []string `json:"improvements"`
	Image         string   `json:"image,omitempty"`
}

func (SoilReport) Kind() Kind { return KindSoil }
func (SoilReport) payload()   {}

func (s SoilReport) Headline() string {
	if s.PH == "" {
		return "Soil analysis"
	}
	return fmt.Sprintf("Soil analysis — pH %s", s.PH)
}

// SeedReport is a seed identification produced from a photo.
type SeedReport struct {
	SeedName    string   `json:"seedName"`
	ParentPlant string   `json:"parentPlant"`
	Description string   `json:"description"`
	Regions     []string `json:"regions"`
	BestSoil    string   `json:"bestSoil"`
	GrowthTips  []string `json:"growthTips"`
	Image       string   `json:"image,omitempty"`
}

func (SeedReport) Kind() Kind { return KindSeed }
func (SeedReport) payload()   {}

func (s SeedReport) Headline() string {
	if s.SeedName == "" {
		return "Seed analysis"
	}
	return s.SeedName + " seeds"
}

// Item is one history entry: the shared fields plus exactly one payload.
// The id and timestamp are assigned once at creation and never change.
type Item struct {
	ID        string
	Timestamp time.Time
	PlantName string
	Payload   Payload
}

// New builds an Item for p with a fresh id and the current time.
func New(plantName string, p Payload) Item {
	return Item{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		PlantName: plantName,
		Payload:   p,
	}
}

// Kind returns the discriminant of the item's payload.
func (it Item) Kind() Kind {
	if it.Payload == nil {
		return ""
	}
	return it.Payload.Kind()
}

// MarshalJSON flattens the item: the shared fields and the payload fields
// share one JSON object, discriminated by "type".
func (it Item) MarshalJSON() ([]byte, error) {
	if it.Payload == nil {
		return nil, errors.New("history: item has no payload")
	}
	body, err := json.Marshal(it.Payload)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}

	set := func(name string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		fields[name] = raw
		return nil
	}
	if err := set("id", it.ID); err != nil {
		return nil, err
	}
	if err := set("type", it.Payload.Kind()); err != nil {
		return nil, err
	}
	if err := set("timestamp", it.Timestamp); err != nil {
		return nil, err
	}
	if it.PlantName != "" {
		if err := set("plantName", it.PlantName); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes the flat wire form back into the shared fields and
// the payload named by "type". An unknown type is an error; the collection
// layer above turns that into an empty ledger rather than propagating it.
func (it *Item) UnmarshalJSON(data []byte) error {
	var head struct {
		ID        string    `json:"id"`
		Type      Kind      `json:"type"`
		Timestamp time.Time `json:"timestamp"`
		PlantName string    `json:"plantName"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	var p Payload
	switch head.Type {
	case KindAnalysis:
		var v Analysis
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p = v
	case KindGuide:
		var v Guide
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p = v
	case KindSoil:
		var v SoilReport
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p = v
	case KindSeed:
		var v SeedReport
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		p = v
	default:
		return fmt.Errorf("history: unknown item type %q", head.Type)
	}

	it.ID = head.ID
	it.Timestamp = head.Timestamp
	it.PlantName = head.PlantName
	it.Payload = p
	return nil
}
