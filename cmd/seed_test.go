package cmd

import (
	"strings"
	"testing"
)

func TestSeedRecordsReport(t *testing.T) {
	dir := testEnv(t)
	photo := writePhoto(t, dir)

	out, err := executeCommand(rootCmd, "--mock", "seed", photo)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "Helianthus annuus — Sunflower seeds") {
		t.Errorf("expected the seed headline, got:\n%s", out)
	}
	if !strings.Contains(out, "Sow after the last frost") {
		t.Errorf("expected a growth tip, got:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "seed-analysis") || !strings.Contains(out, "(Helianthus annuus)") {
		t.Errorf("expected a seed entry in history, got:\n%s", out)
	}
}
