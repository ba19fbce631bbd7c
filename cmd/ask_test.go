package cmd

import (
	"strings"
	"testing"
)

func TestAskPrintsReply(t *testing.T) {
	testEnv(t)

	out, err := executeCommand(rootCmd, "--mock", "ask", "how", "often", "should", "I", "water?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if !strings.Contains(out, "Water most houseplants") {
		t.Errorf("expected the assistant reply, got:\n%s", out)
	}
}

func TestAskTranslatesReply(t *testing.T) {
	testEnv(t)

	out, err := executeCommand(rootCmd, "--mock", "ask", "--lang", "Hindi", "watering?")
	if err != nil {
		t.Fatalf("ask --lang: %v", err)
	}
	if !strings.Contains(out, "[Hindi] Water most houseplants") {
		t.Errorf("expected the translated reply, got:\n%s", out)
	}
}
