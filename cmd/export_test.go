package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ferntree/sprout/internal/history"
	"github.com/ferntree/sprout/internal/reminder"
	"github.com/ferntree/sprout/internal/store"
)

func TestExportWritesWorkbook(t *testing.T) {
	dir := testEnv(t)

	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ledger := history.NewLedger(fs)
	if err := ledger.Append(history.New("Rose", history.Guide{Text: "# Rose care guide"})); err != nil {
		t.Fatalf("Append: %v", err)
	}
	reg := reminder.NewRegistry(fs)
	day := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local)
	if err := reg.Add(reminder.New("Water", day, reminder.TypeWatering, "Rose")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	out := filepath.Join(t.TempDir(), "garden.xlsx")
	got, err := executeCommand(rootCmd, "export", "--out", out)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(got, "Wrote 1 history entries and 1 reminders") {
		t.Errorf("expected the summary line, got:\n%s", got)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("expected the workbook on disk: %v", err)
	}
}
