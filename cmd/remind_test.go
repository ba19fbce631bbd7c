package cmd

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/ferntree/sprout/internal/reminder"
	"github.com/ferntree/sprout/internal/store"
)

// Reminders are stored in insertion order; the month listing must come out
// sorted by date regardless of the order they were added in.
func TestRemindListSortsByDate(t *testing.T) {
	dateRe := regexp.MustCompile(`2026-09-\d\d`)
	rapid.Check(t, func(rt *rapid.T) {
		testEnv(t)

		days := rapid.SliceOfN(rapid.IntRange(1, 28), 1, 12).Draw(rt, "days")
		for i, day := range days {
			date := fmt.Sprintf("2026-09-%02d", day)
			_, err := executeCommand(rootCmd, "remind", "add", fmt.Sprintf("task %d", i),
				"--on", date, "--type", "watering")
			if err != nil {
				rt.Fatalf("remind add: %v", err)
			}
		}

		out, err := executeCommand(rootCmd, "remind", "list", "--month", "2026-09")
		if err != nil {
			rt.Fatalf("remind list: %v", err)
		}
		got := dateRe.FindAllString(out, -1)
		if len(got) != len(days) {
			rt.Fatalf("expected %d listed reminders, got %d:\n%s", len(days), len(got), out)
		}
		if !slices.IsSorted(got) {
			rt.Errorf("expected dates in ascending order, got %v", got)
		}
	})
}

func TestRemindLifecycle(t *testing.T) {
	testEnv(t)

	out, err := executeCommand(rootCmd, "remind", "add", "Fertilize", "tomatoes",
		"--on", "2026-09-03", "--type", "fertilizer", "--plant", "Tomato")
	if err != nil {
		t.Fatalf("remind add: %v", err)
	}
	m := regexp.MustCompile(`id ([0-9a-f]{8})`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("expected a short id in %q", out)
	}
	id := m[1]

	out, err = executeCommand(rootCmd, "remind", "list", "--month", "2026-09")
	if err != nil {
		t.Fatalf("remind list: %v", err)
	}
	if !strings.Contains(out, "Fertilize tomatoes") || !strings.Contains(out, "(Tomato)") {
		t.Errorf("expected the new reminder in the listing, got:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "remind", "done", id)
	if err != nil {
		t.Fatalf("remind done: %v", err)
	}
	if !strings.Contains(out, `Completed "Fertilize tomatoes".`) {
		t.Errorf("expected completion feedback, got:\n%s", out)
	}
	out, err = executeCommand(rootCmd, "remind", "list", "--month", "2026-09")
	if err != nil {
		t.Fatalf("remind list: %v", err)
	}
	if !strings.Contains(out, "[✓]") {
		t.Errorf("expected a completed mark, got:\n%s", out)
	}

	// done toggles, so a second run reopens.
	out, err = executeCommand(rootCmd, "remind", "done", id)
	if err != nil {
		t.Fatalf("remind done: %v", err)
	}
	if !strings.Contains(out, `Reopened "Fertilize tomatoes".`) {
		t.Errorf("expected reopen feedback, got:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "remind", "rm", id)
	if err != nil {
		t.Fatalf("remind rm: %v", err)
	}
	if !strings.Contains(out, `Deleted "Fertilize tomatoes".`) {
		t.Errorf("expected delete feedback, got:\n%s", out)
	}
	out, err = executeCommand(rootCmd, "remind", "list", "--month", "2026-09")
	if err != nil {
		t.Fatalf("remind list: %v", err)
	}
	if !strings.Contains(out, "No reminders in September 2026.") {
		t.Errorf("expected an empty month, got:\n%s", out)
	}
}

func TestRemindIDPrefixes(t *testing.T) {
	dir := testEnv(t)

	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	reg := reminder.NewRegistry(fs)
	day := time.Date(2026, time.September, 10, 0, 0, 0, 0, time.Local)
	for _, r := range []reminder.Reminder{
		{ID: "aaaa1111", Title: "Water ferns", Date: day, Type: reminder.TypeWatering},
		{ID: "aaaa2222", Title: "Feed roses", Date: day, Type: reminder.TypeFertilizer},
		{ID: "bbbb3333", Title: "Spray basil", Date: day, Type: reminder.TypePesticide},
	} {
		if err := reg.Add(r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if _, err := executeCommand(rootCmd, "remind", "done", "aaaa"); err == nil {
		t.Fatal("expected an error for an ambiguous prefix")
	}

	// An unknown id gets a friendly message, not an error.
	out, err := executeCommand(rootCmd, "remind", "done", "zzzz")
	if err != nil {
		t.Fatalf("remind done: %v", err)
	}
	if !strings.Contains(out, `No reminder matches "zzzz".`) {
		t.Errorf("expected the not-found message, got:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "remind", "done", "bbbb")
	if err != nil {
		t.Fatalf("remind done: %v", err)
	}
	if !strings.Contains(out, `Completed "Spray basil".`) {
		t.Errorf("expected the unique prefix to resolve, got:\n%s", out)
	}
}

func TestRemindCalendar(t *testing.T) {
	testEnv(t)

	if _, err := executeCommand(rootCmd, "remind", "add", "Repot", "--on", "2026-09-12", "--type", "other"); err != nil {
		t.Fatalf("remind add: %v", err)
	}
	out, err := executeCommand(rootCmd, "remind", "calendar", "--month", "2026-09")
	if err != nil {
		t.Fatalf("remind calendar: %v", err)
	}
	for _, want := range []string{"September 2026", "Su Mo Tu We Th Fr Sa", "Repot"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in the calendar, got:\n%s", want, out)
		}
	}
}
