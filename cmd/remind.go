package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/reminder"
)

var (
	remindOn    string
	remindType  string
	remindPlant string
	remindMonth string
	remindAll   bool
	calMonth    string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Schedule and manage plant-care reminders",
}

var remindAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a reminder for a calendar day",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		day, err := time.ParseInLocation("2006-01-02", remindOn, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --on date %q (want YYYY-MM-DD)", remindOn)
		}
		typ, err := reminder.ParseType(remindType)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		rem := reminder.New(title, day, typ, remindPlant)
		if err := reminder.NewRegistry(s).Add(rem); err != nil {
			return err
		}
		cmd.Printf("Added %q for %s (id %s).\n", rem.Title, day.Format("Mon, 2 Jan 2006"), shortID(rem.ID))
		return nil
	},
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders for a month, ordered by date",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		reg := reminder.NewRegistry(s)

		if remindAll {
			items := reg.All()
			if len(items) == 0 {
				cmd.Println("No reminders yet. Try 'sprout remind add'.")
				return nil
			}
			for _, rem := range items {
				cmd.Println(reminderLine(rem))
			}
			return nil
		}

		year, month, err := parseMonth(remindMonth)
		if err != nil {
			return err
		}
		count := 0
		for rem := range reg.ForMonth(year, month) {
			cmd.Println(reminderLine(rem))
			count++
		}
		if count == 0 {
			cmd.Printf("No reminders in %s %d.\n", month, year)
		}
		return nil
	},
}

var remindDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a reminder's completed flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		reg := reminder.NewRegistry(s)
		rem, ok, err := findReminder(reg, args[0])
		if err != nil {
			return err
		}
		if !ok {
			cmd.Printf("No reminder matches %q.\n", args[0])
			return nil
		}
		if err := reg.ToggleCompletion(rem.ID); err != nil {
			return err
		}
		if rem.Completed {
			cmd.Printf("Reopened %q.\n", rem.Title)
		} else {
			cmd.Printf("Completed %q.\n", rem.Title)
		}
		return nil
	},
}

var remindRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		reg := reminder.NewRegistry(s)
		rem, ok, err := findReminder(reg, args[0])
		if err != nil {
			return err
		}
		if !ok {
			cmd.Printf("No reminder matches %q.\n", args[0])
			return nil
		}
		if err := reg.Delete(rem.ID); err != nil {
			return err
		}
		cmd.Printf("Deleted %q.\n", rem.Title)
		return nil
	},
}

var remindCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month grid with reminder days highlighted",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		reg := reminder.NewRegistry(s)

		year, month, err := parseMonth(calMonth)
		if err != nil {
			return err
		}
		cmd.Println(renderCalendar(reg, year, month))
		return nil
	},
}

// parseMonth turns a "YYYY-MM" flag into a year and month, defaulting to
// the current month when the flag is empty.
func parseMonth(s string) (int, time.Month, error) {
	if s == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --month %q (want YYYY-MM)", s)
	}
	return t.Year(), t.Month(), nil
}

// findReminder resolves a full id or unique prefix against the registry.
// A prefix matching several reminders is an error; no match is not.
func findReminder(reg *reminder.Registry, id string) (reminder.Reminder, bool, error) {
	var found reminder.Reminder
	matches := 0
	for _, rem := range reg.All() {
		if strings.HasPrefix(rem.ID, id) {
			found = rem
			matches++
		}
	}
	switch matches {
	case 0:
		return reminder.Reminder{}, false, nil
	case 1:
		return found, true, nil
	default:
		return reminder.Reminder{}, false, fmt.Errorf("%q matches %d reminders, use a longer prefix", id, matches)
	}
}

func reminderLine(rem reminder.Reminder) string {
	mark := " "
	if rem.Completed {
		mark = "✓"
	}
	line := fmt.Sprintf("[%s] %s  %-10s %s", mark, rem.Date.Format("2006-01-02"), rem.Type, rem.Title)
	if rem.PlantName != "" {
		line += fmt.Sprintf("  (%s)", rem.PlantName)
	}
	return line + "  " + shortID(rem.ID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ── Calendar styles ──────────────────────────────────────────────────────────

var (
	calTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	calHeadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	calDueStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	calDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

// renderCalendar draws a month grid. Days with a pending reminder are
// highlighted; days where everything due is completed are struck through.
func renderCalendar(reg *reminder.Registry, year int, month time.Month) string {
	pending := map[int]bool{}
	done := map[int]bool{}
	for rem := range reg.ForMonth(year, month) {
		day := rem.Date.Day()
		if rem.Completed {
			done[day] = true
		} else {
			pending[day] = true
		}
	}

	var b strings.Builder
	b.WriteString(calTitleStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("\n")
	b.WriteString(calHeadStyle.Render("Su Mo Tu We Th Fr Sa"))
	b.WriteString("\n")

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1).Day()
	col := int(first.Weekday())
	b.WriteString(strings.Repeat("   ", col))
	for day := 1; day <= last; day++ {
		cell := fmt.Sprintf("%2d", day)
		switch {
		case pending[day]:
			cell = calDueStyle.Render(cell)
		case done[day]:
			cell = calDoneStyle.Render(cell)
		}
		b.WriteString(cell)
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	lines := 0
	for rem := range reg.ForMonth(year, month) {
		if lines == 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%2d  %s", rem.Date.Day(), reminderLine(rem)))
		b.WriteString("\n")
		lines++
	}
	if lines == 0 {
		b.WriteString("\nNo reminders this month.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func init() {
	remindAddCmd.Flags().StringVar(&remindOn, "on", "", "due date, YYYY-MM-DD (required)")
	remindAddCmd.Flags().StringVar(&remindType, "type", "other", "task type: fertilizer, pesticide, watering or other")
	remindAddCmd.Flags().StringVar(&remindPlant, "plant", "", "plant the task is for")
	_ = remindAddCmd.MarkFlagRequired("on")

	remindListCmd.Flags().StringVar(&remindMonth, "month", "", "month to list, YYYY-MM (default: current)")
	remindListCmd.Flags().BoolVar(&remindAll, "all", false, "list every reminder in insertion order")

	remindCalendarCmd.Flags().StringVar(&calMonth, "month", "", "month to show, YYYY-MM (default: current)")

	remindCmd.AddCommand(remindAddCmd, remindListCmd, remindDoneCmd, remindRmCmd, remindCalendarCmd)
	rootCmd.AddCommand(remindCmd)
}
