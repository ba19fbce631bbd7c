package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/ai"
	"github.com/ferntree/sprout/internal/config"
	"github.com/ferntree/sprout/internal/identity"
	"github.com/ferntree/sprout/internal/notify"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure sprout (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so init works before config exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(false)
	},
}

// runInit runs the interactive setup wizard; firstRun adds the welcome
// banner when the wizard triggers from an unconfigured install.
func runInit(firstRun bool) error {
	if firstRun {
		fmt.Println()
		fmt.Println("  Welcome to sprout! Let's get your garden set up.")
	}

	// Existing settings become prompt defaults (edit mode). A broken
	// config file must not lock the user out of init.
	c, err := config.Load()
	if err != nil {
		c = config.Defaults()
	}

	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	askBool := func(prompt string, defaultVal bool) (bool, error) {
		def := "n"
		if defaultVal {
			def = "y"
		}
		ans, err := ask(prompt+" (y/n)", def)
		if err != nil {
			return false, err
		}
		return strings.ToLower(ans) == "y" || strings.ToLower(ans) == "yes", nil
	}

	fmt.Println()
	fmt.Println("  ┌─────────────────────────────────┐")
	fmt.Println("  │    sprout — first-time setup    │")
	fmt.Println("  └─────────────────────────────────┘")
	fmt.Println()

	c.DisplayLanguage, err = ask("  Language for translated replies", c.DisplayLanguage)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	backend, err := ask("  Storage backend (files/sqlite)", c.StorageBackend)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if backend == "sqlite" {
		c.StorageBackend = "sqlite"
	} else {
		c.StorageBackend = "files"
	}

	// The notification capability is requested once, here. The scheduler
	// reads the stored answer before every dispatch.
	allow, err := askBool("  Allow desktop notifications for reminders", c.Notifications != string(notify.PermissionDenied))
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if allow {
		c.Notifications = string(notify.PermissionGranted)
	} else {
		c.Notifications = string(notify.PermissionDenied)
	}

	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cfg = c
	fmt.Println("  ✓ Config saved.")

	// Mocked sign-in: name and email are stored for display only.
	s, err := openStore()
	if err != nil {
		return err
	}
	users := identity.NewManager(s)
	current, _ := users.Current()

	name, err := ask("  Your name", current.Name)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	email, err := ask("  Your email", current.Email)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}
	if err := users.SignIn(identity.User{Name: name, Email: email}); err != nil {
		return fmt.Errorf("saving identity: %w", err)
	}

	if c.GeminiAPIKey == "" {
		fmt.Println()
		fmt.Println("  ⚠ No GEMINI_API_KEY found in the environment or a .env file.")
		fmt.Printf("    Online features use the %s model and need one;", ai.DefaultModel)
		fmt.Println(" --mock works without it.")
	}

	fmt.Println()
	fmt.Println("  Setup complete. Try 'sprout diagnose leaf.jpg' or 'sprout chat'.")
	fmt.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
