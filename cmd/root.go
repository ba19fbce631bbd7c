package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/ai"
	"github.com/ferntree/sprout/internal/config"
	"github.com/ferntree/sprout/internal/store"
)

// cfg holds the loaded configuration, populated in PersistentPreRunE.
var cfg config.Config

// useMock selects the canned offline assistant instead of Gemini.
var useMock bool

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Personal plant-care assistant: diagnose, schedule and chat about your garden",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip the first-run check for the init command itself.
		if cmd.Name() == "init" {
			return nil
		}

		// First run: config missing → run the init wizard automatically.
		// Only when stdin is an interactive terminal.
		if !config.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to sprout! Looks like this is your first time.")
				if err := runInit(true); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults.
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the CLI and exits non-zero when a command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false,
		"use the offline canned assistant (no API key required)")
}

// dataDir resolves the store directory: config override, else XDG default.
func dataDir() (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	return store.DefaultDataDir()
}

// openStore opens the configured persistence backend.
func openStore() (store.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	if cfg.StorageBackend == "sqlite" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return store.OpenSQLite(filepath.Join(dir, "sprout.db"))
	}
	return store.NewFileStore(dir)
}

// assistant returns the configured model client.
func assistant() ai.Assistant {
	if useMock {
		return ai.NewMock()
	}
	return ai.NewGemini("", cfg.GeminiAPIKey, cfg.GeminiModel)
}
