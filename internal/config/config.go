package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all configurable Sprout settings.
type Config struct {
	DisplayLanguage string `json:"display_language,omitempty"` // default language for translations
	GeminiModel     string `json:"gemini_model,omitempty"`     // empty means the built-in default
	StorageBackend  string `json:"storage_backend,omitempty"`  // "files" | "sqlite"
	DataDir         string `json:"data_dir,omitempty"`         // override the XDG default
	Notifications   string `json:"notifications,omitempty"`    // "granted" | "denied"; empty until asked

	// GeminiAPIKey comes from the environment or a .env file only; it is
	// never written to disk.
	GeminiAPIKey string `json:"-"`
}

// Defaults returns the configuration used before any file or env override.
func Defaults() Config {
	return Config{
		DisplayLanguage: "Hindi",
		StorageBackend:  "files",
	}
}

// Path returns the config file location, ~/.config/sprout/config.json.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sprout", "config.json"), nil
}

// Exists reports whether a config file has been written yet. The first-run
// wizard keys off this.
func Exists() bool {
	path, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file and layers environment overrides on top.
// A missing file yields defaults; that is the normal first-run state,
// not an error.
func Load() (Config, error) {
	// A .env in the working directory is a development convenience;
	// absence is the usual case.
	_ = godotenv.Load()

	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// first run
	case err != nil:
		return cfg, err
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, &ParseError{Path: path, Err: err}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv applies environment overrides. These win over the file so a
// shell session can redirect data or swap models without editing config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("SPROUT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
}

// Save writes cfg to the config path, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ParseError reports a config file that exists but cannot be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
