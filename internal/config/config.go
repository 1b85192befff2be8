// Package config resolves the Canvas instance settings. Precedence:
// environment variable, then the optional config file, then the built-in
// default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// BaseURLEnvVar overrides the Canvas base URL.
	BaseURLEnvVar = "CANVAS_BASE_URL"

	// DefaultBaseURL is the institutional default instance.
	DefaultBaseURL = "https://canvas.illinois.edu"
)

// Config is the explicit settings struct handed to the Canvas client. No
// package-level mutable state.
type Config struct {
	BaseURL string `yaml:"base_url"`
}

// Load reads the default config file location, if any, and applies the
// environment override.
func Load() (*Config, error) {
	return LoadFrom(defaultPath())
}

// LoadFrom behaves like Load with an explicit file path. A missing file is
// not an error; a present but unreadable or invalid one is.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{BaseURL: DefaultBaseURL}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			if cfg.BaseURL == "" {
				cfg.BaseURL = DefaultBaseURL
			}
		case errors.Is(err, fs.ErrNotExist):
			// First run, defaults apply.
		default:
			return nil, err
		}
	}

	if v := os.Getenv(BaseURLEnvVar); v != "" {
		cfg.BaseURL = v
	}
	return cfg, nil
}

func defaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "canvascal", "config.yaml")
}
