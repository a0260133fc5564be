package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the process environment consumed by scrapectl.
type Env struct {
	// Project forces project mode and names the bot when no project file sets one.
	Project string `env:"SCRAPECTL_PROJECT"`
	// SettingsFile points at a project file instead of searching for one.
	SettingsFile string `env:"SCRAPECTL_SETTINGS_FILE"`
	// Extensions is a comma-separated list of extension manifest paths.
	Extensions []string `env:"SCRAPECTL_EXTENSIONS" envSeparator:","`
	// Locale selects the message catalog for CLI output.
	Locale string `env:"SCRAPECTL_LOCALE" envDefault:"en-US"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses the scrapectl environment.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	return cfg, nil
}
