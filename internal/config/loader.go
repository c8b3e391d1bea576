package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the config file explicitly.
const PathEnv = "MODERATOR_CONFIG"

// FilePath returns the config file location and whether it was set
// explicitly.
func FilePath() (string, bool) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, true
	}
	return filepath.Join(DefaultDataDir(), "config.yaml"), false
}

// Load reads the configuration. A missing default file is not an error; a
// missing explicit one is.
func Load() (*Config, error) {
	var cfg Config

	path, explicit := FilePath()
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Usage describes every environment variable, for -help output.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
