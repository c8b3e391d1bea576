// Package config loads the console's settings.
//
// Priority: environment > YAML file > env-default tags. The file is
// optional unless MODERATOR_CONFIG names it explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Finance FinanceConfig `yaml:"finance"`
	Log     LogConfig     `yaml:"log"`
	DataDir string        `yaml:"data_dir" env:"MODERATOR_DATA_DIR"`
}

// APIConfig is the backend connection.
type APIConfig struct {
	BaseURL         string        `yaml:"base_url"          env:"MODERATOR_API_URL"          env-default:"http://localhost:8088"`
	Token           string        `yaml:"token"             env:"MODERATOR_API_TOKEN"`
	Timeout         time.Duration `yaml:"timeout"           env:"MODERATOR_API_TIMEOUT"      env-default:"15s"`
	RateLimit       float64       `yaml:"rate_limit"        env:"MODERATOR_API_RATE_LIMIT"   env-default:"10"`
	Burst           int           `yaml:"burst"             env:"MODERATOR_API_BURST"        env-default:"5"`
	DetailCacheSize int           `yaml:"detail_cache_size" env:"MODERATOR_DETAIL_CACHE_SIZE" env-default:"256"`
	DetailCacheTTL  time.Duration `yaml:"detail_cache_ttl"  env:"MODERATOR_DETAIL_CACHE_TTL"  env-default:"2m"`
}

// UIConfig holds interaction timings and defaults.
type UIConfig struct {
	SearchDebounce time.Duration `yaml:"search_debounce" env:"MODERATOR_SEARCH_DEBOUNCE" env-default:"500ms"`
	NoticeTTL      time.Duration `yaml:"notice_ttl"      env:"MODERATOR_NOTICE_TTL"      env-default:"4s"`
	// DefaultPageSize overrides every resource's page size when positive.
	DefaultPageSize int    `yaml:"default_page_size" env:"MODERATOR_PAGE_SIZE"   env-default:"0"`
	StartScreen     string `yaml:"start_screen"      env:"MODERATOR_START_SCREEN" env-default:"dashboard"`
}

// FinanceConfig narrows the payouts screen.
type FinanceConfig struct {
	// Methods is a comma-separated allow list ("bank,paypal").
	Methods string `yaml:"methods" env:"MODERATOR_PAYOUT_METHODS"`
	// From and To bound requestDate, formatted 2006-01-02.
	From string `yaml:"from" env:"MODERATOR_PAYOUT_FROM"`
	To   string `yaml:"to"   env:"MODERATOR_PAYOUT_TO"`
}

// LogConfig sets the diagnostic log level.
type LogConfig struct {
	Level string `yaml:"level" env:"MODERATOR_LOG_LEVEL" env-default:"info"`
}

// DefaultDataDir is ~/.moderator, or ./.moderator when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".moderator"
	}
	return filepath.Join(home, ".moderator")
}

// MethodList splits Methods.
func (f FinanceConfig) MethodList() []string {
	var out []string
	for _, m := range strings.Split(f.Methods, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Range parses From and To. Empty bounds are zero.
func (f FinanceConfig) Range() (from, to time.Time, err error) {
	if f.From != "" {
		if from, err = time.Parse("2006-01-02", f.From); err != nil {
			return from, to, fmt.Errorf("from: %w", err)
		}
	}
	if f.To != "" {
		if to, err = time.Parse("2006-01-02", f.To); err != nil {
			return from, to, fmt.Errorf("to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, fmt.Errorf("to %s is before from %s", f.To, f.From)
	}
	return from, to, nil
}

// Path joins a name onto the data directory.
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}

// Save writes the configuration as YAML. The file may hold the API token,
// so it is created owner-only.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
