package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks business rules after loading. Load calls it.
func (c *Config) Validate() error {
	if err := c.API.validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if c.UI.SearchDebounce < 0 {
		return fmt.Errorf("ui.search_debounce must be >= 0 (got %v)", c.UI.SearchDebounce)
	}
	if c.UI.NoticeTTL <= 0 {
		return fmt.Errorf("ui.notice_ttl must be > 0 (got %v)", c.UI.NoticeTTL)
	}
	if c.UI.DefaultPageSize < 0 {
		return fmt.Errorf("ui.default_page_size must be >= 0 (got %d)", c.UI.DefaultPageSize)
	}
	if _, _, err := c.Finance.Range(); err != nil {
		return fmt.Errorf("finance: %w", err)
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(validLevels, ", "), c.Log.Level)
	}
	return nil
}

func (a *APIConfig) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL (got %q)", a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", a.Timeout)
	}
	if a.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be >= 0 (got %v)", a.RateLimit)
	}
	if a.DetailCacheSize <= 0 {
		return fmt.Errorf("detail_cache_size must be > 0 (got %d)", a.DetailCacheSize)
	}
	return nil
}
