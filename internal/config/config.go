// Package config loads the application settings from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/naka-gawa/wakabox/internal/domain"
)

const (
	EnvGitHubToken   = "GH_TOKEN"
	EnvWakaTimeKey   = "WAKATIME_API_KEY"
	EnvGistID        = "GIST_ID"
	EnvWakaTimeURL   = "WAKATIME_API_URL"
	EnvHTTPTimeout   = "WAKABOX_HTTP_TIMEOUT"
	EnvStrict        = "WAKABOX_STRICT"
	defaultStatsURL  = "https://wakatime.com/api/v1/users/current/stats"
	defaultTimeRange = "last_7_days"
	defaultTimeout   = 30 * time.Second
)

// LookupFunc reads a single environment value. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Config holds everything needed for one run.
type Config struct {
	GitHubToken    string
	WakaTimeAPIKey string
	GistID         string

	StatsBaseURL string
	TimeRange    string
	HTTPTimeout  time.Duration
	Strict       bool
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration through lookup. Every returned error wraps
// domain.ErrConfiguration.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{
		StatsBaseURL: getOrDefault(lookup, EnvWakaTimeURL, defaultStatsURL),
		TimeRange:    defaultTimeRange,
		HTTPTimeout:  defaultTimeout,
	}

	required := []struct {
		key string
		dst *string
	}{
		{EnvGitHubToken, &cfg.GitHubToken},
		{EnvWakaTimeKey, &cfg.WakaTimeAPIKey},
		{EnvGistID, &cfg.GistID},
	}
	for _, r := range required {
		value, ok := lookup(r.key)
		if !ok || value == "" {
			return nil, fmt.Errorf("%w: required environment variable %s is not set", domain.ErrConfiguration, r.key)
		}
		*r.dst = value
	}

	if value, ok := lookup(EnvHTTPTimeout); ok && value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive duration, got %q", domain.ErrConfiguration, EnvHTTPTimeout, value)
		}
		cfg.HTTPTimeout = timeout
	}

	if value, ok := lookup(EnvStrict); ok && value != "" {
		strict, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrConfiguration, EnvStrict, value)
		}
		cfg.Strict = strict
	}

	return cfg, nil
}

// StatsURL returns the full stats endpoint for the configured time range.
func (c *Config) StatsURL() string {
	return c.StatsBaseURL + "/" + c.TimeRange
}

func getOrDefault(lookup LookupFunc, key, defaultValue string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}
