package config

import (
	"testing"
	"time"

	"github.com/naka-gawa/wakabox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func validEnv() map[string]string {
	return map[string]string{
		EnvGitHubToken: "gh-token",
		EnvWakaTimeKey: "waka-key",
		EnvGistID:      "gist-id",
	}
}

func TestLoadFrom(t *testing.T) {
	testCases := []struct {
		name        string
		modify      func(env map[string]string)
		expected    *Config
		expectError bool
	}{
		{
			name:   "happy path - defaults applied",
			modify: func(env map[string]string) {},
			expected: &Config{
				GitHubToken:    "gh-token",
				WakaTimeAPIKey: "waka-key",
				GistID:         "gist-id",
				StatsBaseURL:   defaultStatsURL,
				TimeRange:      "last_7_days",
				HTTPTimeout:    30 * time.Second,
			},
		},
		{
			name: "optional settings override defaults",
			modify: func(env map[string]string) {
				env[EnvWakaTimeURL] = "https://wakapi.example.com/api/compat/wakatime/v1/users/current/stats"
				env[EnvHTTPTimeout] = "5s"
				env[EnvStrict] = "true"
			},
			expected: &Config{
				GitHubToken:    "gh-token",
				WakaTimeAPIKey: "waka-key",
				GistID:         "gist-id",
				StatsBaseURL:   "https://wakapi.example.com/api/compat/wakatime/v1/users/current/stats",
				TimeRange:      "last_7_days",
				HTTPTimeout:    5 * time.Second,
				Strict:         true,
			},
		},
		{
			name:        "missing GH_TOKEN",
			modify:      func(env map[string]string) { delete(env, EnvGitHubToken) },
			expectError: true,
		},
		{
			name:        "empty WAKATIME_API_KEY",
			modify:      func(env map[string]string) { env[EnvWakaTimeKey] = "" },
			expectError: true,
		},
		{
			name:        "missing GIST_ID",
			modify:      func(env map[string]string) { delete(env, EnvGistID) },
			expectError: true,
		},
		{
			name:        "invalid timeout",
			modify:      func(env map[string]string) { env[EnvHTTPTimeout] = "soon" },
			expectError: true,
		},
		{
			name:        "non-positive timeout",
			modify:      func(env map[string]string) { env[EnvHTTPTimeout] = "0s" },
			expectError: true,
		},
		{
			name:        "invalid strict flag",
			modify:      func(env map[string]string) { env[EnvStrict] = "maybe" },
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := validEnv()
			tc.modify(env)

			cfg, err := LoadFrom(lookupFrom(env))

			if tc.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestConfig_StatsURL(t *testing.T) {
	cfg, err := LoadFrom(lookupFrom(validEnv()))
	require.NoError(t, err)
	assert.Equal(t, "https://wakatime.com/api/v1/users/current/stats/last_7_days", cfg.StatsURL())
}
