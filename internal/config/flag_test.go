package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all kling flags",
			args: []string{
				"-kling-url", "http://kling", "-access-key", "ak", "-secret-key", "sk",
				"-model", "m", "-poll-interval", "2s", "-poll-max", "10", "-jobs", "3",
				"-a", "127.0.0.1:9090", "-s", "secret",
			},
			expected: &Config{
				KlingBaseURL:      "http://kling",
				KlingAccessKey:    "ak",
				KlingSecretKey:    "sk",
				KlingModelName:    "m",
				PollInterval:      2 * time.Second,
				PollMaxAttempts:   10,
				MaxConcurrentJobs: 3,
				HTTPAddr:          "127.0.0.1:9090",
				JWTSecret:         "secret",
			},
		},
		{
			name: "subcommand args are ignored",
			args: []string{"outfits", "save", "--name", "Look", "-journal=j.db", "-scratch", "tmp"},
			expected: &Config{
				JournalDSN: "j.db",
				ScratchDir: "tmp",
			},
		},
		{
			name:        "bad duration",
			args:        []string{"-poll-interval", "fast"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config, tt.args) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config, tt.args) })
			}
		})
	}
}

func TestFlagNames(t *testing.T) {
	names := FlagNames()
	for _, want := range []string{"-jobs", "--jobs", "-secret-key", "-d", "-c", "--config"} {
		assert.Contains(t, names, want)
	}
	assert.NotContains(t, names, "-photo")
}
