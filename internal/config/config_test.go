package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glitchfang/glitchfang/internal/observability"
)

// validConfig returns a config that passes validation, for mutation in tests.
func validConfig() Config {
	return Config{
		Workers:  DefaultWorkers,
		Sorting:  DefaultSorting,
		Interval: DefaultInterval,
		Rotation: DefaultRotation,
		Log:      LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output:   OutputConfig{Suffix: DefaultOutputSuffix},
	}
}

// TestLoadConfig_Defaults verifies a missing config file yields the defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultSorting, cfg.Sorting)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultRotation, cfg.Rotation)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultOutputSuffix, cfg.Output.Suffix)
}

// TestLoadConfig_File verifies explicit file values override the defaults.
func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `workers: 4
sorting: intensity
rotation: 90
log:
  level: debug
  format: json
output:
  suffix: glitched
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "intensity", cfg.Sorting)
	assert.Equal(t, 90, cfg.Rotation)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "glitched", cfg.Output.Suffix)

	// Unset keys keep their defaults.
	assert.Equal(t, DefaultInterval, cfg.Interval)
}

// TestLoadConfig_InvalidFile verifies an invalid config file fails loading.
func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("rotation: 45\n"), 0o644))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrRotation)
}

// TestLoadConfig_MissingExplicitFile verifies an explicitly named but absent
// file is an error, unlike the default search.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// TestLoadConfig_Env verifies environment variables override defaults.
func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("GLITCHFANG_WORKERS", "8")
	t.Setenv("GLITCHFANG_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

// TestValidate verifies each constraint rejects with its sentinel.
func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{
			name:   "workers below minus one",
			mutate: func(c *Config) { c.Workers = -2 },
			want:   ErrWorkers,
		},
		{
			name:   "rotation not right angle",
			mutate: func(c *Config) { c.Rotation = 45 },
			want:   ErrRotation,
		},
		{
			name:   "empty output suffix",
			mutate: func(c *Config) { c.Output.Suffix = "" },
			want:   ErrOutputSuffix,
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Log.Level = "trace" },
			want:   observability.ErrLogLevel,
		},
		{
			name:   "unknown log format",
			mutate: func(c *Config) { c.Log.Format = "xml" },
			want:   observability.ErrLogFormat,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)

			require.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

// TestValidate_Accepts verifies boundary values pass.
func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cfg.Workers = -1
	cfg.Rotation = -90
	require.NoError(t, cfg.Validate())
}
