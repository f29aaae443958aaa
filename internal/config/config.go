package config

import (
	"errors"
	"fmt"

	"github.com/glitchfang/glitchfang/internal/observability"
)

// Default configuration values.
const (
	DefaultWorkers      = 0
	DefaultSorting      = "lightness"
	DefaultInterval     = "full"
	DefaultRotation     = 0
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultOutputSuffix = "sorted"
)

// Validation errors.
var (
	// ErrWorkers indicates a workers value below -1.
	ErrWorkers = errors.New("workers must be -1 (all CPUs), 0 (sequential), or a positive count")
	// ErrRotation indicates a rotation angle that is not a multiple of 90.
	ErrRotation = errors.New("rotation must be a multiple of 90 degrees")
	// ErrOutputSuffix indicates an empty output suffix.
	ErrOutputSuffix = errors.New("output suffix must not be empty")
)

// Config is the top-level configuration struct for glitchfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Workers  int          `mapstructure:"workers"`
	Sorting  string       `mapstructure:"sorting"`
	Interval string       `mapstructure:"interval"`
	Rotation int          `mapstructure:"rotation"`
	Log      LogConfig    `mapstructure:"log"`
	Output   OutputConfig `mapstructure:"output"`
}

// LogConfig holds structured-logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OutputConfig holds output path derivation settings.
type OutputConfig struct {
	Suffix string `mapstructure:"suffix"`
}

// Validate checks cross-cutting constraints; mode-specific parameters are
// validated by the command that uses them.
func (c *Config) Validate() error {
	if c.Workers < -1 {
		return fmt.Errorf("%w: got %d", ErrWorkers, c.Workers)
	}

	if c.Rotation%90 != 0 {
		return fmt.Errorf("%w: got %d", ErrRotation, c.Rotation)
	}

	if c.Output.Suffix == "" {
		return ErrOutputSuffix
	}

	// Level and format names are owned by the logger package; validating
	// through it keeps the two from drifting apart.
	if _, err := observability.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if err := observability.ParseFormat(c.Log.Format); err != nil {
		return err
	}

	return nil
}
