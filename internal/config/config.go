// Package config defines the report generator configuration and its loading.
//
// Conventions:
// - New() returns a Config filled with defaults.
// - Load layers a YAML file and TRACKBOARD_ environment variables on top.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"github.com/okian/trackboard/internal/adapters/source"
	"github.com/okian/trackboard/internal/domain/policy"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// InputPath is the workbook, or a directory of CSV files.
	InputPath string `koanf:"input_path" validate:"required"`

	// OutputPath is where the HTML report is written.
	OutputPath string `koanf:"output_path" validate:"required"`

	// Title is shown in the page header and browser tab.
	Title string `koanf:"title" validate:"required"`

	// PreviewAddr, when set, serves the report after generation, e.g. ":8080".
	PreviewAddr string `koanf:"preview_addr"`

	// MetricsPath, when set, receives a Prometheus textfile after each run.
	MetricsPath string `koanf:"metrics_path"`

	// DefaultDirection decides which mark is better for events without an override.
	DefaultDirection string `koanf:"default_direction" validate:"direction"`

	// EventDirections maps event names to minimize or maximize.
	EventDirections map[string]string `koanf:"event_directions" validate:"dive,keys,required,endkeys,direction"`

	// Layout names the sheets and column headers of the input.
	Layout source.Layout `koanf:",squash"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		InputPath:        "data to add.xlsx",
		OutputPath:       "index.html",
		Title:            "WAZA Track Club - Results Dashboard",
		DefaultDirection: string(policy.Minimize),
		EventDirections:  map[string]string{},
		Layout:           source.DefaultLayout(),
	}
}

// PolicyOptions returns the policy options described by the config.
func (c *Config) PolicyOptions() ([]policy.Option, error) {
	d, err := policy.ParseDirection(c.DefaultDirection)
	if err != nil {
		return nil, err
	}
	return []policy.Option{
		policy.WithDefault(d),
		policy.WithDirectionsFromConfig(c.EventDirections),
	}, nil
}
