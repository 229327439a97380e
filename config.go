package careflow

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON, YAML or environment variables; DefaultConfig
// provides a ready to use baseline.
type Config struct {
	// Workers bounds concurrent compilations in CompileAll
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
	// Author is recorded as Metadata.CreatedBy when a caller does not supply one
	Author string `json:"author,omitempty" yaml:"author,omitempty" mapstructure:"author"`
	// BaseURL resolves relative document locations passed to Load
	BaseURL string        `json:"baseURL,omitempty" yaml:"baseURL,omitempty" mapstructure:"baseURL"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName" mapstructure:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion" mapstructure:"serviceVersion"`
	// OutputFile receives stdout exporter output, empty means os.Stdout
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" mapstructure:"outputFile"`
}

type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
}

// DefaultConfig returns the baseline configuration
func DefaultConfig() *Config {
	return &Config{
		Workers: 8,
		Author:  "system",
		Log:     LogConfig{Level: "info"},
		Tracing: TracingConfig{ServiceName: "careflow", ServiceVersion: Version},
		Metrics: MetricsConfig{Namespace: "careflow"},
	}
}

// Validate returns an error describing the first invalid setting or nil
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required when metrics are enabled")
	}
	return nil
}
