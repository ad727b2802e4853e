// Package config provides configuration loading for dbgcore.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then DBGCORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete dbgcore configuration.
type Config struct {
	Log     LogConfig     `koanf:"log" yaml:"log"`
	Process ProcessConfig `koanf:"process" yaml:"process"`
	Metrics MetricsConfig `koanf:"metrics" yaml:"metrics"`
	Tracing TracingConfig `koanf:"tracing" yaml:"tracing"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Pretty bool   `koanf:"pretty" yaml:"pretty"`
}

// ProcessConfig holds process controller settings.
type ProcessConfig struct {
	// PauseOnHandledException makes handled exceptions pause the debuggee.
	PauseOnHandledException bool `koanf:"pause_on_handled_exception" yaml:"pause_on_handled_exception"`
	// WaitGuard is the remaining time below which a bounded wait gives up.
	WaitGuard time.Duration `koanf:"wait_guard" yaml:"wait_guard"`
	// BreakTimeout is the hint passed to the engine's stop request.
	BreakTimeout time.Duration `koanf:"break_timeout" yaml:"break_timeout"`
	// WaitTimeout bounds each wait for a pause in the CLI runner; zero waits forever.
	WaitTimeout time.Duration `koanf:"wait_timeout" yaml:"wait_timeout"`
}

// MetricsConfig holds Prometheus exporter settings.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Addr    string `koanf:"addr" yaml:"addr"`
}

// TracingConfig holds OpenTelemetry trace export settings.
type TracingConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	// Endpoint is the OTLP/HTTP collector address (host:port).
	Endpoint    string  `koanf:"endpoint" yaml:"endpoint"`
	Insecure    bool    `koanf:"insecure" yaml:"insecure"`
	SampleRate  float64 `koanf:"sample_rate" yaml:"sample_rate"`
	ServiceName string  `koanf:"service_name" yaml:"service_name"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Process: ProcessConfig{
			WaitGuard:    10 * time.Millisecond,
			BreakTimeout: time.Second,
			WaitTimeout:  5 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Endpoint:    "localhost:4318",
			Insecure:    true,
			SampleRate:  1.0,
			ServiceName: "dbgcore",
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "disabled", "off":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}
	if c.Process.WaitGuard < 0 {
		errs = append(errs, errors.New("process.wait_guard must not be negative"))
	}
	if c.Process.BreakTimeout < 0 {
		errs = append(errs, errors.New("process.break_timeout must not be negative"))
	}
	if c.Process.WaitTimeout < 0 {
		errs = append(errs, errors.New("process.wait_timeout must not be negative"))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics.addr is required when metrics are enabled"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_rate: %v is outside [0, 1]", c.Tracing.SampleRate))
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("tracing.endpoint is required when tracing is enabled"))
	}
	return errors.Join(errs...)
}
