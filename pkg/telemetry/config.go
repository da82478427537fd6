package telemetry

import (
	"fmt"
	"time"
)

// Config contains the telemetry configuration for one inventory run.
type Config struct {
	// ServiceName is the name of the service for telemetry identification.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Logging contains logging configuration.
	Logging LoggingConfig

	// Tracing contains tracing configuration.
	Tracing TracingConfig

	// Metrics contains metrics configuration.
	Metrics MetricsConfig
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format specifies the log format (console, json).
	Format string

	// Output specifies where logs are written (stderr, file path). Logs are
	// never written to stdout, which carries the inventory JSON.
	Output string

	// EnableCaller adds file:line caller information to logs.
	EnableCaller bool
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// Exporter specifies the trace exporter (none, stdout, otlp).
	Exporter string

	// Endpoint is the OTLP gRPC endpoint.
	Endpoint string

	// Insecure disables TLS for the OTLP connection.
	Insecure bool

	// ExportTimeout bounds the final flush at shutdown.
	ExportTimeout time.Duration
}

// MetricsConfig configures build metrics.
type MetricsConfig struct {
	// TextfilePath is where metrics are written in the Prometheus text
	// format at the end of the run. Empty disables metrics.
	TextfilePath string

	// Namespace is the metrics namespace prefix.
	Namespace string
}

// DefaultConfig returns a default telemetry configuration.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "yaml-inventory",
		ServiceVersion: "dev",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
		Tracing: TracingConfig{
			Exporter:      "none",
			Endpoint:      "localhost:4317",
			Insecure:      true,
			ExportTimeout: 5 * time.Second,
		},
		Metrics: MetricsConfig{
			Namespace: "yaml_inventory",
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", c.Logging.Format)
	}

	if c.Logging.Output == "stdout" {
		return fmt.Errorf("log output cannot be stdout")
	}

	validExporters := map[string]bool{"none": true, "stdout": true, "otlp": true}
	if !validExporters[c.Tracing.Exporter] {
		return fmt.Errorf("invalid trace exporter: %s", c.Tracing.Exporter)
	}

	if c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
		return fmt.Errorf("trace endpoint is required for the otlp exporter")
	}

	return nil
}
