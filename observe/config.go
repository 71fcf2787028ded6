package observe

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing.
type envConfig struct {
	ServiceName     string  `env:"REVERT_SERVICE_NAME" envDefault:"revert"`
	ServiceVersion  string  `env:"REVERT_SERVICE_VERSION"`
	TracingEnabled  bool    `env:"REVERT_TRACING_ENABLED"`
	TracingExporter string  `env:"REVERT_TRACING_EXPORTER" envDefault:"stdout"`
	SamplePct       float64 `env:"REVERT_TRACING_SAMPLE_PCT" envDefault:"1.0"`
	MetricsEnabled  bool    `env:"REVERT_METRICS_ENABLED"`
	MetricsExporter string  `env:"REVERT_METRICS_EXPORTER" envDefault:"stdout"`
	LoggingEnabled  bool    `env:"REVERT_LOGGING_ENABLED"`
	LogLevel        string  `env:"REVERT_LOG_LEVEL" envDefault:"info"`
}

// ConfigFromEnv builds a Config from REVERT_* environment variables.
// Unset variables fall back to their defaults; the result is validated.
func ConfigFromEnv() (Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("observe: parse environment: %w", err)
	}

	cfg := Config{
		ServiceName: ec.ServiceName,
		Version:     ec.ServiceVersion,
		Tracing: TracingConfig{
			Enabled:   ec.TracingEnabled,
			Exporter:  ec.TracingExporter,
			SamplePct: ec.SamplePct,
		},
		Metrics: MetricsConfig{
			Enabled:  ec.MetricsEnabled,
			Exporter: ec.MetricsExporter,
		},
		Logging: LoggingConfig{
			Enabled: ec.LoggingEnabled,
			Level:   ec.LogLevel,
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
