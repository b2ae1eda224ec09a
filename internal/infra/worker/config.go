// Package worker provides the scheduling, health, and metrics infrastructure
// for the background ingestion worker.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/pkg/config"
)

// WorkerConfig holds the configuration for the ingestion worker. All fields
// have defaults; LoadConfigFromEnv validates every loaded value and falls
// back to the default on failure, so a worker always starts with a usable
// configuration.
type WorkerConfig struct {
	// CronSchedule is the five-field cron expression for ingestion runs.
	// Default: "0 */6 * * *" (every six hours).
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "UTC".
	Timezone string

	// IngestTimeout is the maximum duration for a single ingestion run.
	// Default: 10 minutes.
	IngestTimeout time.Duration

	// Concurrent runs the providers in parallel within a run.
	// Default: true.
	Concurrent bool

	// HealthPort is the port for the health check HTTP server.
	// Default: 9091.
	HealthPort int

	// MetricsPort is the port for the Prometheus metrics HTTP server.
	// Default: 9092.
	MetricsPort int
}

// DefaultConfig returns a WorkerConfig with the default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "0 */6 * * *",
		Timezone:      "UTC",
		IngestTimeout: 10 * time.Minute,
		Concurrent:    true,
		HealthPort:    9091,
		MetricsPort:   9092,
	}
}

// Validate checks the configuration values and returns the aggregated errors.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidatePositiveDuration(c.IngestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("ingest timeout: %w", err))
	}

	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}

	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and fallback to defaults on failure. The function never
// returns an error; invalid values produce a warning log, metrics, and the
// default value.
//
// Environment variables:
//   - INGEST_CRON_SCHEDULE: cron expression (default "0 */6 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default "UTC")
//   - INGEST_TIMEOUT: duration string, 1m-2h (default 10m)
//   - INGEST_CONCURRENT: boolean (default true)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default 9091)
//   - WORKER_METRICS_PORT: integer 1024-65535 (default 9092)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("INGEST_CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	warn("cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	warn("timezone", result)

	result = config.LoadEnvDuration("INGEST_TIMEOUT", cfg.IngestTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 2*time.Hour)
	})
	cfg.IngestTimeout = result.Value.(time.Duration)
	warn("ingest_timeout", result)

	result = config.LoadEnvBool("INGEST_CONCURRENT", cfg.Concurrent)
	cfg.Concurrent = result.Value.(bool)
	warn("ingest_concurrent", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	warn("health_port", result)

	result = config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	warn("metrics_port", result)

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
