package worker

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// Shared across tests because promauto registers with the default registry.
var (
	metricsOnce sync.Once
	metricsInst *WorkerMetrics
)

func testMetrics() *WorkerMetrics {
	metricsOnce.Do(func() {
		metricsInst = NewWorkerMetrics()
	})
	return metricsInst
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CronSchedule != "0 */6 * * *" {
		t.Errorf("CronSchedule = %q", cfg.CronSchedule)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.IngestTimeout != 10*time.Minute {
		t.Errorf("IngestTimeout = %v", cfg.IngestTimeout)
	}
	if !cfg.Concurrent {
		t.Error("Concurrent = false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CronSchedule = "not a cron"
	cfg.HealthPort = 80

	if err := cfg.Validate(); err == nil {
		t.Error("expected error")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv(testLogger(), testMetrics())
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if *cfg != DefaultConfig() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("INGEST_CRON_SCHEDULE", "30 5 * * *")
	t.Setenv("WORKER_TIMEZONE", "Asia/Tokyo")
	t.Setenv("INGEST_TIMEOUT", "30m")
	t.Setenv("INGEST_CONCURRENT", "false")
	t.Setenv("WORKER_HEALTH_PORT", "9191")

	cfg, err := LoadConfigFromEnv(testLogger(), testMetrics())
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}

	if cfg.CronSchedule != "30 5 * * *" {
		t.Errorf("CronSchedule = %q", cfg.CronSchedule)
	}
	if cfg.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.IngestTimeout != 30*time.Minute {
		t.Errorf("IngestTimeout = %v", cfg.IngestTimeout)
	}
	if cfg.Concurrent {
		t.Error("Concurrent = true")
	}
	if cfg.HealthPort != 9191 {
		t.Errorf("HealthPort = %d", cfg.HealthPort)
	}
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("INGEST_CRON_SCHEDULE", "whenever")
	t.Setenv("INGEST_TIMEOUT", "10s") // below the 1m floor
	t.Setenv("WORKER_HEALTH_PORT", "80")

	cfg, err := LoadConfigFromEnv(testLogger(), testMetrics())
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}

	def := DefaultConfig()
	if cfg.CronSchedule != def.CronSchedule {
		t.Errorf("CronSchedule = %q", cfg.CronSchedule)
	}
	if cfg.IngestTimeout != def.IngestTimeout {
		t.Errorf("IngestTimeout = %v", cfg.IngestTimeout)
	}
	if cfg.HealthPort != def.HealthPort {
		t.Errorf("HealthPort = %d", cfg.HealthPort)
	}
}
