package provider

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds shared and per-provider settings, loaded from the environment.
// A provider is enabled when its API key is set; the worker and the fetch CLI
// only register enabled providers.
type Config struct {
	// Timeout bounds each outbound provider request.
	Timeout time.Duration

	// RequestsPerSecond and Burst configure the per-provider rate limiter.
	RequestsPerSecond float64
	Burst             int

	HeadlinesAPIKey  string
	HeadlinesBaseURL string

	ContentSearchAPIKey  string
	ContentSearchBaseURL string

	EditorialAPIKey    string
	EditorialAPISecret string
	EditorialBaseURL   string
}

// LoadConfig loads provider configuration from environment variables.
//
// Environment variables:
//   - PROVIDER_TIMEOUT: request timeout (default: 30s)
//   - PROVIDER_RATE_LIMIT: sustained requests per second (default: 5)
//   - PROVIDER_RATE_BURST: burst capacity (default: 10)
//   - HEADLINES_API_KEY, HEADLINES_BASE_URL
//   - CONTENT_SEARCH_API_KEY, CONTENT_SEARCH_BASE_URL
//   - EDITORIAL_API_KEY, EDITORIAL_API_SECRET, EDITORIAL_BASE_URL
func LoadConfig() Config {
	cfg := Config{
		Timeout:           30 * time.Second,
		RequestsPerSecond: 5,
		Burst:             10,

		HeadlinesAPIKey:  os.Getenv("HEADLINES_API_KEY"),
		HeadlinesBaseURL: envOrDefault("HEADLINES_BASE_URL", "https://newsapi.org/v2"),

		ContentSearchAPIKey:  os.Getenv("CONTENT_SEARCH_API_KEY"),
		ContentSearchBaseURL: envOrDefault("CONTENT_SEARCH_BASE_URL", "https://content.guardianapis.com"),

		EditorialAPIKey:    os.Getenv("EDITORIAL_API_KEY"),
		EditorialAPISecret: os.Getenv("EDITORIAL_API_SECRET"),
		EditorialBaseURL:   envOrDefault("EDITORIAL_BASE_URL", "https://api.nytimes.com/svc"),
	}

	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			slog.Warn("Invalid PROVIDER_TIMEOUT, using default",
				slog.String("value", v),
				slog.Duration("default", cfg.Timeout))
		}
	}
	if v := os.Getenv("PROVIDER_RATE_LIMIT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RequestsPerSecond = f
		} else {
			slog.Warn("Invalid PROVIDER_RATE_LIMIT, using default",
				slog.String("value", v),
				slog.Float64("default", cfg.RequestsPerSecond))
		}
	}
	if v := os.Getenv("PROVIDER_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Burst = n
		} else {
			slog.Warn("Invalid PROVIDER_RATE_BURST, using default",
				slog.String("value", v),
				slog.Int("default", cfg.Burst))
		}
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Build constructs all enabled providers against the given registry and
// store, in stable registration order.
func (cfg Config) Build(registry SourceRegistry, store ArticleStore) []NewsProvider {
	var providers []NewsProvider
	if cfg.HeadlinesAPIKey != "" {
		providers = append(providers, NewHeadlines(cfg, registry, store))
	}
	if cfg.ContentSearchAPIKey != "" {
		providers = append(providers, NewContentSearch(cfg, registry, store))
	}
	if cfg.EditorialAPIKey != "" {
		providers = append(providers, NewEditorial(cfg, registry, store))
	}
	return providers
}
