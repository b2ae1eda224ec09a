// Package pagination provides offset-based pagination shared by the read
// endpoints.
package pagination

import (
	"os"
	"strconv"
)

// Config holds pagination configuration settings.
// These values can be loaded from environment variables or config files.
type Config struct {
	DefaultPage    int // Default page number (typically 1)
	DefaultPerPage int // Default items per page
	MaxPerPage     int // Maximum allowed items per page
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, per_page=15, max=100
func DefaultConfig() Config {
	return Config{
		DefaultPage:    1,
		DefaultPerPage: 15,
		MaxPerPage:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE: Default page number
//   - PAGINATION_DEFAULT_PER_PAGE: Default items per page
//   - PAGINATION_MAX_PER_PAGE: Maximum items per page
//
// Falls back to DefaultConfig() if environment variables are not set.
func LoadFromEnv() Config {
	return Config{
		DefaultPage:    getEnvAsInt("PAGINATION_DEFAULT_PAGE", 1),
		DefaultPerPage: getEnvAsInt("PAGINATION_DEFAULT_PER_PAGE", 15),
		MaxPerPage:     getEnvAsInt("PAGINATION_MAX_PER_PAGE", 100),
	}
}

// getEnvAsInt retrieves an environment variable and parses it as an integer.
// Returns the default value if the variable is not set or cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
