package pagination

import (
	"log/slog"
	"time"
)

// LogRequest logs a pagination request with structured fields.
func LogRequest(logger *slog.Logger, requestID string, params Params) {
	logger.Info("Paginated request",
		"request_id", requestID,
		"page", params.Page,
		"per_page", params.PerPage)
}

// LogResponse logs a pagination response with duration and status.
func LogResponse(logger *slog.Logger, requestID string, params Params, returnedCount int, duration time.Duration, statusCode int) {
	logger.Info("Paginated response",
		"request_id", requestID,
		"page", params.Page,
		"per_page", params.PerPage,
		"returned_count", returnedCount,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode)
}

// LogError logs a pagination error with structured fields.
func LogError(logger *slog.Logger, requestID string, params Params, err error, errorType string) {
	logger.Error("Pagination error",
		"request_id", requestID,
		"page", params.Page,
		"per_page", params.PerPage,
		"error", err.Error(),
		"error_type", errorType)
}
