package provider

import "time"

// Layouts seen across the three provider APIs.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate normalizes a provider timestamp. An empty or unparseable value
// falls back to now so a bad date never blocks ingestion.
func parseDate(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
