package article

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/repository"
)

// filterDateLayouts are accepted for the from and to query parameters.
// A bare date is interpreted as midnight UTC.
var filterDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseFilters reads the recognized filter query parameters into
// repository.ArticleFilters. Unknown parameters are ignored.
func parseFilters(r *http.Request) (repository.ArticleFilters, error) {
	q := r.URL.Query()
	filters := repository.ArticleFilters{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		Author:   strings.TrimSpace(q.Get("author")),
	}

	if raw := q.Get("source_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filters, fmt.Errorf("invalid query parameter: source_id must be a positive integer")
		}
		filters.SourceID = &id
	}

	from, err := parseFilterDate(q.Get("from"), "from")
	if err != nil {
		return filters, err
	}
	filters.From = from

	to, err := parseFilterDate(q.Get("to"), "to")
	if err != nil {
		return filters, err
	}
	filters.To = to

	return filters, nil
}

func parseFilterDate(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid query parameter: %s must be an RFC 3339 timestamp or YYYY-MM-DD date", name)
}

// parsePreference reads the preference profile query parameters. Each
// dimension is a comma-separated list; blank entries are dropped.
func parsePreference(r *http.Request) (sourceIDs []int64, categories, authors []string, err error) {
	q := r.URL.Query()

	for _, raw := range splitList(q.Get("source_ids")) {
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || id <= 0 {
			return nil, nil, nil, fmt.Errorf("invalid query parameter: source_ids must be positive integers")
		}
		sourceIDs = append(sourceIDs, id)
	}

	categories = splitList(q.Get("categories"))
	authors = splitList(q.Get("authors"))
	return sourceIDs, categories, authors, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
