package pathutil

import (
	"regexp"
	"strings"
)

// pathPattern pairs a route regex with its normalized template.
type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// Patterns are evaluated in order from most specific to least specific and
// pre-compiled at initialization.
var pathPatterns = []*pathPattern{
	{pattern: regexp.MustCompile(`^/articles/\d+$`), template: "/articles/:id"},
	{pattern: regexp.MustCompile(`^/sources/\d+$`), template: "/sources/:id"},
	{pattern: regexp.MustCompile(`^/sources/\d+/articles$`), template: "/sources/:id/articles"},
}

// NormalizePath normalizes dynamic URL paths to prevent metrics label
// cardinality explosion. Paths carrying an ID (e.g. /articles/123) collapse
// to a template (/articles/:id); static paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/articles/123")        // "/articles/:id"
//	NormalizePath("/articles/123?page=1") // "/articles/:id"
//	NormalizePath("/articles/feed")       // "/articles/feed" (unchanged)
//	NormalizePath("/healthz")             // "/healthz" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}

	return path
}
