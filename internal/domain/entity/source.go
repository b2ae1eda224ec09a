package entity

import (
	"strings"
	"time"
	"unicode"
)

// Source identifies a publication or provider that articles belong to.
// The (Slug, APIName) pair is the natural key: it is unique per provider and
// is used for idempotent find-or-create resolution during ingestion.
type Source struct {
	ID          int64
	Name        string
	Slug        string
	APIName     string
	APIID       string
	Description string
	URL         string
	Category    string
	Language    string
	Country     string
	CreatedAt   time.Time
}

// Validate checks the fields required for the natural key and display.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if s.Slug == "" {
		return &ValidationError{Field: "slug", Message: "slug is required"}
	}
	if s.APIName == "" {
		return &ValidationError{Field: "api_name", Message: "api_name is required"}
	}
	return nil
}

// Slugify converts a publication name into a URL-safe slug suitable for the
// natural key, e.g. "The Washington Post" -> "the-washington-post".
// Runs that are neither letters nor digits collapse into a single hyphen.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	hyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
