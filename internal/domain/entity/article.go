// Package entity defines the core domain entities and validation logic for the
// application. It contains the fundamental business objects such as Article and
// Source, along with their validation rules and domain-specific errors.
package entity

import (
	"encoding/json"
	"time"
)

// Article represents a normalized news article regardless of which provider
// it was ingested from. Optional provider fields (description, author,
// category, image) are empty strings when the provider did not supply them.
type Article struct {
	ID          int64
	SourceID    int64
	Title       string
	Description string
	Content     string
	Author      string
	URL         string
	ImageURL    string
	Category    string
	PublishedAt time.Time
	ExternalID  string
	// RawData holds the provider's original record for traceability.
	// It is stored opaquely and never validated.
	RawData   json.RawMessage
	CreatedAt time.Time
}

// Validate checks the fields the ingestion pipeline requires.
// SourceID is not checked here because it is assigned during persistence.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := ValidateURL(a.URL); err != nil {
		return err
	}
	if a.PublishedAt.IsZero() {
		return &ValidationError{Field: "published_at", Message: "published_at is required"}
	}
	return nil
}
