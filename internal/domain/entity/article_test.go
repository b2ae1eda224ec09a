package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validArticle() *Article {
	return &Article{
		SourceID:    1,
		Title:       "Go 1.25 released",
		URL:         "https://example.com/go-125",
		PublishedAt: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestArticle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Article)
		wantErr string
	}{
		{"valid article", func(a *Article) {}, ""},
		{"missing title", func(a *Article) { a.Title = "" }, "title"},
		{"missing url", func(a *Article) { a.URL = "" }, "url"},
		{"ftp url", func(a *Article) { a.URL = "ftp://example.com/x" }, "url"},
		{"missing published_at", func(a *Article) { a.PublishedAt = time.Time{} }, "published_at"},
		{"optional fields may be empty", func(a *Article) {
			a.Description, a.Author, a.Category, a.ImageURL, a.ExternalID = "", "", "", "", ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validArticle()
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateURL(t *testing.T) {
	long := "https://example.com/" + string(make([]byte, 2100))

	tests := []struct {
		name   string
		url    string
		wantOK bool
	}{
		{"https ok", "https://example.com/a", true},
		{"http ok", "http://example.com/a", true},
		{"empty", "", false},
		{"no host", "https://", false},
		{"wrong scheme", "file:///etc/passwd", false},
		{"too long", long, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
