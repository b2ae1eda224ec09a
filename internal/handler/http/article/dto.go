// Package article provides HTTP handlers for article query endpoints.
// It includes handlers for filtered listing, personalized feeds, facet
// listings, and single-article lookup.
package article

import (
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID          int64     `json:"id" example:"1"`
	SourceID    int64     `json:"source_id" example:"1"`
	SourceName  string    `json:"source_name,omitempty" example:"Example Times"`
	Title       string    `json:"title" example:"Go 1.25 released"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author,omitempty" example:"Jane Doe"`
	URL         string    `json:"url" example:"https://example.com/article/1"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty" example:"technology"`
	PublishedAt time.Time `json:"published_at" example:"2026-08-01T10:00:00Z"`
	CreatedAt   time.Time `json:"created_at" example:"2026-08-01T12:00:00Z"`
}

func fromEntity(a *entity.Article) DTO {
	return DTO{
		ID:          a.ID,
		SourceID:    a.SourceID,
		Title:       a.Title,
		Description: a.Description,
		Content:     a.Content,
		Author:      a.Author,
		URL:         a.URL,
		ImageURL:    a.ImageURL,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
	}
}

func fromWithSource(item repository.ArticleWithSource) DTO {
	dto := fromEntity(item.Article)
	dto.SourceName = item.SourceName
	return dto
}
