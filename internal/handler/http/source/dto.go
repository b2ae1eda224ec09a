// Package source provides HTTP handlers for source endpoints.
package source

import (
	"time"

	"newsdesk/internal/domain/entity"
)

// DTO represents the JSON structure for source data transfer.
type DTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	APIName     string    `json:"api_name"`
	APIID       string    `json:"api_id,omitempty"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Language    string    `json:"language,omitempty"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func fromEntity(s *entity.Source) DTO {
	return DTO{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		APIName:     s.APIName,
		APIID:       s.APIID,
		Description: s.Description,
		URL:         s.URL,
		Category:    s.Category,
		Language:    s.Language,
		Country:     s.Country,
		CreatedAt:   s.CreatedAt,
	}
}
