package pagination

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Total      int64 `json:"total"`       // Total number of items across all pages
	Page       int   `json:"page"`        // Current page number (1-based)
	PerPage    int   `json:"per_page"`    // Items per page
	TotalPages int   `json:"total_pages"` // Calculated total number of pages
}

// NewMetadata builds response metadata for one page of results.
func NewMetadata(params Params, total int64) Metadata {
	return Metadata{
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: CalculateTotalPages(total, params.PerPage),
	}
}
