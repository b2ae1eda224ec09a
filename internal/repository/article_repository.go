package repository

import (
	"context"
	"time"

	"newsdesk/internal/domain/entity"
)

// ArticleWithSource pairs an article with its publication's display name.
type ArticleWithSource struct {
	Article    *entity.Article
	SourceName string
}

// ArticleFilters contains the recognized ad-hoc filters for article queries.
// All set filters are AND-combined. Search performs a full-text match over
// title and description; Author is a case-insensitive substring match.
type ArticleFilters struct {
	Search   string
	SourceID *int64
	Category string
	Author   string
	From     *time.Time
	To       *time.Time
}

// ArticleRepository is the persistence boundary for articles.
//
// Write semantics: SaveBatch is insert-or-skip inside one transaction per
// batch. An article whose URL or external id already exists on any row is
// skipped silently; any insert failure rolls the whole batch back. Articles
// are never updated in place.
type ArticleRepository interface {
	// SaveBatch persists a batch of articles for one source atomically and
	// returns the number of rows actually inserted (duplicates excluded).
	SaveBatch(ctx context.Context, articles []*entity.Article, sourceID int64) (int, error)
	// ExistsBatch reports, per URL, whether an article with that URL or the
	// paired external id already exists. urls and externalIDs are parallel
	// slices; the result map is keyed by URL.
	ExistsBatch(ctx context.Context, urls, externalIDs []string) (map[string]bool, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// ListFiltered returns one page of articles matching the filters,
	// joined with their source names, ordered by published_at DESC.
	ListFiltered(ctx context.Context, filters ArticleFilters, offset, limit int) ([]ArticleWithSource, error)
	CountFiltered(ctx context.Context, filters ArticleFilters) (int64, error)
	// ListForPreference behaves like ListFiltered with the preference
	// dimensions AND-combined on top of the ad-hoc filters.
	ListForPreference(ctx context.Context, pref entity.Preference, filters ArticleFilters, offset, limit int) ([]ArticleWithSource, error)
	CountForPreference(ctx context.Context, pref entity.Preference, filters ArticleFilters) (int64, error)
	// Categories returns the distinct non-empty categories present in storage.
	Categories(ctx context.Context) ([]string, error)
	// Authors returns the distinct non-empty author names present in storage.
	Authors(ctx context.Context) ([]string, error)
}
