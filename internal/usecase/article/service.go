package article

import (
	"context"
	"fmt"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// Service provides article query use cases.
// It handles business logic for article reads and delegates persistence to
// the repository.
type Service struct {
	Repo   repository.ArticleRepository
	Config pagination.Config
}

// PaginatedResult represents the result of a paginated query.
// It contains both the data and pagination metadata.
type PaginatedResult struct {
	Data       []repository.ArticleWithSource
	Pagination pagination.Metadata
}

func (s *Service) config() pagination.Config {
	if s.Config == (pagination.Config{}) {
		return pagination.DefaultConfig()
	}
	return s.Config
}

// List retrieves one page of articles matching the given filters, newest
// first. The count and the page share the same WHERE clause, so the metadata
// always agrees with the data. A page beyond the last one yields an empty
// data slice with correct totals.
func (s *Service) List(ctx context.Context, filters repository.ArticleFilters, params pagination.Params) (*PaginatedResult, error) {
	params = params.WithDefaults(s.config())

	total, err := s.Repo.CountFiltered(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	offset := pagination.CalculateOffset(params.Page, params.PerPage)
	articles, err := s.Repo.ListFiltered(ctx, filters, offset, params.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &PaginatedResult{
		Data:       articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// ListForPreference retrieves one page of the personalized feed defined by
// the preference profile, further narrowed by the ad-hoc filters. An empty
// profile yields an empty result rather than the whole corpus.
func (s *Service) ListForPreference(ctx context.Context, pref entity.Preference, filters repository.ArticleFilters, params pagination.Params) (*PaginatedResult, error) {
	params = params.WithDefaults(s.config())

	if pref.Empty() {
		return &PaginatedResult{
			Data:       []repository.ArticleWithSource{},
			Pagination: pagination.NewMetadata(params, 0),
		}, nil
	}

	total, err := s.Repo.CountForPreference(ctx, pref, filters)
	if err != nil {
		return nil, fmt.Errorf("count preference articles: %w", err)
	}

	offset := pagination.CalculateOffset(params.Page, params.PerPage)
	articles, err := s.Repo.ListForPreference(ctx, pref, filters, offset, params.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list preference articles: %w", err)
	}

	return &PaginatedResult{
		Data:       articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Categories lists the distinct categories present in the corpus.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.Repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Authors lists the distinct authors present in the corpus.
func (s *Service) Authors(ctx context.Context) ([]string, error) {
	authors, err := s.Repo.Authors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}
