// Package aggregate fans ingestion out across all registered providers.
// Each provider failure is absorbed and logged so a single outage degrades
// the merged result instead of aborting it.
package aggregate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/infra/provider"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/repository"
)

// SourceStore persists provider publication listings.
type SourceStore interface {
	UpsertBatch(ctx context.Context, sources []*entity.Source, apiName string) error
}

// ArticleCounter reports the size of the stored article corpus.
type ArticleCounter interface {
	CountFiltered(ctx context.Context, filters repository.ArticleFilters) (int64, error)
}

// SourceLister lists the stored source catalog.
type SourceLister interface {
	List(ctx context.Context) ([]*entity.Source, error)
}

// Service orchestrates the provider adapters. Provider order is fixed at
// construction and determines result concatenation order, in both sequential
// and concurrent mode.
type Service struct {
	Providers []provider.NewsProvider
	Sources   SourceStore

	// Articles and Catalog back RefreshCorpusGauges; both are optional.
	Articles ArticleCounter
	Catalog  SourceLister

	// Concurrent runs providers in parallel. Results still concatenate in
	// registration order.
	Concurrent bool
}

// RefreshCorpusGauges recomputes the corpus size gauges from storage. Count
// failures are logged and skipped; a gauge refresh never fails an ingestion
// run.
func (s *Service) RefreshCorpusGauges(ctx context.Context) {
	if s.Articles != nil {
		if total, err := s.Articles.CountFiltered(ctx, repository.ArticleFilters{}); err != nil {
			slog.Warn("article corpus count failed", slog.Any("error", err))
		} else {
			metrics.UpdateArticlesTotal(total)
		}
	}
	if s.Catalog != nil {
		if sources, err := s.Catalog.List(ctx); err != nil {
			slog.Warn("source catalog count failed", slog.Any("error", err))
		} else {
			metrics.UpdateSourcesTotal(int64(len(sources)))
		}
	}
}

// FetchTopArticles ingests top articles from every provider and returns the
// merged list. Provider failures are logged and skipped; the call itself
// never fails.
func (s *Service) FetchTopArticles(ctx context.Context, params provider.Params) []*entity.Article {
	return s.collect(ctx, "top_articles", func(p provider.NewsProvider) ([]*entity.Article, error) {
		return p.TopArticles(ctx, params)
	})
}

// SearchArticles ingests search results from every provider and returns the
// merged list. Provider failures are logged and skipped.
func (s *Service) SearchArticles(ctx context.Context, query string, params provider.Params) []*entity.Article {
	return s.collect(ctx, "search_articles", func(p provider.NewsProvider) ([]*entity.Article, error) {
		return p.SearchArticles(ctx, query, params)
	})
}

// FetchSources lists every provider's publications, refreshes the stored
// descriptors, and returns the merged list. Provider and persistence
// failures are logged per provider and skipped.
func (s *Service) FetchSources(ctx context.Context, params provider.Params) []*entity.Source {
	var merged []*entity.Source
	for _, p := range s.Providers {
		start := time.Now()
		sources, err := p.Sources(ctx, params)
		metrics.RecordProviderFetch(p.Name(), "sources", time.Since(start))
		if err != nil {
			metrics.RecordProviderFailure(p.Name(), "sources")
			slog.Error("provider sources fetch failed",
				slog.String("provider", p.Name()),
				slog.Any("error", err))
			continue
		}
		if err := s.Sources.UpsertBatch(ctx, sources, p.Name()); err != nil {
			metrics.RecordProviderFailure(p.Name(), "sources")
			slog.Error("provider sources save failed",
				slog.String("provider", p.Name()),
				slog.Any("error", err))
			continue
		}
		merged = append(merged, sources...)
	}
	return merged
}

// collect runs fn once per provider and concatenates the results in
// registration order.
func (s *Service) collect(ctx context.Context, operation string, fn func(provider.NewsProvider) ([]*entity.Article, error)) []*entity.Article {
	results := make([][]*entity.Article, len(s.Providers))

	runOne := func(i int, p provider.NewsProvider) {
		start := time.Now()
		articles, err := fn(p)
		metrics.RecordProviderFetch(p.Name(), operation, time.Since(start))
		if err != nil {
			metrics.RecordProviderFailure(p.Name(), operation)
			slog.Error("provider ingestion failed",
				slog.String("provider", p.Name()),
				slog.String("operation", operation),
				slog.Any("error", err))
			return
		}
		metrics.RecordArticlesIngested(p.Name(), len(articles))
		slog.Info("provider ingestion complete",
			slog.String("provider", p.Name()),
			slog.String("operation", operation),
			slog.Int("articles", len(articles)))
		results[i] = articles
	}

	if s.Concurrent {
		g, _ := errgroup.WithContext(ctx)
		for i, p := range s.Providers {
			i, p := i, p
			g.Go(func() error {
				runOne(i, p)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, p := range s.Providers {
			runOne(i, p)
		}
	}

	var merged []*entity.Article
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}
