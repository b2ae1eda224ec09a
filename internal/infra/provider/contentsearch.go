package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"newsdesk/internal/domain/entity"
)

const (
	contentSearchName  = "content-search"
	contentSearchTitle = "Content Search"
)

// Fields requested alongside every content-search result.
const contentSearchShowFields = "headline,trailText,body,thumbnail,byline"

// ContentSearch adapts the content-search API. It authenticates with an
// api-key query parameter. The provider has no publication concept, so all
// of its articles hang off one synthesized source.
type ContentSearch struct {
	client   *Client
	registry SourceRegistry
	store    ArticleStore
	baseURL  string
	apiKey   string
}

// NewContentSearch creates the content-search adapter.
func NewContentSearch(cfg Config, registry SourceRegistry, store ArticleStore) *ContentSearch {
	return &ContentSearch{
		client:   NewClient(contentSearchName, cfg.Timeout, cfg.RequestsPerSecond, cfg.Burst),
		registry: registry,
		store:    store,
		baseURL:  cfg.ContentSearchBaseURL,
		apiKey:   cfg.ContentSearchAPIKey,
	}
}

func (c *ContentSearch) Name() string { return contentSearchName }

type contentSearchEnvelope struct {
	Response struct {
		Status  string            `json:"status"`
		Results []json.RawMessage `json:"results"`
	} `json:"response"`
}

type contentSearchResult struct {
	ID                 string `json:"id"`
	SectionName        string `json:"sectionName"`
	WebPublicationDate string `json:"webPublicationDate"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	Fields             struct {
		Headline  string `json:"headline"`
		TrailText string `json:"trailText"`
		Body      string `json:"body"`
		Thumbnail string `json:"thumbnail"`
		Byline    string `json:"byline"`
	} `json:"fields"`
}

// TopArticles fetches the newest published content.
func (c *ContentSearch) TopArticles(ctx context.Context, params Params) ([]*entity.Article, error) {
	query := c.baseQuery(params)
	query.Set("order-by", params.Get("order-by", "newest"))
	return c.fetch(ctx, query, "")
}

// SearchArticles queries the archive ordered by relevance.
func (c *ContentSearch) SearchArticles(ctx context.Context, searchQuery string, params Params) ([]*entity.Article, error) {
	query := c.baseQuery(params)
	query.Set("q", searchQuery)
	query.Set("order-by", params.Get("order-by", "relevance"))
	return c.fetch(ctx, query, searchQuery)
}

// Sources returns the single synthesized descriptor for this provider.
func (c *ContentSearch) Sources(ctx context.Context, _ Params) ([]*entity.Source, error) {
	return []*entity.Source{c.descriptor()}, nil
}

func (c *ContentSearch) descriptor() *entity.Source {
	return &entity.Source{
		Name:        contentSearchTitle,
		Slug:        contentSearchName,
		APIName:     contentSearchName,
		Description: "Articles from the content-search API",
		Language:    "en",
	}
}

func (c *ContentSearch) baseQuery(params Params) url.Values {
	query := url.Values{
		"api-key":     {c.apiKey},
		"show-fields": {contentSearchShowFields},
		"page-size":   {params.Get("page-size", "50")},
	}
	if section := params.Get("section", ""); section != "" {
		query.Set("section", section)
	}
	return query
}

func (c *ContentSearch) fetch(ctx context.Context, query url.Values, searchQuery string) ([]*entity.Article, error) {
	var envelope contentSearchEnvelope
	if err := c.client.GetJSON(ctx, c.baseURL+"/search", query, nil, &envelope); err != nil {
		slog.Warn("content fetch failed",
			slog.String("provider", contentSearchName),
			slog.String("query", searchQuery),
			slog.Any("error", err))
		return []*entity.Article{}, nil
	}
	return c.ingest(ctx, envelope.Response.Results)
}

func (c *ContentSearch) ingest(ctx context.Context, raws []json.RawMessage) ([]*entity.Article, error) {
	source, err := c.registry.FindOrCreate(ctx, contentSearchName, contentSearchName, c.descriptor())
	if err != nil {
		return nil, fmt.Errorf("ingest: resolve source: %w", err)
	}

	saved := make([]*entity.Article, 0, len(raws))
	for _, raw := range raws {
		var rec contentSearchResult
		if err := json.Unmarshal(raw, &rec); err != nil {
			slog.Warn("skipping malformed article record",
				slog.String("provider", contentSearchName),
				slog.Any("error", err))
			continue
		}

		title := rec.Fields.Headline
		if title == "" {
			title = rec.WebTitle
		}
		article := &entity.Article{
			SourceID:    source.ID,
			Title:       title,
			Description: rec.Fields.TrailText,
			Content:     rec.Fields.Body,
			Author:      rec.Fields.Byline,
			URL:         rec.WebURL,
			ImageURL:    rec.Fields.Thumbnail,
			Category:    rec.SectionName,
			PublishedAt: parseDate(rec.WebPublicationDate),
			ExternalID:  rec.ID,
			RawData:     raw,
		}
		if err := article.Validate(); err != nil {
			slog.Warn("skipping invalid article",
				slog.String("provider", contentSearchName),
				slog.String("url", rec.WebURL),
				slog.Any("error", err))
			continue
		}

		if _, err := c.store.SaveBatch(ctx, []*entity.Article{article}, source.ID); err != nil {
			return saved, fmt.Errorf("ingest: save: %w", err)
		}
		saved = append(saved, article)
	}
	return saved, nil
}
