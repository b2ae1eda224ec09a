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
	editorialName  = "curated-editorial"
	editorialTitle = "Curated Editorial"
)

// Editorial adapts the curated-editorial API. It authenticates with api-key
// and api-secret query parameters and exposes two very different response
// shapes: a curated top-stories listing per section and an archive search.
type Editorial struct {
	client    *Client
	registry  SourceRegistry
	store     ArticleStore
	baseURL   string
	apiKey    string
	apiSecret string
}

// NewEditorial creates the curated-editorial adapter.
func NewEditorial(cfg Config, registry SourceRegistry, store ArticleStore) *Editorial {
	return &Editorial{
		client:    NewClient(editorialName, cfg.Timeout, cfg.RequestsPerSecond, cfg.Burst),
		registry:  registry,
		store:     store,
		baseURL:   cfg.EditorialBaseURL,
		apiKey:    cfg.EditorialAPIKey,
		apiSecret: cfg.EditorialAPISecret,
	}
}

func (e *Editorial) Name() string { return editorialName }

type editorialTopEnvelope struct {
	Status  string            `json:"status"`
	Results []json.RawMessage `json:"results"`
}

type editorialTopResult struct {
	Section       string `json:"section"`
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	URL           string `json:"url"`
	Byline        string `json:"byline"`
	PublishedDate string `json:"published_date"`
	Multimedia    []struct {
		URL    string `json:"url"`
		Format string `json:"format"`
	} `json:"multimedia"`
}

type editorialSearchEnvelope struct {
	Status   string `json:"status"`
	Response struct {
		Docs []json.RawMessage `json:"docs"`
	} `json:"response"`
}

type editorialSearchDoc struct {
	ID            string `json:"_id"`
	WebURL        string `json:"web_url"`
	Abstract      string `json:"abstract"`
	LeadParagraph string `json:"lead_paragraph"`
	SectionName   string `json:"section_name"`
	PubDate       string `json:"pub_date"`
	Headline      struct {
		Main string `json:"main"`
	} `json:"headline"`
	Byline struct {
		Original string `json:"original"`
	} `json:"byline"`
}

// TopArticles fetches the curated top stories for a section (default: home).
func (e *Editorial) TopArticles(ctx context.Context, params Params) ([]*entity.Article, error) {
	section := params.Get("section", "home")

	var envelope editorialTopEnvelope
	endpoint := fmt.Sprintf("%s/topstories/v2/%s.json", e.baseURL, section)
	if err := e.client.GetJSON(ctx, endpoint, e.authQuery(), nil, &envelope); err != nil {
		slog.Warn("top articles fetch failed",
			slog.String("provider", editorialName),
			slog.String("section", section),
			slog.Any("error", err))
		return []*entity.Article{}, nil
	}

	source, err := e.resolveSource(ctx)
	if err != nil {
		return nil, err
	}

	saved := make([]*entity.Article, 0, len(envelope.Results))
	for _, raw := range envelope.Results {
		var rec editorialTopResult
		if err := json.Unmarshal(raw, &rec); err != nil {
			slog.Warn("skipping malformed article record",
				slog.String("provider", editorialName),
				slog.Any("error", err))
			continue
		}

		article := &entity.Article{
			SourceID:    source.ID,
			Title:       rec.Title,
			Description: rec.Abstract,
			Author:      rec.Byline,
			URL:         rec.URL,
			ImageURL:    topStoryImage(rec),
			Category:    rec.Section,
			PublishedAt: parseDate(rec.PublishedDate),
			ExternalID:  syntheticExternalID(rec.URL),
			RawData:     raw,
		}
		saved, err = e.saveOne(ctx, saved, article, source.ID)
		if err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// SearchArticles queries the archive search endpoint.
func (e *Editorial) SearchArticles(ctx context.Context, searchQuery string, params Params) ([]*entity.Article, error) {
	query := e.authQuery()
	query.Set("q", searchQuery)
	query.Set("sort", params.Get("sort", "newest"))

	var envelope editorialSearchEnvelope
	endpoint := e.baseURL + "/search/v2/articlesearch.json"
	if err := e.client.GetJSON(ctx, endpoint, query, nil, &envelope); err != nil {
		slog.Warn("article search failed",
			slog.String("provider", editorialName),
			slog.String("query", searchQuery),
			slog.Any("error", err))
		return []*entity.Article{}, nil
	}

	source, err := e.resolveSource(ctx)
	if err != nil {
		return nil, err
	}

	saved := make([]*entity.Article, 0, len(envelope.Response.Docs))
	for _, raw := range envelope.Response.Docs {
		var doc editorialSearchDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			slog.Warn("skipping malformed article record",
				slog.String("provider", editorialName),
				slog.Any("error", err))
			continue
		}

		article := &entity.Article{
			SourceID:    source.ID,
			Title:       doc.Headline.Main,
			Description: doc.Abstract,
			Content:     doc.LeadParagraph,
			Author:      doc.Byline.Original,
			URL:         doc.WebURL,
			Category:    doc.SectionName,
			PublishedAt: parseDate(doc.PubDate),
			ExternalID:  doc.ID,
			RawData:     raw,
		}
		saved, err = e.saveOne(ctx, saved, article, source.ID)
		if err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// Sources returns the single synthesized descriptor for this provider.
func (e *Editorial) Sources(ctx context.Context, _ Params) ([]*entity.Source, error) {
	return []*entity.Source{e.descriptor()}, nil
}

func (e *Editorial) descriptor() *entity.Source {
	return &entity.Source{
		Name:        editorialTitle,
		Slug:        editorialName,
		APIName:     editorialName,
		Description: "Articles from the curated-editorial API",
		Language:    "en",
	}
}

func (e *Editorial) resolveSource(ctx context.Context) (*entity.Source, error) {
	source, err := e.registry.FindOrCreate(ctx, editorialName, editorialName, e.descriptor())
	if err != nil {
		return nil, fmt.Errorf("resolveSource: %w", err)
	}
	return source, nil
}

func (e *Editorial) saveOne(ctx context.Context, saved []*entity.Article, article *entity.Article, sourceID int64) ([]*entity.Article, error) {
	if err := article.Validate(); err != nil {
		slog.Warn("skipping invalid article",
			slog.String("provider", editorialName),
			slog.String("url", article.URL),
			slog.Any("error", err))
		return saved, nil
	}
	if _, err := e.store.SaveBatch(ctx, []*entity.Article{article}, sourceID); err != nil {
		return saved, fmt.Errorf("save: %w", err)
	}
	return append(saved, article), nil
}

func (e *Editorial) authQuery() url.Values {
	query := url.Values{"api-key": {e.apiKey}}
	if e.apiSecret != "" {
		query.Set("api-secret", e.apiSecret)
	}
	return query
}

// topStoryImage picks the medium crop when available, otherwise the first
// rendition.
func topStoryImage(rec editorialTopResult) string {
	for _, m := range rec.Multimedia {
		if m.Format == "mediumThreeByTwo440" {
			return m.URL
		}
	}
	if len(rec.Multimedia) > 0 {
		return rec.Multimedia[0].URL
	}
	return ""
}
