package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"newsdesk/internal/domain/entity"
)

const headlinesName = "generic-headlines"

// Headlines adapts the generic-headlines API. It authenticates with an
// X-Api-Key header and is the only provider whose article payload carries a
// per-article publication, so every record resolves its own source.
type Headlines struct {
	client   *Client
	registry SourceRegistry
	store    ArticleStore
	baseURL  string
	apiKey   string
}

// NewHeadlines creates the generic-headlines adapter.
func NewHeadlines(cfg Config, registry SourceRegistry, store ArticleStore) *Headlines {
	return &Headlines{
		client:   NewClient(headlinesName, cfg.Timeout, cfg.RequestsPerSecond, cfg.Burst),
		registry: registry,
		store:    store,
		baseURL:  cfg.HeadlinesBaseURL,
		apiKey:   cfg.HeadlinesAPIKey,
	}
}

func (h *Headlines) Name() string { return headlinesName }

type headlinesEnvelope struct {
	Status   string            `json:"status"`
	Articles []json.RawMessage `json:"articles"`
}

type headlinesArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

type headlinesSourcesEnvelope struct {
	Status  string `json:"status"`
	Sources []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Category    string `json:"category"`
		Language    string `json:"language"`
		Country     string `json:"country"`
	} `json:"sources"`
}

// TopArticles fetches current top headlines. Defaults: country=us,
// pageSize=100; overridable via params, plus an optional category.
func (h *Headlines) TopArticles(ctx context.Context, params Params) ([]*entity.Article, error) {
	query := url.Values{
		"country":  {params.Get("country", "us")},
		"pageSize": {params.Get("pageSize", "100")},
	}
	if category := params.Get("category", ""); category != "" {
		query.Set("category", category)
	}

	var envelope headlinesEnvelope
	if err := h.client.GetJSON(ctx, h.baseURL+"/top-headlines", query, h.authHeader(), &envelope); err != nil {
		slog.Warn("top articles fetch failed",
			slog.String("provider", headlinesName),
			slog.Any("error", err))
		return []*entity.Article{}, nil
	}
	return h.ingest(ctx, envelope.Articles, params.Get("category", ""))
}

// SearchArticles queries the archive endpoint sorted by publication date.
func (h *Headlines) SearchArticles(ctx context.Context, searchQuery string, params Params) ([]*entity.Article, error) {
	query := url.Values{
		"q":        {searchQuery},
		"sortBy":   {params.Get("sortBy", "publishedAt")},
		"pageSize": {params.Get("pageSize", "100")},
	}

	var envelope headlinesEnvelope
	if err := h.client.GetJSON(ctx, h.baseURL+"/everything", query, h.authHeader(), &envelope); err != nil {
		slog.Warn("article search failed",
			slog.String("provider", headlinesName),
			slog.String("query", searchQuery),
			slog.Any("error", err))
		return []*entity.Article{}, nil
	}
	return h.ingest(ctx, envelope.Articles, "")
}

// Sources maps the provider's publication listing 1:1.
func (h *Headlines) Sources(ctx context.Context, params Params) ([]*entity.Source, error) {
	query := url.Values{}
	if category := params.Get("category", ""); category != "" {
		query.Set("category", category)
	}

	var envelope headlinesSourcesEnvelope
	if err := h.client.GetJSON(ctx, h.baseURL+"/sources", query, h.authHeader(), &envelope); err != nil {
		slog.Warn("sources fetch failed",
			slog.String("provider", headlinesName),
			slog.Any("error", err))
		return []*entity.Source{}, nil
	}

	sources := make([]*entity.Source, 0, len(envelope.Sources))
	for _, s := range envelope.Sources {
		sources = append(sources, &entity.Source{
			Name:        s.Name,
			Slug:        entity.Slugify(s.Name),
			APIName:     headlinesName,
			APIID:       s.ID,
			Description: s.Description,
			URL:         s.URL,
			Category:    s.Category,
			Language:    s.Language,
			Country:     s.Country,
		})
	}
	return sources, nil
}

func (h *Headlines) authHeader() http.Header {
	return http.Header{"X-Api-Key": {h.apiKey}}
}

// ingest maps and persists one article at a time, resolving the publication
// of each record through the registry. Records already stored are skipped
// before resolution; malformed records are skipped with a log entry;
// persistence failures propagate to the aggregator.
func (h *Headlines) ingest(ctx context.Context, raws []json.RawMessage, category string) ([]*entity.Article, error) {
	type record struct {
		raw json.RawMessage
		rec headlinesArticle
	}
	records := make([]record, 0, len(raws))
	urls := make([]string, 0, len(raws))
	externalIDs := make([]string, 0, len(raws))
	for _, raw := range raws {
		var rec headlinesArticle
		if err := json.Unmarshal(raw, &rec); err != nil {
			slog.Warn("skipping malformed article record",
				slog.String("provider", headlinesName),
				slog.Any("error", err))
			continue
		}
		records = append(records, record{raw: raw, rec: rec})
		urls = append(urls, rec.URL)
		externalIDs = append(externalIDs, syntheticExternalID(rec.URL))
	}

	known, err := h.store.ExistsBatch(ctx, urls, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("ingest: existence check: %w", err)
	}

	saved := make([]*entity.Article, 0, len(records))
	for _, r := range records {
		raw, rec := r.raw, r.rec
		if known[rec.URL] {
			continue
		}

		publication := rec.Source.Name
		if publication == "" {
			publication = headlinesName
		}
		source, err := h.registry.FindOrCreate(ctx, entity.Slugify(publication), headlinesName, &entity.Source{
			Name:  publication,
			APIID: rec.Source.ID,
		})
		if err != nil {
			return saved, fmt.Errorf("ingest: resolve source: %w", err)
		}

		article := &entity.Article{
			SourceID:    source.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Content:     rec.Content,
			Author:      rec.Author,
			URL:         rec.URL,
			ImageURL:    rec.URLToImage,
			Category:    category,
			PublishedAt: parseDate(rec.PublishedAt),
			ExternalID:  syntheticExternalID(rec.URL),
			RawData:     raw,
		}
		if err := article.Validate(); err != nil {
			slog.Warn("skipping invalid article",
				slog.String("provider", headlinesName),
				slog.String("url", rec.URL),
				slog.Any("error", err))
			continue
		}

		if _, err := h.store.SaveBatch(ctx, []*entity.Article{article}, source.ID); err != nil {
			return saved, fmt.Errorf("ingest: save: %w", err)
		}
		saved = append(saved, article)
	}
	return saved, nil
}
