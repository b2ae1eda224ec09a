// Package ingest provides the HTTP trigger for on-demand ingestion runs.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/requestid"
	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/infra/provider"
	"newsdesk/internal/observability/logging"
)

// Aggregator runs an ingestion pass across all registered providers.
type Aggregator interface {
	FetchTopArticles(ctx context.Context, params provider.Params) []*entity.Article
	SearchArticles(ctx context.Context, query string, params provider.Params) []*entity.Article
	FetchSources(ctx context.Context, params provider.Params) []*entity.Source
}

// Result is the JSON response of a triggered ingestion run.
type Result struct {
	Job      string `json:"job"`
	Articles int    `json:"articles,omitempty"`
	Sources  int    `json:"sources,omitempty"`
	Duration string `json:"duration"`
}

// TriggerHandler runs an ingestion job synchronously.
//
// Query parameters: job (top, search, or sources; default top), query
// (required for search), category, and section, which pass through to the
// providers.
type TriggerHandler struct {
	Agg    Aggregator
	Logger *slog.Logger
}

func (h TriggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)
	reqID := requestid.FromContext(ctx)

	q := r.URL.Query()
	job := q.Get("job")
	if job == "" {
		job = "top"
	}

	params := provider.Params{}
	if category := q.Get("category"); category != "" {
		params["category"] = category
	}
	if section := q.Get("section"); section != "" {
		params["section"] = section
	}

	start := time.Now()
	result := Result{Job: job}

	switch job {
	case "top":
		result.Articles = len(h.Agg.FetchTopArticles(ctx, params))
	case "search":
		query := q.Get("query")
		if query == "" {
			respond.SafeError(w, http.StatusBadRequest,
				fmt.Errorf("invalid query parameter: query is required for the search job"))
			return
		}
		result.Articles = len(h.Agg.SearchArticles(ctx, query, params))
	case "sources":
		result.Sources = len(h.Agg.FetchSources(ctx, params))
	default:
		respond.SafeError(w, http.StatusBadRequest,
			fmt.Errorf("invalid query parameter: job must be top, search, or sources"))
		return
	}

	result.Duration = time.Since(start).String()

	logger.Info("ingestion run complete",
		"job", job,
		"articles", result.Articles,
		"sources", result.Sources,
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, result)
}

// Register registers the ingestion trigger with the given mux.
func Register(mux *http.ServeMux, agg Aggregator, logger *slog.Logger) {
	mux.Handle("POST /ingest", TriggerHandler{Agg: agg, Logger: logger})
}
