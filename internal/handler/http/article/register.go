package article

import (
	"log/slog"
	"net/http"

	"newsdesk/internal/common/pagination"
	artUC "newsdesk/internal/usecase/article"
)

// Register registers all article-related HTTP handlers with the given mux.
// It sets up routes for the filtered listing, the personalized feed, the
// facet listings, and single-article lookup.
func Register(mux *http.ServeMux, svc *artUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /articles", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /articles/feed", FeedHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /articles/categories", CategoriesHandler{svc})
	mux.Handle("GET    /articles/authors", AuthorsHandler{svc})
	mux.Handle("GET    /articles/", GetHandler{svc})
}
