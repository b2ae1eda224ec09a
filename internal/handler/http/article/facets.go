package article

import (
	"net/http"

	"newsdesk/internal/handler/http/respond"
	artUC "newsdesk/internal/usecase/article"
)

// CategoriesHandler lists the distinct categories present in the corpus.
type CategoriesHandler struct{ Svc *artUC.Service }

func (h CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Svc.Categories(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respond.JSON(w, http.StatusOK, map[string][]string{"categories": categories})
}

// AuthorsHandler lists the distinct authors present in the corpus.
type AuthorsHandler struct{ Svc *artUC.Service }

func (h AuthorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authors, err := h.Svc.Authors(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if authors == nil {
		authors = []string{}
	}
	respond.JSON(w, http.StatusOK, map[string][]string{"authors": authors})
}
