package source

import (
	"net/http"

	"newsdesk/internal/handler/http/respond"
	srcUC "newsdesk/internal/usecase/source"
)

// ListHandler serves the full source listing.
type ListHandler struct{ Svc *srcUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, e := range list {
		out = append(out, fromEntity(e))
	}
	respond.JSON(w, http.StatusOK, out)
}
