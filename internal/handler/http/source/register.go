package source

import (
	"net/http"

	srcUC "newsdesk/internal/usecase/source"
)

// Register registers all source-related HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *srcUC.Service) {
	mux.Handle("GET    /sources", ListHandler{svc})
	mux.Handle("GET    /sources/", GetHandler{svc})
	mux.Handle("DELETE /sources/", DeleteHandler{svc})
}
