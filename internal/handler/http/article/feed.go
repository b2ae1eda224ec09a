package article

import (
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/requestid"
	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/observability/logging"
	artUC "newsdesk/internal/usecase/article"
)

// FeedHandler serves the personalized feed scoped to a preference profile.
//
// The profile comes from the source_ids, categories, and authors query
// parameters, each a comma-separated list. The ad-hoc filter and pagination
// parameters of the plain listing apply on top. An empty profile yields an
// empty page rather than the whole corpus.
type FeedHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	sourceIDs, categories, authors, err := parsePreference(r)
	if err != nil {
		logger.Warn("Invalid preference parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	pref := entity.Preference{
		SourceIDs:  sourceIDs,
		Categories: categories,
		Authors:    authors,
	}

	filters, err := parseFilters(r)
	if err != nil {
		logger.Warn("Invalid filter parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	pagination.LogRequest(h.Logger, reqID, params)

	result, err := h.Svc.ListForPreference(ctx, pref, filters, params)
	if err != nil {
		pagination.LogError(h.Logger, reqID, params, err, "database")
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, fromWithSource(item))
	}

	response := pagination.NewResponse(dtos, result.Pagination)

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())

	pagination.LogResponse(h.Logger, reqID, params, len(dtos), duration, http.StatusOK)

	respond.JSON(w, http.StatusOK, response)
}
