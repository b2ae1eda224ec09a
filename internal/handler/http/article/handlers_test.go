package article

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
	artUC "newsdesk/internal/usecase/article"
)

/* ───────── stub repository ───────── */

type stubRepo struct {
	articles    []repository.ArticleWithSource
	lastFilters repository.ArticleFilters
	lastPref    entity.Preference
	categories  []string
	authors     []string
	err         error
}

func (s *stubRepo) SaveBatch(context.Context, []*entity.Article, int64) (int, error) {
	return 0, s.err
}

func (s *stubRepo) ExistsBatch(context.Context, []string, []string) (map[string]bool, error) {
	return nil, s.err
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, item := range s.articles {
		if item.Article.ID == id {
			return item.Article, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListFiltered(_ context.Context, filters repository.ArticleFilters, offset, limit int) ([]repository.ArticleWithSource, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastFilters = filters
	return s.articles, nil
}

func (s *stubRepo) CountFiltered(context.Context, repository.ArticleFilters) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.articles)), nil
}

func (s *stubRepo) ListForPreference(_ context.Context, pref entity.Preference, filters repository.ArticleFilters, offset, limit int) ([]repository.ArticleWithSource, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastPref = pref
	return s.articles, nil
}

func (s *stubRepo) CountForPreference(context.Context, entity.Preference, repository.ArticleFilters) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.articles)), nil
}

func (s *stubRepo) Categories(context.Context) ([]string, error) { return s.categories, s.err }
func (s *stubRepo) Authors(context.Context) ([]string, error)    { return s.authors, s.err }

func testService(repo *stubRepo) *artUC.Service {
	return &artUC.Service{Repo: repo, Config: pagination.DefaultConfig()}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleArticles() []repository.ArticleWithSource {
	published := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return []repository.ArticleWithSource{
		{
			Article: &entity.Article{
				ID:          1,
				SourceID:    2,
				Title:       "Go 1.25 released",
				Author:      "Jane Doe",
				URL:         "https://example.com/go-125",
				Category:    "technology",
				PublishedAt: published,
			},
			SourceName: "Example Times",
		},
	}
}

/* ───────── list ───────── */

func TestListHandler(t *testing.T) {
	repo := &stubRepo{articles: sampleArticles()}
	h := ListHandler{Svc: testService(repo), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles?search=go&category=technology", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	var resp pagination.Response[DTO]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("data len = %d", len(resp.Data))
	}
	if resp.Data[0].Title != "Go 1.25 released" {
		t.Errorf("title = %q", resp.Data[0].Title)
	}
	if resp.Data[0].SourceName != "Example Times" {
		t.Errorf("source_name = %q", resp.Data[0].SourceName)
	}
	if resp.Pagination.Total != 1 || resp.Pagination.Page != 1 {
		t.Errorf("pagination = %+v", resp.Pagination)
	}

	if repo.lastFilters.Search != "go" || repo.lastFilters.Category != "technology" {
		t.Errorf("filters = %+v", repo.lastFilters)
	}
}

func TestListHandler_InvalidPage(t *testing.T) {
	h := ListHandler{Svc: testService(&stubRepo{}), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles?page=zero", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestListHandler_InvalidSourceID(t *testing.T) {
	h := ListHandler{Svc: testService(&stubRepo{}), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles?source_id=oops", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestListHandler_RepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.New("connection refused")}
	h := ListHandler{Svc: testService(repo), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
	if w.Body.String() == "" || w.Body.String()[0] != '{' {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestListHandler_EmitsPaginationLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	repo := &stubRepo{articles: sampleArticles()}
	h := ListHandler{Svc: testService(repo), PaginationCfg: pagination.DefaultConfig(), Logger: logger}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles", nil))

	logs := buf.String()
	if !strings.Contains(logs, `"msg":"Paginated request"`) {
		t.Errorf("missing request log: %s", logs)
	}
	if !strings.Contains(logs, `"msg":"Paginated response"`) {
		t.Errorf("missing response log: %s", logs)
	}
	if !strings.Contains(logs, `"returned_count":1`) {
		t.Errorf("missing returned_count: %s", logs)
	}
}

func TestListHandler_EmitsPaginationErrorLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	repo := &stubRepo{err: errors.New("connection refused")}
	h := ListHandler{Svc: testService(repo), PaginationCfg: pagination.DefaultConfig(), Logger: logger}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
	logs := buf.String()
	if !strings.Contains(logs, `"msg":"Pagination error"`) {
		t.Errorf("missing error log: %s", logs)
	}
	if !strings.Contains(logs, `"error_type":"database"`) {
		t.Errorf("missing error_type: %s", logs)
	}
}

/* ───────── feed ───────── */

func TestFeedHandler_PassesPreference(t *testing.T) {
	repo := &stubRepo{articles: sampleArticles()}
	h := FeedHandler{Svc: testService(repo), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/feed?source_ids=2&categories=technology", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	if len(repo.lastPref.SourceIDs) != 1 || repo.lastPref.SourceIDs[0] != 2 {
		t.Errorf("pref source ids = %v", repo.lastPref.SourceIDs)
	}
	if len(repo.lastPref.Categories) != 1 || repo.lastPref.Categories[0] != "technology" {
		t.Errorf("pref categories = %v", repo.lastPref.Categories)
	}
}

func TestFeedHandler_EmptyProfileYieldsEmptyPage(t *testing.T) {
	repo := &stubRepo{articles: sampleArticles()}
	h := FeedHandler{Svc: testService(repo), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/feed", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}

	var resp pagination.Response[DTO]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("data len = %d, want 0", len(resp.Data))
	}
	if resp.Pagination.Total != 0 {
		t.Errorf("total = %d, want 0", resp.Pagination.Total)
	}
}

func TestFeedHandler_InvalidSourceIDs(t *testing.T) {
	h := FeedHandler{Svc: testService(&stubRepo{}), PaginationCfg: pagination.DefaultConfig(), Logger: testLogger()}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/feed?source_ids=1,x", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

/* ───────── get ───────── */

func TestGetHandler(t *testing.T) {
	repo := &stubRepo{articles: sampleArticles()}
	h := GetHandler{Svc: testService(repo)}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	var dto DTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dto.ID != 1 || dto.Title != "Go 1.25 released" {
		t.Errorf("dto = %+v", dto)
	}
}

func TestGetHandler_NotFound(t *testing.T) {
	h := GetHandler{Svc: testService(&stubRepo{})}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestGetHandler_InvalidID(t *testing.T) {
	h := GetHandler{Svc: testService(&stubRepo{})}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

/* ───────── facets ───────── */

func TestCategoriesHandler(t *testing.T) {
	repo := &stubRepo{categories: []string{"business", "technology"}}
	h := CategoriesHandler{Svc: testService(repo)}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/categories", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}

	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body["categories"]) != 2 {
		t.Errorf("categories = %v", body["categories"])
	}
}

func TestAuthorsHandler_EmptyCorpus(t *testing.T) {
	h := AuthorsHandler{Svc: testService(&stubRepo{})}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/articles/authors", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}

	var body map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["authors"] == nil || len(body["authors"]) != 0 {
		t.Errorf("authors = %v", body["authors"])
	}
}

/* ───────── routing ───────── */

func TestRegister_Routes(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux, testService(&stubRepo{articles: sampleArticles()}), pagination.DefaultConfig(), testLogger())

	tests := []struct {
		path string
		want int
	}{
		{"/articles", http.StatusOK},
		{"/articles/feed", http.StatusOK},
		{"/articles/categories", http.StatusOK},
		{"/articles/authors", http.StatusOK},
		{"/articles/1", http.StatusOK},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))
		if w.Code != tt.want {
			t.Errorf("%s: code = %d, want %d", tt.path, w.Code, tt.want)
		}
	}
}
