package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsdesk/internal/domain/entity"
	srcUC "newsdesk/internal/usecase/source"
)

/* ───────── stub repository ───────── */

type stubRepo struct {
	data    map[int64]*entity.Source
	deleted []int64
	err     error
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Source{}}
}

func (s *stubRepo) FindOrCreate(_ context.Context, _, _ string, defaults *entity.Source) (*entity.Source, error) {
	return defaults, s.err
}

func (s *stubRepo) UpsertBatch(context.Context, []*entity.Source, string) error {
	return s.err
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Source, error) {
	return s.data[id], s.err
}

func (s *stubRepo) List(context.Context) ([]*entity.Source, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*entity.Source, 0, len(s.data))
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func sampleSource() *entity.Source {
	return &entity.Source{
		ID:        4,
		Name:      "Example Times",
		Slug:      "example-times",
		APIName:   "generic-headlines",
		Category:  "general",
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

/* ───────── tests ───────── */

func TestListHandler(t *testing.T) {
	repo := newStub()
	repo.data[4] = sampleSource()
	h := ListHandler{Svc: &srcUC.Service{Repo: repo}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sources", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}

	var out []DTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].Slug != "example-times" || out[0].APIName != "generic-headlines" {
		t.Errorf("dto = %+v", out[0])
	}
}

func TestListHandler_Empty(t *testing.T) {
	h := ListHandler{Svc: &srcUC.Service{Repo: newStub()}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sources", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	var out []DTO
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len = %d", len(out))
	}
}

func TestListHandler_RepositoryError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	h := ListHandler{Svc: &srcUC.Service{Repo: repo}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sources", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestGetHandler(t *testing.T) {
	repo := newStub()
	repo.data[4] = sampleSource()
	h := GetHandler{Svc: &srcUC.Service{Repo: repo}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sources/4", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", w.Code, w.Body.String())
	}
	var dto DTO
	if err := json.Unmarshal(w.Body.Bytes(), &dto); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dto.ID != 4 || dto.Name != "Example Times" {
		t.Errorf("dto = %+v", dto)
	}
}

func TestGetHandler_NotFound(t *testing.T) {
	h := GetHandler{Svc: &srcUC.Service{Repo: newStub()}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sources/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestGetHandler_InvalidID(t *testing.T) {
	h := GetHandler{Svc: &srcUC.Service{Repo: newStub()}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/sources/abc", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}

func TestDeleteHandler(t *testing.T) {
	repo := newStub()
	h := DeleteHandler{Svc: &srcUC.Service{Repo: repo}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("DELETE", "/sources/7", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("code = %d", w.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != 7 {
		t.Errorf("deleted = %v", repo.deleted)
	}
}

func TestDeleteHandler_InvalidID(t *testing.T) {
	h := DeleteHandler{Svc: &srcUC.Service{Repo: newStub()}}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("DELETE", "/sources/0", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}
