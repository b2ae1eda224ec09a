package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"newsdesk/internal/domain/entity"
	pg "newsdesk/internal/infra/adapter/persistence/postgres"
)

/* ─────────────────────────── helpers ─────────────────────────── */

var sourceCols = []string{
	"id", "name", "slug", "api_name", "api_id", "description",
	"url", "category", "language", "country", "created_at",
}

func srcRow(s *entity.Source) *sqlmock.Rows {
	return sqlmock.NewRows(sourceCols).AddRow(
		s.ID, s.Name, s.Slug, s.APIName, s.APIID, s.Description,
		s.URL, s.Category, s.Language, s.Country, s.CreatedAt,
	)
}

/* ─────────────────────────── 1. FindOrCreate ─────────────────────────── */

func TestSourceRepo_FindOrCreate_Inserts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	want := &entity.Source{
		ID: 1, Name: "Example Times", Slug: "example-times",
		APIName: "generic-headlines", CreatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sources")).
		WithArgs("Example Times", "example-times", "generic-headlines",
			nil, nil, nil, nil, nil, nil).
		WillReturnRows(srcRow(want))

	repo := pg.NewSourceRepo(db)
	got, err := repo.FindOrCreate(context.Background(), "example-times", "generic-headlines",
		&entity.Source{Name: "Example Times"})
	if err != nil {
		t.Fatalf("FindOrCreate err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_FindOrCreate_ExistingRowWins(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	existing := &entity.Source{
		ID: 5, Name: "First Seen Name", Slug: "example-times",
		APIName: "generic-headlines", CreatedAt: now,
	}

	// ON CONFLICT DO NOTHING returns no row, then the re-read finds the
	// existing row with its first-seen descriptive fields intact.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sources")).
		WithArgs("Later Name", "example-times", "generic-headlines",
			nil, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(sourceCols))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1 AND api_name = $2")).
		WithArgs("example-times", "generic-headlines").
		WillReturnRows(srcRow(existing))

	repo := pg.NewSourceRepo(db)
	got, err := repo.FindOrCreate(context.Background(), "example-times", "generic-headlines",
		&entity.Source{Name: "Later Name"})
	if err != nil {
		t.Fatalf("FindOrCreate err=%v", err)
	}
	if got.Name != "First Seen Name" {
		t.Errorf("Name = %q, want %q", got.Name, "First Seen Name")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_FindOrCreate_NameDefaultsToSlug(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sources")).
		WithArgs("the-guardian", "the-guardian", "content-search",
			nil, nil, nil, nil, nil, nil).
		WillReturnRows(srcRow(&entity.Source{
			ID: 2, Name: "the-guardian", Slug: "the-guardian",
			APIName: "content-search", CreatedAt: now,
		}))

	repo := pg.NewSourceRepo(db)
	got, err := repo.FindOrCreate(context.Background(), "the-guardian", "content-search",
		&entity.Source{})
	if err != nil {
		t.Fatalf("FindOrCreate err=%v", err)
	}
	if got.Name != "the-guardian" {
		t.Errorf("Name = %q, want slug fallback", got.Name)
	}
}

/* ─────────────────────────── 2. UpsertBatch ─────────────────────────── */

func TestSourceRepo_UpsertBatch(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	sources := []*entity.Source{
		{Name: "Example Times", Slug: "example-times", Category: "general"},
		{Name: "No Slug Outlet"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sources")).
		WithArgs("Example Times", "example-times", "generic-headlines",
			nil, nil, nil, "general", nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Missing slug is derived from the name.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sources")).
		WithArgs("No Slug Outlet", "no-slug-outlet", "generic-headlines",
			nil, nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	repo := pg.NewSourceRepo(db)
	if err := repo.UpsertBatch(context.Background(), sources, "generic-headlines"); err != nil {
		t.Fatalf("UpsertBatch err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_UpsertBatch_RollsBackOnError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sources")).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	repo := pg.NewSourceRepo(db)
	err := repo.UpsertBatch(context.Background(),
		[]*entity.Source{{Name: "x", Slug: "x"}}, "generic-headlines")
	if err == nil {
		t.Fatal("UpsertBatch expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSourceRepo_UpsertBatch_Empty(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	repo := pg.NewSourceRepo(db)
	if err := repo.UpsertBatch(context.Background(), nil, "generic-headlines"); err != nil {
		t.Fatalf("UpsertBatch err=%v", err)
	}
}

/* ─────────────────────────── 3. Get / List / Delete ─────────────────────────── */

func TestSourceRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	want := &entity.Source{
		ID: 3, Name: "Example Times", Slug: "example-times",
		APIName: "generic-headlines", Country: "us", CreatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(srcRow(want))

	repo := pg.NewSourceRepo(db)
	got, err := repo.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(sourceCols))

	repo := pg.NewSourceRepo(db)
	got, err := repo.Get(context.Background(), 404)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got != nil {
		t.Fatalf("Get = %+v, want nil", got)
	}
}

func TestSourceRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sources")).
		WillReturnRows(sqlmock.NewRows(sourceCols).
			AddRow(int64(1), "A", "a", "generic-headlines", nil, nil, nil, nil, nil, nil, now).
			AddRow(int64(2), "B", "b", "content-search", nil, nil, nil, nil, nil, nil, now))

	repo := pg.NewSourceRepo(db)
	got, err := repo.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
}

func TestSourceRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sources")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewSourceRepo(db)
	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
}

func TestSourceRepo_Delete_NoRows(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sources")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewSourceRepo(db)
	if err := repo.Delete(context.Background(), 9); err == nil {
		t.Fatal("Delete expected error, got nil")
	}
}
