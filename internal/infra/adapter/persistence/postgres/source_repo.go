package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, name, slug, api_name, api_id, description, url, category, language, country, created_at`

func scanSource(scanner interface{ Scan(...interface{}) error }) (*entity.Source, error) {
	var (
		source                      entity.Source
		apiID, description, url     sql.NullString
		category, language, country sql.NullString
	)
	if err := scanner.Scan(
		&source.ID, &source.Name, &source.Slug, &source.APIName,
		&apiID, &description, &url, &category, &language, &country,
		&source.CreatedAt,
	); err != nil {
		return nil, err
	}
	source.APIID = apiID.String
	source.Description = description.String
	source.URL = url.String
	source.Category = category.String
	source.Language = language.String
	source.Country = country.String
	return &source, nil
}

// FindOrCreate resolves a source by its (slug, api_name) natural key.
// It relies on the unique constraint: INSERT ... ON CONFLICT DO NOTHING, then
// re-read when the insert returned no row. Two callers racing on the same key
// therefore converge on one row with no check-then-insert window, and an
// existing row keeps its first-seen descriptive fields.
func (repo *SourceRepo) FindOrCreate(ctx context.Context, slug, apiName string, defaults *entity.Source) (*entity.Source, error) {
	insertQuery := fmt.Sprintf(`
INSERT INTO sources (name, slug, api_name, api_id, description, url, category, language, country, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (slug, api_name) DO NOTHING
RETURNING %s`, sourceColumns)

	name := defaults.Name
	if name == "" {
		name = slug
	}
	source, err := scanSource(repo.db.QueryRowContext(ctx, insertQuery,
		name, slug, apiName,
		nullIfEmpty(defaults.APIID), nullIfEmpty(defaults.Description), nullIfEmpty(defaults.URL),
		nullIfEmpty(defaults.Category), nullIfEmpty(defaults.Language), nullIfEmpty(defaults.Country),
	))
	if err == nil {
		return source, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("FindOrCreate: insert: %w", err)
	}

	// Conflict: the row already exists (or a concurrent caller just won).
	selectQuery := fmt.Sprintf(`
SELECT %s
FROM sources
WHERE slug = $1 AND api_name = $2
LIMIT 1`, sourceColumns)
	source, err = scanSource(repo.db.QueryRowContext(ctx, selectQuery, slug, apiName))
	if err != nil {
		return nil, fmt.Errorf("FindOrCreate: select: %w", err)
	}
	return source, nil
}

// UpsertBatch inserts or refreshes provider source listings atomically.
// Existing rows are updated on natural-key conflict: descriptive fields are
// overwritten while id and created_at are preserved.
func (repo *SourceRepo) UpsertBatch(ctx context.Context, sources []*entity.Source, apiName string) error {
	if len(sources) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("UpsertBatch: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
INSERT INTO sources (name, slug, api_name, api_id, description, url, category, language, country, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (slug, api_name) DO UPDATE SET
       name        = EXCLUDED.name,
       api_id      = EXCLUDED.api_id,
       description = EXCLUDED.description,
       url         = EXCLUDED.url,
       category    = EXCLUDED.category,
       language    = EXCLUDED.language,
       country     = EXCLUDED.country`

	for _, source := range sources {
		slug := source.Slug
		if slug == "" {
			slug = entity.Slugify(source.Name)
		}
		if _, err := tx.ExecContext(ctx, query,
			source.Name, slug, apiName,
			nullIfEmpty(source.APIID), nullIfEmpty(source.Description), nullIfEmpty(source.URL),
			nullIfEmpty(source.Category), nullIfEmpty(source.Language), nullIfEmpty(source.Country),
		); err != nil {
			slog.Error("failed to save source",
				slog.String("api_name", apiName),
				slog.String("slug", slug),
				slog.String("name", source.Name),
				slog.Any("error", err))
			return fmt.Errorf("UpsertBatch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("UpsertBatch: commit: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM sources
WHERE id = $1
LIMIT 1`, sourceColumns)
	source, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) List(ctx context.Context) ([]*entity.Source, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM sources
ORDER BY id ASC`, sourceColumns)
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM sources WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}
