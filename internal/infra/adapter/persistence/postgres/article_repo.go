package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

const articleColumns = `id, source_id, title, description, content, author, url, url_to_image, category, published_at, external_id, raw_data, created_at`

// scanArticle scans one article row in articleColumns order. Nullable text
// columns land as empty strings on the entity.
func scanArticle(scanner interface{ Scan(...interface{}) error }) (*entity.Article, error) {
	var (
		article                        entity.Article
		description, content, author   sql.NullString
		imageURL, category, externalID sql.NullString
		rawData                        []byte
	)
	if err := scanner.Scan(
		&article.ID, &article.SourceID, &article.Title,
		&description, &content, &author,
		&article.URL, &imageURL, &category,
		&article.PublishedAt, &externalID, &rawData, &article.CreatedAt,
	); err != nil {
		return nil, err
	}
	article.Description = description.String
	article.Content = content.String
	article.Author = author.String
	article.ImageURL = imageURL.String
	article.Category = category.String
	article.ExternalID = externalID.String
	article.RawData = rawData
	return &article, nil
}

// nullIfEmpty maps an empty string to SQL NULL so optional provider fields
// keep NULL semantics in storage (IS NOT NULL filters, dedup on external_id).
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SaveBatch inserts the batch inside a single transaction, skipping any
// candidate whose URL or external id already exists. The existence check runs
// inside the same transaction so a duplicate URL appearing twice in one batch
// keeps only the first occurrence. Any insert failure rolls the whole batch
// back and propagates after being logged with article context.
func (repo *ArticleRepo) SaveBatch(ctx context.Context, articles []*entity.Article, sourceID int64) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("SaveBatch: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const existsQuery = `
SELECT EXISTS (
    SELECT 1 FROM articles
    WHERE url = $1 OR (external_id IS NOT NULL AND external_id = $2)
)`
	const insertQuery = `
INSERT INTO articles
       (source_id, title, description, content, author, url, url_to_image, category, published_at, external_id, raw_data, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`

	inserted := 0
	for _, article := range articles {
		var exists bool
		if err := tx.QueryRowContext(ctx, existsQuery,
			article.URL, nullIfEmpty(article.ExternalID)).Scan(&exists); err != nil {
			return 0, fmt.Errorf("SaveBatch: existence check: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.ExecContext(ctx, insertQuery,
			sourceID, article.Title,
			nullIfEmpty(article.Description), nullIfEmpty(article.Content), nullIfEmpty(article.Author),
			article.URL, nullIfEmpty(article.ImageURL), nullIfEmpty(article.Category),
			article.PublishedAt, nullIfEmpty(article.ExternalID), []byte(article.RawData),
		); err != nil {
			slog.Error("failed to save article",
				slog.Int64("source_id", sourceID),
				slog.String("title", article.Title),
				slog.String("url", article.URL),
				slog.Any("error", err))
			return 0, fmt.Errorf("SaveBatch: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("SaveBatch: commit: %w", err)
	}
	return inserted, nil
}

// ExistsBatch checks URL/external-id existence for a whole batch in one round
// trip. urls and externalIDs are parallel slices; the result map is keyed by
// URL.
func (repo *ArticleRepo) ExistsBatch(ctx context.Context, urls, externalIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return result, nil
	}

	const query = `
SELECT url FROM articles
WHERE url = ANY($1) OR (external_id IS NOT NULL AND external_id = ANY($2))`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(urls), pq.Array(externalIDs))
	if err != nil {
		return nil, fmt.Errorf("ExistsBatch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsBatch: Scan: %w", err)
		}
		result[url] = true
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM articles
WHERE id = $1
LIMIT 1`, articleColumns)
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) ListFiltered(ctx context.Context, filters repository.ArticleFilters, offset, limit int) ([]repository.ArticleWithSource, error) {
	return repo.listPage(ctx, filters, nil, offset, limit)
}

func (repo *ArticleRepo) CountFiltered(ctx context.Context, filters repository.ArticleFilters) (int64, error) {
	return repo.countRows(ctx, filters, nil)
}

func (repo *ArticleRepo) ListForPreference(ctx context.Context, pref entity.Preference, filters repository.ArticleFilters, offset, limit int) ([]repository.ArticleWithSource, error) {
	return repo.listPage(ctx, filters, &pref, offset, limit)
}

func (repo *ArticleRepo) CountForPreference(ctx context.Context, pref entity.Preference, filters repository.ArticleFilters) (int64, error) {
	return repo.countRows(ctx, filters, &pref)
}

// listPage runs the shared filtered SELECT. Ordering by published_at DESC is
// a guarantee of the read API, with id DESC as a stable tie-break.
func (repo *ArticleRepo) listPage(ctx context.Context, filters repository.ArticleFilters, pref *entity.Preference, offset, limit int) ([]repository.ArticleWithSource, error) {
	whereClause, args := repo.queryBuilder.BuildWhereClause(filters, pref, "a")
	paramIndex := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
SELECT a.id, a.source_id, a.title, a.description, a.content, a.author, a.url, a.url_to_image, a.category, a.published_at, a.external_id, a.raw_data, a.created_at, s.name AS source_name
FROM articles a
INNER JOIN sources s ON a.source_id = s.id
%s
ORDER BY a.published_at DESC, a.id DESC
LIMIT $%d OFFSET $%d`, whereClause, paramIndex, paramIndex+1)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listPage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.ArticleWithSource, 0, limit)
	for rows.Next() {
		var (
			article                        entity.Article
			description, content, author   sql.NullString
			imageURL, category, externalID sql.NullString
			rawData                        []byte
			sourceName                     string
		)
		if err := rows.Scan(
			&article.ID, &article.SourceID, &article.Title,
			&description, &content, &author,
			&article.URL, &imageURL, &category,
			&article.PublishedAt, &externalID, &rawData, &article.CreatedAt,
			&sourceName,
		); err != nil {
			return nil, fmt.Errorf("listPage: Scan: %w", err)
		}
		article.Description = description.String
		article.Content = content.String
		article.Author = author.String
		article.ImageURL = imageURL.String
		article.Category = category.String
		article.ExternalID = externalID.String
		article.RawData = rawData
		result = append(result, repository.ArticleWithSource{
			Article:    &article,
			SourceName: sourceName,
		})
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) countRows(ctx context.Context, filters repository.ArticleFilters, pref *entity.Preference) (int64, error) {
	whereClause, args := repo.queryBuilder.BuildWhereClause(filters, pref, "")
	query := "SELECT COUNT(*) FROM articles " + whereClause

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("countRows: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Categories(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT category FROM articles
WHERE category IS NOT NULL
ORDER BY category ASC`
	return repo.distinctStrings(ctx, query, "Categories")
}

func (repo *ArticleRepo) Authors(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT author FROM articles
WHERE author IS NOT NULL
ORDER BY author ASC`
	return repo.distinctStrings(ctx, query, "Authors")
}

func (repo *ArticleRepo) distinctStrings(ctx context.Context, query, op string) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]string, 0, 50)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
