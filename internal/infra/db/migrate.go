package db

import "database/sql"

// MigrateUp creates the schema if it does not exist.
//
// The UNIQUE(slug, api_name) constraint on sources backs the registry's
// find-or-create; articles are deduplicated by an existence check rather than
// a constraint, so url and external_id carry plain indexes only.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS sources (
    id          SERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    slug        TEXT NOT NULL,
    api_name    TEXT NOT NULL,
    api_id      TEXT,
    description TEXT,
    url         TEXT,
    category    TEXT,
    language    TEXT,
    country     TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (slug, api_name)
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id           SERIAL PRIMARY KEY,
    source_id    INTEGER NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
    title        TEXT NOT NULL,
    description  TEXT,
    content      TEXT,
    author       TEXT,
    url          TEXT NOT NULL,
    url_to_image TEXT,
    category     TEXT,
    published_at TIMESTAMPTZ NOT NULL,
    external_id  TEXT,
    raw_data     JSONB,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// ORDER BY published_at DESC is used by every read query.
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source_id ON articles(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		// Dedup existence checks probe both of these.
		`CREATE INDEX IF NOT EXISTS idx_articles_url ON articles(url)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_external_id ON articles(external_id)`,
		// Full-text search over title+description.
		`CREATE INDEX IF NOT EXISTS idx_articles_fts ON articles
             USING gin(to_tsvector('english', title || ' ' || coalesce(description, '')))`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
