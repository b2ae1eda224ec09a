// Package postgres provides PostgreSQL implementations of the repository
// interfaces.
package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for article queries. The same
// clause feeds both COUNT and SELECT statements so the pair can never drift.
//
// Search strategy: full-text over title+description via websearch_to_tsquery.
// This is the single, canonical search behavior; there is no substring
// fallback for another engine.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for the given ad-hoc
// filters and optional preference profile. Filters are AND-combined; within a
// preference dimension matches are OR-combined, and each configured dimension
// is AND-combined with the rest. Unset filters and empty preference
// dimensions contribute nothing. Returns an empty clause when no condition
// applies.
func (qb *ArticleQueryBuilder) BuildWhereClause(filters repository.ArticleFilters, pref *entity.Preference, tableAlias string) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	col := func(name string) string {
		if tableAlias != "" {
			return tableAlias + "." + name
		}
		return name
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"to_tsvector('english', %s || ' ' || coalesce(%s, '')) @@ websearch_to_tsquery('english', $%d)",
			col("title"), col("description"), paramIndex))
		args = append(args, filters.Search)
		paramIndex++
	}

	if filters.SourceID != nil {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col("source_id"), paramIndex))
		args = append(args, *filters.SourceID)
		paramIndex++
	}

	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", col("category"), paramIndex))
		args = append(args, filters.Category)
		paramIndex++
	}

	if filters.Author != "" {
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", col("author"), paramIndex))
		args = append(args, "%"+escapeLike(filters.Author)+"%")
		paramIndex++
	}

	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("%s >= $%d", col("published_at"), paramIndex))
		args = append(args, *filters.From)
		paramIndex++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("%s <= $%d", col("published_at"), paramIndex))
		args = append(args, *filters.To)
		paramIndex++
	}

	if pref != nil {
		if len(pref.SourceIDs) > 0 {
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", col("source_id"), paramIndex))
			args = append(args, pq.Array(pref.SourceIDs))
			paramIndex++
		}
		if len(pref.Categories) > 0 {
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", col("category"), paramIndex))
			args = append(args, pq.Array(pref.Categories))
			paramIndex++
		}
		if len(pref.Authors) > 0 {
			ors := make([]string, 0, len(pref.Authors))
			for _, author := range pref.Authors {
				ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col("author"), paramIndex))
				args = append(args, "%"+escapeLike(author)+"%")
				paramIndex++
			}
			conditions = append(conditions, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLike escapes the LIKE/ILIKE metacharacters in user-supplied input so
// a preference fragment of "100%" matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
