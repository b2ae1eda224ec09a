package repository

import (
	"context"

	"newsdesk/internal/domain/entity"
)

// SourceRepository is the persistence boundary for publication sources.
type SourceRepository interface {
	// FindOrCreate resolves a source by its (slug, apiName) natural key,
	// creating it from defaults when absent. An existing row is returned
	// unchanged: first-seen descriptive fields win. The operation must be
	// safe under concurrent callers racing on the same key.
	FindOrCreate(ctx context.Context, slug, apiName string, defaults *entity.Source) (*entity.Source, error)
	// UpsertBatch inserts or refreshes provider source listings in one
	// transaction. Unlike articles, existing rows ARE updated: descriptive
	// fields are overwritten on natural-key conflict.
	UpsertBatch(ctx context.Context, sources []*entity.Source, apiName string) error
	Get(ctx context.Context, id int64) (*entity.Source, error)
	List(ctx context.Context) ([]*entity.Source, error)
	// Delete removes a source; its articles go with it via cascade.
	Delete(ctx context.Context, id int64) error
}
