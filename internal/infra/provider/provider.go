// Package provider implements adapters for external news APIs.
// Each adapter maps one provider's response shape into the canonical
// article/source records and persists articles as it maps them.
package provider

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"newsdesk/internal/domain/entity"
)

// Params carries caller-supplied request parameters that override an
// adapter's provider-specific defaults.
type Params map[string]string

// Get returns the value for key, or fallback when the key is unset.
func (p Params) Get(key, fallback string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return fallback
}

// NewsProvider is the capability set every source adapter implements.
//
// TopArticles and SearchArticles absorb all external-call failures at the
// adapter boundary: network errors, non-2xx statuses, and malformed payloads
// are logged and yield an empty result, never an error. The only error that
// crosses the boundary is a persistence failure, which the aggregator handles
// per-adapter.
type NewsProvider interface {
	// Name returns the provider identifier used as api_name on sources.
	Name() string

	// TopArticles fetches the provider's current top articles, persists each
	// one, and returns the persisted canonical records.
	TopArticles(ctx context.Context, params Params) ([]*entity.Article, error)

	// SearchArticles queries the provider's archive, persists each hit, and
	// returns the persisted canonical records.
	SearchArticles(ctx context.Context, query string, params Params) ([]*entity.Article, error)

	// Sources lists the provider's publications. Providers without a native
	// publication listing return a single synthesized descriptor.
	Sources(ctx context.Context, params Params) ([]*entity.Source, error)
}

// SourceRegistry resolves a canonical source by its natural key.
type SourceRegistry interface {
	FindOrCreate(ctx context.Context, slug, apiName string, defaults *entity.Source) (*entity.Source, error)
}

// ArticleStore persists mapped articles.
type ArticleStore interface {
	SaveBatch(ctx context.Context, articles []*entity.Article, sourceID int64) (int, error)
	// ExistsBatch reports, per URL, whether an article with that URL or the
	// paired external id is already stored. Adapters that resolve a source
	// per article use it to skip known records before the resolution work.
	ExistsBatch(ctx context.Context, urls, externalIDs []string) (map[string]bool, error)
}

// syntheticExternalID derives a stable external id for providers whose
// records carry no native id. Hashing the canonical URL keeps dedup
// deterministic across ingestion runs.
func syntheticExternalID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
