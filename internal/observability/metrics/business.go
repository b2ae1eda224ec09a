package metrics

import "time"

// RecordArticlesIngested records the number of articles ingested from one
// provider during a fetch cycle.
func RecordArticlesIngested(provider string, count int) {
	ArticlesIngestedTotal.WithLabelValues(provider).Add(float64(count))
}

// RecordProviderFetch records the duration of one provider operation.
// operation is one of "top_articles", "search_articles", "sources".
func RecordProviderFetch(provider, operation string, duration time.Duration) {
	ProviderFetchDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordProviderFailure records a per-provider failure during an aggregate
// operation.
func RecordProviderFailure(provider, operation string) {
	ProviderFailuresTotal.WithLabelValues(provider, operation).Inc()
}

// UpdateArticlesTotal updates the total count of articles in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// UpdateSourcesTotal updates the total count of sources in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateSourcesTotal(count int64) {
	SourcesTotal.Set(float64(count))
}
