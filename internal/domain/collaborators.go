package domain

import (
	"context"
	"time"
)

// CatalogSource produces the catalog items to compare, in the order the
// source marketplace lists them for a search keyword.
type CatalogSource interface {
	FetchItems(ctx context.Context, keyword string) ([]CatalogItem, error)
}

// PriceSearcher searches the target marketplace with a normalized query and
// returns the raw price texts of the listings found, in page order.
// An empty slice is a valid result (no listings).
type PriceSearcher interface {
	SearchPrices(ctx context.Context, query string) ([]string, error)
}

// RecordSink persists the comparison records of one run
type RecordSink interface {
	Write(records []ComparisonRecord) error
}

// ListingCache caches raw price texts per normalized query so repeated
// catalog names don't hit the target marketplace twice.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]string, error)
	Set(ctx context.Context, key string, listings []string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
