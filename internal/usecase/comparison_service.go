package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// Package-level compiled regex pattern for cache keys
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	// KeywordPrefix is the brand+scale filter the catalog was searched with,
	// e.g. "spark 1/43". It seeds both normalization and the catalog fetch.
	KeywordPrefix string
	// MaxSourceItems caps how many catalog items one run compares (0 = all)
	MaxSourceItems int
	// CacheTTL controls how long search results are reused per normalized query
	CacheTTL time.Duration
	// EnableDebugLogging logs each normalization and search outcome
	EnableDebugLogging bool
}

// ComparisonService orchestrates one comparison pass per catalog item:
// normalize -> search target marketplace -> parse prices -> aggregate.
//
// Items are processed one at a time, in catalog order. The searcher wraps a
// single shared scraping session, so concurrent searches would corrupt its
// navigation state.
type ComparisonService struct {
	normalizer         *Normalizer
	parser             *PriceParser
	searcher           domain.PriceSearcher
	cache              domain.ListingCache
	keywordPrefix      string
	maxSourceItems     int
	cacheTTL           time.Duration
	enableDebugLogging bool
	droppedListings    atomic.Int64
}

// NewComparisonService creates a comparison service with dependencies.
// cache may be nil to disable search-result caching.
func NewComparisonService(
	normalizer *Normalizer,
	parser *PriceParser,
	searcher domain.PriceSearcher,
	cache domain.ListingCache,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ComparisonService{
		normalizer:         normalizer,
		parser:             parser,
		searcher:           searcher,
		cache:              cache,
		keywordPrefix:      config.KeywordPrefix,
		maxSourceItems:     config.MaxSourceItems,
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Compare produces the comparison record for one catalog item.
// It never fails: invalid names, unreachable collaborators and unparsable
// listings all degrade to a record with empty prices and absent min/avg, so
// every attempted item shows up in the output.
func (s *ComparisonService) Compare(ctx context.Context, item domain.CatalogItem) domain.ComparisonRecord {
	record := domain.ComparisonRecord{
		SourceName: item.SourceName,
		Prices:     make([]float64, 0),
	}

	query, err := s.normalizer.Normalize(item.SourceName, s.keywordPrefix)
	if err != nil {
		log.Printf("[COMPARE] Skipping normalization for %q: %v", item.SourceName, err)
		return record
	}
	record.NormalizedName = query.Text

	listings, err := s.fetchListings(ctx, query.Text)
	if err != nil {
		log.Printf("[COMPARE] Search failed for %q: %v", query.Text, err)
		return record
	}

	// Parse each listing individually; one bad listing must not abort the item
	parsed := make([]float64, 0, len(listings))
	dropped := 0
	for _, raw := range listings {
		amount, err := s.parser.Parse(raw)
		if err != nil {
			dropped++
			continue
		}
		parsed = append(parsed, amount)
	}
	if dropped > 0 {
		s.droppedListings.Add(int64(dropped))
		log.Printf("[COMPARE] Dropped %d unparsable listing(s) for %q", dropped, query.Text)
	}

	stats := Aggregate(parsed)
	record.MinPrice = stats.Min
	record.AvgPrice = stats.Avg
	record.Prices = stats.Prices

	if s.enableDebugLogging {
		log.Printf("[COMPARE] %q → %d listing(s), %d parsed", query.Text, len(listings), len(parsed))
	}

	return record
}

// Run drives a full comparison pass: fetch catalog items, compare each, and
// write the records to the sink. sink may be nil when the caller only wants
// the records back.
func (s *ComparisonService) Run(
	ctx context.Context,
	catalog domain.CatalogSource,
	sink domain.RecordSink,
) ([]domain.ComparisonRecord, error) {
	items, err := catalog.FetchItems(ctx, s.keywordPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorFailure, err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoCatalogItems
	}

	items = dedupeItems(items)
	if s.maxSourceItems > 0 && len(items) > s.maxSourceItems {
		items = items[:s.maxSourceItems]
	}

	log.Printf("[RUN] Comparing %d catalog item(s) for keyword %q", len(items), s.keywordPrefix)

	records := make([]domain.ComparisonRecord, 0, len(items))
	var runErr error
	for _, item := range items {
		// Cancellation stops before the next item; records gathered so far
		// are still written below
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		records = append(records, s.Compare(ctx, item))
	}

	if sink != nil {
		if err := sink.Write(records); err != nil {
			return records, fmt.Errorf("writing records: %w", err)
		}
	}

	log.Printf("[RUN] Done: %d record(s), %d listing(s) dropped as unparsable",
		len(records), s.DroppedListings())

	return records, runErr
}

// DroppedListings returns the cumulative count of listings discarded because
// their price text could not be parsed. Diagnostic only.
func (s *ComparisonService) DroppedListings() int {
	return int(s.droppedListings.Load())
}

// fetchListings returns the raw price texts for a normalized query,
// consulting the cache first when one is configured
func (s *ComparisonService) fetchListings(ctx context.Context, query string) ([]string, error) {
	cacheKey := generateCacheKey(query)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err == nil {
			if s.enableDebugLogging {
				log.Printf("[COMPARE] Cache hit for %q", query)
			}
			return cached, nil
		}
	}

	listings, err := s.searcher.SearchPrices(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCollaboratorFailure, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, listings, s.cacheTTL); err != nil {
			// Caching is best-effort; the search result is still good
			log.Printf("[COMPARE] Cache set failed for %q: %v", query, err)
		}
	}

	return listings, nil
}

// dedupeItems removes repeated source names, keeping first-occurrence order.
// Catalog pages frequently repeat the same listing across result tiles.
func dedupeItems(items []domain.CatalogItem) []domain.CatalogItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if seen[item.SourceName] {
			continue
		}
		seen[item.SourceName] = true
		out = append(out, item)
	}
	return out
}

// generateCacheKey normalizes a query for use as a cache key.
// Format: "listings:{lowercased alphanumeric query}"
func generateCacheKey(query string) string {
	key := strings.ToLower(query)
	key = nonAlphanumericRegex.ReplaceAllString(key, "")
	key = multiSpacePattern.ReplaceAllString(key, " ")
	return "listings:" + strings.TrimSpace(key)
}
