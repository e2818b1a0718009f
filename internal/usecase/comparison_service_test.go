package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// fakeSearcher returns canned price texts and records how it was called
type fakeSearcher struct {
	listings map[string][]string
	err      error
	calls    int
	queries  []string
}

func (f *fakeSearcher) SearchPrices(ctx context.Context, query string) ([]string, error) {
	f.calls++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.listings[query], nil
}

// fakeCatalog yields a fixed item sequence
type fakeCatalog struct {
	items []domain.CatalogItem
	err   error
}

func (f *fakeCatalog) FetchItems(ctx context.Context, keyword string) ([]domain.CatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fakeSink captures written records
type fakeSink struct {
	records []domain.ComparisonRecord
	writes  int
}

func (f *fakeSink) Write(records []domain.ComparisonRecord) error {
	f.writes++
	f.records = records
	return nil
}

// fakeListingCache is a minimal in-memory ListingCache without TTL handling
type fakeListingCache struct {
	data map[string][]string
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{data: make(map[string][]string)}
}

func (f *fakeListingCache) Get(ctx context.Context, key string) ([]string, error) {
	listings, ok := f.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return listings, nil
}

func (f *fakeListingCache) Set(ctx context.Context, key string, listings []string, ttl time.Duration) error {
	f.data[key] = listings
	return nil
}

func (f *fakeListingCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func newTestService(searcher domain.PriceSearcher, cache domain.ListingCache) *ComparisonService {
	return NewComparisonService(
		NewNormalizer(nil, false),
		NewPriceParser(PriceParserConfig{}),
		searcher,
		cache,
		ComparisonServiceConfig{KeywordPrefix: "spark 1/43"},
	)
}

func TestCompare_PartialParseFailure(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]string{
		"spark 1/43 Ferrari 499P": {"¥100", "garbage", "¥200", "¥150"},
	}}
	s := newTestService(searcher, nil)

	record := s.Compare(context.Background(), domain.CatalogItem{
		SourceName: "Spark 1/43 Ferrari 499P",
	})

	if record.NormalizedName != "spark 1/43 Ferrari 499P" {
		t.Errorf("NormalizedName = %q", record.NormalizedName)
	}
	want := []float64{100.00, 200.00, 150.00}
	if len(record.Prices) != len(want) {
		t.Fatalf("Prices = %v, want %v", record.Prices, want)
	}
	for i := range want {
		if record.Prices[i] != want[i] {
			t.Errorf("Prices[%d] = %v, want %v", i, record.Prices[i], want[i])
		}
	}
	if record.MinPrice == nil || *record.MinPrice != 100.00 {
		t.Errorf("MinPrice = %v, want 100.00", record.MinPrice)
	}
	if record.AvgPrice == nil || *record.AvgPrice != 150.00 {
		t.Errorf("AvgPrice = %v, want 150.00", record.AvgPrice)
	}
	if s.DroppedListings() != 1 {
		t.Errorf("DroppedListings = %d, want 1", s.DroppedListings())
	}
}

func TestCompare_NoResults(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]string{}}
	s := newTestService(searcher, nil)

	record := s.Compare(context.Background(), domain.CatalogItem{
		SourceName: "Spark 1/43 Ferrari 499P",
	})

	if record.MinPrice != nil || record.AvgPrice != nil {
		t.Errorf("MinPrice/AvgPrice = %v/%v, want absent", record.MinPrice, record.AvgPrice)
	}
	if record.Prices == nil || len(record.Prices) != 0 {
		t.Errorf("Prices = %v, want empty slice", record.Prices)
	}
}

func TestCompare_SearcherFailureStillEmitsRecord(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("target site unreachable")}
	s := newTestService(searcher, nil)

	record := s.Compare(context.Background(), domain.CatalogItem{
		SourceName: "Spark 1/43 Ferrari 499P",
	})

	if record.SourceName != "Spark 1/43 Ferrari 499P" {
		t.Errorf("SourceName = %q", record.SourceName)
	}
	if record.NormalizedName == "" {
		t.Error("NormalizedName should still be set when the search fails")
	}
	if record.MinPrice != nil || record.AvgPrice != nil || len(record.Prices) != 0 {
		t.Errorf("expected empty record, got %+v", record)
	}
}

func TestCompare_InvalidNameStillEmitsRecord(t *testing.T) {
	searcher := &fakeSearcher{}
	s := newTestService(searcher, nil)

	record := s.Compare(context.Background(), domain.CatalogItem{SourceName: "   "})

	if record.NormalizedName != "" {
		t.Errorf("NormalizedName = %q, want empty for invalid input", record.NormalizedName)
	}
	if len(record.Prices) != 0 || record.MinPrice != nil || record.AvgPrice != nil {
		t.Errorf("expected empty record, got %+v", record)
	}
	if searcher.calls != 0 {
		t.Errorf("searcher called %d times for invalid input, want 0", searcher.calls)
	}
}

func TestCompare_CacheSkipsSecondSearch(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]string{
		"spark 1/43 Ferrari 499P": {"¥100"},
	}}
	s := newTestService(searcher, newFakeListingCache())

	item := domain.CatalogItem{SourceName: "Spark 1/43 Ferrari 499P"}
	first := s.Compare(context.Background(), item)
	second := s.Compare(context.Background(), item)

	if searcher.calls != 1 {
		t.Errorf("searcher calls = %d, want 1 (second lookup should hit cache)", searcher.calls)
	}
	if first.NormalizedName != second.NormalizedName ||
		len(first.Prices) != len(second.Prices) {
		t.Errorf("cache hit record differs: %+v vs %+v", first, second)
	}
}

func TestRun_DedupesAndCapsAndWrites(t *testing.T) {
	searcher := &fakeSearcher{listings: map[string][]string{
		"spark 1/43 Ferrari 499P": {"¥100"},
		"spark 1/43 Porsche 963":  {"¥200", "¥300"},
	}}
	s := NewComparisonService(
		NewNormalizer(nil, false),
		NewPriceParser(PriceParserConfig{}),
		searcher,
		nil,
		ComparisonServiceConfig{KeywordPrefix: "spark 1/43", MaxSourceItems: 2},
	)

	catalog := &fakeCatalog{items: []domain.CatalogItem{
		{SourceName: "Spark 1/43 Ferrari 499P"},
		{SourceName: "Spark 1/43 Ferrari 499P"}, // duplicate tile
		{SourceName: "Spark 1/43 Porsche 963"},
		{SourceName: "Spark 1/43 Toyota GR010"}, // beyond the cap
	}}
	sink := &fakeSink{}

	records, err := s.Run(context.Background(), catalog, sink)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 after dedup and cap", len(records))
	}
	if records[0].SourceName != "Spark 1/43 Ferrari 499P" {
		t.Errorf("records[0].SourceName = %q (first occurrence order must hold)", records[0].SourceName)
	}
	if records[1].SourceName != "Spark 1/43 Porsche 963" {
		t.Errorf("records[1].SourceName = %q", records[1].SourceName)
	}
	if sink.writes != 1 || len(sink.records) != 2 {
		t.Errorf("sink writes = %d with %d records, want 1 write of 2", sink.writes, len(sink.records))
	}
}

func TestRun_CatalogFailure(t *testing.T) {
	s := newTestService(&fakeSearcher{}, nil)
	catalog := &fakeCatalog{err: errors.New("source site unreachable")}

	_, err := s.Run(context.Background(), catalog, nil)
	if !errors.Is(err, domain.ErrCollaboratorFailure) {
		t.Errorf("Run error = %v, want ErrCollaboratorFailure", err)
	}
}

func TestRun_EmptyCatalog(t *testing.T) {
	s := newTestService(&fakeSearcher{}, nil)
	catalog := &fakeCatalog{}

	_, err := s.Run(context.Background(), catalog, nil)
	if !errors.Is(err, domain.ErrNoCatalogItems) {
		t.Errorf("Run error = %v, want ErrNoCatalogItems", err)
	}
}

func TestRun_CancellationWritesPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestService(&fakeSearcher{}, nil)
	catalog := &fakeCatalog{items: []domain.CatalogItem{
		{SourceName: "Spark 1/43 Ferrari 499P"},
	}}
	sink := &fakeSink{}

	records, err := s.Run(ctx, catalog, sink)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0 for pre-cancelled context", len(records))
	}
	if sink.writes != 1 {
		t.Errorf("sink writes = %d, want 1 (partial results still flushed)", sink.writes)
	}
}
