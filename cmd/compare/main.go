// Command compare runs one full comparison pass: fetch catalog items from the
// source marketplace, search each normalized name on the target marketplace,
// and write the aggregated price records to CSV.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/csvsink"
	"github.com/pricelens/backend/internal/infrastructure/marketplace"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("PriceLens compare run")
	log.Printf("Source: %s (%s)", cfg.Source.Name, cfg.Source.BaseURL)
	log.Printf("Target: %s (%s)", cfg.Target.Name, cfg.Target.BaseURL)
	log.Printf("Keyword prefix: %q", cfg.Compare.KeywordPrefix)

	// Ctrl-C stops before the next item; partial results are still written
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize infrastructure dependencies
	sourceClient := marketplace.NewClient(marketplace.Config{
		Name:           cfg.Source.Name,
		BaseURL:        cfg.Source.BaseURL,
		SearchPath:     cfg.Source.SearchPath,
		QueryParam:     cfg.Source.QueryParam,
		ResultSelector: cfg.Source.ResultSelector,
		WaitSeconds:    cfg.Source.WaitSeconds,
		MaxResults:     cfg.Source.MaxResults,
	})

	targetClient := marketplace.NewClient(marketplace.Config{
		Name:          cfg.Target.Name,
		BaseURL:       cfg.Target.BaseURL,
		SearchPath:    cfg.Target.SearchPath,
		QueryParam:    cfg.Target.QueryParam,
		PriceSelector: cfg.Target.PriceSelector,
		WaitSeconds:   cfg.Target.WaitSeconds,
		MaxResults:    cfg.Target.MaxResults,
	})

	if cfg.Compare.Debug {
		sourceClient.SetDebug(true)
		targetClient.SetDebug(true)
	}

	// Initialize usecase layer
	normalizer := usecase.NewNormalizer(cfg.Compare.NoiseTokens, cfg.Compare.Debug)
	parser := usecase.NewPriceParser(usecase.PriceParserConfig{
		MaxPrice:  cfg.Price.MaxPrice,
		AllowZero: cfg.Price.AllowZero,
	})

	serviceConfig := usecase.ComparisonServiceConfig{
		KeywordPrefix:      cfg.Compare.KeywordPrefix,
		MaxSourceItems:     cfg.Compare.MaxSourceItems,
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Compare.Debug,
	}

	var comparisonService *usecase.ComparisonService
	if cfg.Cache.Enabled {
		comparisonService = usecase.NewComparisonService(
			normalizer, parser, targetClient, cache.NewMemoryListingCache(), serviceConfig)
	} else {
		comparisonService = usecase.NewComparisonService(
			normalizer, parser, targetClient, nil, serviceConfig)
	}

	sink := csvsink.NewWriter(cfg.Output.Path)

	records, err := comparisonService.Run(ctx, sourceClient, sink)
	if err != nil {
		// Partial results may still have been written before the failure
		log.Fatalf("Comparison run failed after %d record(s): %v", len(records), err)
	}

	log.Printf("Done. Wrote %d comparison record(s) to: %s", len(records), cfg.Output.Path)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
