package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/marketplace"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Target marketplace: %s (%s)", cfg.Target.Name, cfg.Target.BaseURL)

	// Initialize infrastructure dependencies
	targetClient := marketplace.NewClient(marketplace.Config{
		Name:          cfg.Target.Name,
		BaseURL:       cfg.Target.BaseURL,
		SearchPath:    cfg.Target.SearchPath,
		QueryParam:    cfg.Target.QueryParam,
		PriceSelector: cfg.Target.PriceSelector,
		WaitSeconds:   cfg.Target.WaitSeconds,
		MaxResults:    cfg.Target.MaxResults,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		targetClient.SetDebug(true)
		log.Printf("Marketplace client debug mode enabled")
	}

	var listingCache *cache.MemoryListingCache
	if cfg.Cache.Enabled {
		listingCache = cache.NewMemoryListingCache()
		log.Printf("Listing cache enabled (TTL: %s)", cfg.Cache.TTL)
	}

	// Initialize usecase layer
	normalizer := usecase.NewNormalizer(cfg.Compare.NoiseTokens, cfg.Compare.Debug)
	parser := usecase.NewPriceParser(usecase.PriceParserConfig{
		MaxPrice:  cfg.Price.MaxPrice,
		AllowZero: cfg.Price.AllowZero,
	})

	comparisonService := newComparisonService(cfg, normalizer, parser, targetClient, listingCache)

	log.Printf("Comparison: prefix=%q, max_items=%d, debug=%v",
		cfg.Compare.KeywordPrefix,
		cfg.Compare.MaxSourceItems,
		cfg.Compare.Debug)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newComparisonService wires the comparison service from configuration.
// A nil cache pointer must be passed as an untyped nil interface, hence the
// indirection.
func newComparisonService(
	cfg *config.Config,
	normalizer *usecase.Normalizer,
	parser *usecase.PriceParser,
	targetClient *marketplace.Client,
	listingCache *cache.MemoryListingCache,
) *usecase.ComparisonService {
	serviceConfig := usecase.ComparisonServiceConfig{
		KeywordPrefix:      cfg.Compare.KeywordPrefix,
		MaxSourceItems:     cfg.Compare.MaxSourceItems,
		CacheTTL:           cfg.Cache.TTL,
		EnableDebugLogging: cfg.Compare.Debug,
	}

	if listingCache == nil {
		return usecase.NewComparisonService(normalizer, parser, targetClient, nil, serviceConfig)
	}
	return usecase.NewComparisonService(normalizer, parser, targetClient, listingCache, serviceConfig)
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
