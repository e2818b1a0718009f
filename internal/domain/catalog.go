package domain

// CatalogItem represents one product listing scraped from the source marketplace
type CatalogItem struct {
	SourceName string `json:"sourceName"`
}

// NormalizedQuery is the canonical search string derived from a catalog item's
// name, used to search the target marketplace.
type NormalizedQuery struct {
	Tokens []string `json:"tokens"` // brand, scale, residual subject text
	Text   string   `json:"text"`   // joined canonical query string
}

// PriceStats summarizes the parsed prices collected for one item.
// Min and Avg are nil when no price was obtained - an empty result is
// distinguishable from a zero price.
type PriceStats struct {
	Min    *float64  `json:"minPrice,omitempty"`
	Avg    *float64  `json:"avgPrice,omitempty"`
	Prices []float64 `json:"prices"` // scrape order, never nil
}

// ComparisonRecord is the per-item output row of one comparison pass
type ComparisonRecord struct {
	SourceName     string    `json:"sourceName"`
	NormalizedName string    `json:"normalizedName"`
	MinPrice       *float64  `json:"minPrice,omitempty"`
	AvgPrice       *float64  `json:"avgPrice,omitempty"`
	Prices         []float64 `json:"prices"`
}
