package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Compiled regex pattern for price extraction
var (
	// Matches the first decimal number in a price text, after separators are
	// stripped (e.g. "128", "128.00")
	numericTokenPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

	// thousandsSeparatorReplacer drops ASCII and full-width thousands commas
	thousandsSeparatorReplacer = strings.NewReplacer(",", "", "，", "")
)

// defaultMaxPrice is the sanity bound on a parsed price. Anything above it is
// treated as scraping garbage (a listing id or phone number caught by a loose
// selector), not a real price.
const defaultMaxPrice = 10_000_000

// PriceParserConfig holds configuration for the price parser
type PriceParserConfig struct {
	// MaxPrice rejects parsed values above this bound. Zero means the default.
	MaxPrice float64
	// AllowZero accepts a price of exactly 0 as a valid listing.
	// Off by default: a scraped 0 is almost always placeholder noise.
	AllowZero bool
}

// PriceParser converts a scraped price text fragment into a numeric amount
type PriceParser struct {
	maxPrice  float64
	allowZero bool
}

// NewPriceParser creates a price parser with the given configuration
func NewPriceParser(config PriceParserConfig) *PriceParser {
	maxPrice := config.MaxPrice
	if maxPrice <= 0 {
		maxPrice = defaultMaxPrice
	}

	return &PriceParser{
		maxPrice:  maxPrice,
		allowZero: config.AllowZero,
	}
}

// Parse extracts the first numeric token from a raw price text, ignoring
// currency symbols and adornments ("¥128.00", "1,280元", "¥99起"). The result
// is rounded to 2 decimal places.
//
// Returns domain.ErrUnparsablePrice when no numeric token is present, the
// value exceeds the configured bound, or the value is zero/negative and
// zero prices are not allowed.
func (p *PriceParser) Parse(raw string) (float64, error) {
	cleaned := thousandsSeparatorReplacer.Replace(raw)

	token := numericTokenPattern.FindString(cleaned)
	if token == "" {
		return 0, domain.ErrUnparsablePrice
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, domain.ErrUnparsablePrice
	}

	value = roundToCents(value)

	if value > p.maxPrice {
		return 0, domain.ErrUnparsablePrice
	}
	if value == 0 && !p.allowZero {
		return 0, domain.ErrUnparsablePrice
	}

	return value, nil
}

// roundToCents rounds to 2 decimal places, half away from zero.
// Inputs here are never negative, so this is round-half-up.
func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
