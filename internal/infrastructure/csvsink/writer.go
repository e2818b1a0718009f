// Package csvsink persists comparison records as CSV rows for manual
// inspection in a spreadsheet.
package csvsink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// header is the fixed column layout of the output file
var header = []string{"source_name", "normalized_name", "min_price", "avg_price", "prices"}

// Writer writes comparison records to a CSV file, creating parent
// directories as needed. It implements domain.RecordSink.
type Writer struct {
	path string
}

// NewWriter creates a CSV writer targeting the given file path
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Write persists all records in one pass, overwriting any previous file.
// Absent min/avg prices are rendered as empty fields, never "0.00", so a
// no-results item stays distinguishable from a free listing.
func (w *Writer) Write(records []domain.ComparisonRecord) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, record := range records {
		row := []string{
			record.SourceName,
			record.NormalizedName,
			formatPrice(record.MinPrice),
			formatPrice(record.AvgPrice),
			formatPrices(record.Prices),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record for %q: %w", record.SourceName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatPrice renders a price with 2 decimal places, or empty when absent
func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// formatPrices renders the raw price list as a "|"-joined sub-list
func formatPrices(prices []float64) string {
	parts := make([]string, 0, len(prices))
	for _, p := range prices {
		parts = append(parts, strconv.FormatFloat(p, 'f', 2, 64))
	}
	return strings.Join(parts, "|")
}
