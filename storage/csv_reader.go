package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"listing-analytics/models"
)

// rawColumns are the columns the exported listing table must carry.
var rawColumns = []string{
	"item_id", "unique_identifier", "brand_name", "rating", "rating_count",
	"variations_count", "page_content", "monthly_revenue_history", "promotion_history",
}

// CSVReader ingests the raw listing export. Ingestion is an I/O boundary: it
// either reads the whole file or fails — partial reads are not supported.
type CSVReader struct {
	path string
}

// NewCSVReader creates a reader for the file at path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// Read loads every row of the export. Numeric metadata that fails to parse
// falls back to zero — the record itself is kept, matching the pipeline's
// tolerance for dirty fields.
func (r *CSVReader) Read() ([]*models.RawListing, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", r.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range rawColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv: missing required column %q", name)
		}
	}

	field := func(record []string, name string) string {
		idx := col[name]
		if idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var listings []*models.RawListing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}

		listings = append(listings, &models.RawListing{
			ItemID:           field(record, "item_id"),
			UniqueIdentifier: field(record, "unique_identifier"),
			BrandName:        field(record, "brand_name"),
			Rating:           parseFloat(field(record, "rating")),
			RatingCount:      parseInt(field(record, "rating_count")),
			VariationsCount:  parseInt(field(record, "variations_count")),
			PageContent:      field(record, "page_content"),
			RevenueHistory:   field(record, "monthly_revenue_history"),
			PromotionHistory: field(record, "promotion_history"),
		})
	}

	return listings, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
