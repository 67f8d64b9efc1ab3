package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"listing-analytics/models"
)

// canonicalColumns is the persisted column order — a format contract, not
// cosmetics.
var canonicalColumns = []string{
	"item_id", "unique_identifier", "brand_name", "title", "category",
	"vertical", "subCategory", "superCategory", "date", "revenue", "price",
	"rating", "rating_count", "variations_count",
}

// CSVWriter persists the canonical table to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(canonicalColumns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteCanonical writes the full canonical table. Rows arrive already sorted
// by (item id, date); the writer preserves that order so the artifact is
// byte-for-byte reproducible.
func (c *CSVWriter) WriteCanonical(rows []models.CanonicalRow) error {
	for _, r := range rows {
		record := []string{
			r.ItemID,
			r.UniqueIdentifier,
			r.BrandName,
			optStr(r.Title),
			optStr(r.Category),
			optStr(r.Vertical),
			optStr(r.SubCategory),
			optStr(r.SuperCategory),
			r.Date.Format("2006-01-02"),
			optFloat(r.Revenue),
			optFloat(r.Price),
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			strconv.Itoa(r.RatingCount),
			strconv.Itoa(r.VariationsCount),
		}
		if err := c.writer.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func optStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
