package storage

import "listing-analytics/models"

// CanonicalWriter is the interface any canonical-table sink must satisfy.
type CanonicalWriter interface {
	WriteCanonical(rows []models.CanonicalRow) error
	Close() error
}

// RawReader is the interface for ingesting the raw listing export.
type RawReader interface {
	Read() ([]*models.RawListing, error)
}

var (
	_ CanonicalWriter = (*CSVWriter)(nil)
	_ CanonicalWriter = (*PostgresWriter)(nil)
	_ RawReader       = (*CSVReader)(nil)
)
