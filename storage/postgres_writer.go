package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// PostgresWriter persists the canonical table and per-run bookkeeping.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter. The ping is retried with
// backoff since the database container may still be starting.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	backoff := &utils.Backoff{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := backoff.Do("postgres ping", db.Ping); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS canonical_rows (
			id                SERIAL PRIMARY KEY,
			item_id           TEXT         NOT NULL,
			unique_identifier TEXT         NOT NULL DEFAULT '',
			brand_name        TEXT         NOT NULL DEFAULT '',
			title             TEXT,
			category          TEXT,
			vertical          TEXT,
			sub_category      TEXT,
			super_category    TEXT,
			date              DATE         NOT NULL,
			revenue           NUMERIC(14,2),
			price             NUMERIC(12,2),
			rating            NUMERIC(4,2) NOT NULL DEFAULT 0,
			rating_count      INTEGER      NOT NULL DEFAULT 0,
			variations_count  INTEGER      NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_canonical_item_date ON canonical_rows(item_id, date);
		CREATE INDEX IF NOT EXISTS idx_canonical_brand     ON canonical_rows(brand_name);
		CREATE INDEX IF NOT EXISTS idx_canonical_date      ON canonical_rows(date);

		CREATE TABLE IF NOT EXISTS pipeline_runs (
			run_id                   UUID PRIMARY KEY,
			started_at               TIMESTAMPTZ NOT NULL,
			raw_rows                 INTEGER NOT NULL,
			unique_items             INTEGER NOT NULL,
			revenue_points           INTEGER NOT NULL,
			price_points             INTEGER NOT NULL,
			canonical_rows           INTEGER NOT NULL,
			skipped_revenue_payloads INTEGER NOT NULL,
			skipped_price_payloads   INTEGER NOT NULL,
			skipped_elements         INTEGER NOT NULL
		);
	`)
	return err
}

// Clear deletes the previous canonical table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM canonical_rows")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// WriteCanonical batch-inserts the full canonical table, clearing old data
// first so a re-run replaces rather than appends.
func (pw *PostgresWriter) WriteCanonical(rows []models.CanonicalRow) error {
	if len(rows) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.CanonicalRow) error {
	const cols = 14
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, r := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			r.ItemID, r.UniqueIdentifier, r.BrandName,
			nullStr(r.Title), nullStr(r.Category), nullStr(r.Vertical),
			nullStr(r.SubCategory), nullStr(r.SuperCategory),
			r.Date, nullFloat(r.Revenue), nullFloat(r.Price),
			r.Rating, r.RatingCount, r.VariationsCount)
	}

	query := fmt.Sprintf(`
		INSERT INTO canonical_rows (
			item_id, unique_identifier, brand_name, title, category, vertical,
			sub_category, super_category, date, revenue, price, rating,
			rating_count, variations_count
		)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// RecordRun stores the run's bookkeeping row.
func (pw *PostgresWriter) RecordRun(stats models.PipelineStats) error {
	_, err := pw.db.Exec(`
		INSERT INTO pipeline_runs (
			run_id, started_at, raw_rows, unique_items, revenue_points,
			price_points, canonical_rows, skipped_revenue_payloads,
			skipped_price_payloads, skipped_elements
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, stats.RunID, stats.StartedAt, stats.RawRows, stats.UniqueItems,
		stats.RevenuePoints, stats.PricePoints, stats.CanonicalRows,
		stats.SkippedRevenuePayloads, stats.SkippedPricePayloads, stats.SkippedElements)
	if err != nil {
		return fmt.Errorf("postgres: record run: %w", err)
	}
	return nil
}

// FetchAll retrieves the canonical table in its contractual (item id, date)
// order — used when serving KPIs without re-running the pipeline.
func (pw *PostgresWriter) FetchAll() ([]models.CanonicalRow, error) {
	rows, err := pw.db.Query(`
		SELECT item_id, unique_identifier, brand_name, title, category,
		       vertical, sub_category, super_category, date, revenue, price,
		       rating, rating_count, variations_count
		FROM canonical_rows
		ORDER BY item_id, date
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var out []models.CanonicalRow
	for rows.Next() {
		var r models.CanonicalRow
		var title, category, vertical, subCat, supCat sql.NullString
		var revenue, price sql.NullFloat64
		if err := rows.Scan(
			&r.ItemID, &r.UniqueIdentifier, &r.BrandName,
			&title, &category, &vertical, &subCat, &supCat,
			&r.Date, &revenue, &price,
			&r.Rating, &r.RatingCount, &r.VariationsCount,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r.Title = fromNullStr(title)
		r.Category = fromNullStr(category)
		r.Vertical = fromNullStr(vertical)
		r.SubCategory = fromNullStr(subCat)
		r.SuperCategory = fromNullStr(supCat)
		r.Revenue = fromNullFloat(revenue)
		r.Price = fromNullFloat(price)
		r.Date = r.Date.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func fromNullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func fromNullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
