package models

import "time"

// RawListing is one row of the exported listing table, exactly as ingested.
// The history payloads and the page-content document stay as raw JSON text
// until the pipeline decodes them; a listing is never mutated after ingestion.
type RawListing struct {
	ItemID           string
	UniqueIdentifier string
	BrandName        string
	Rating           float64
	RatingCount      int
	VariationsCount  int
	PageContent      string
	RevenueHistory   string
	PromotionHistory string
}

// SeriesPoint is one flattened (item, date, value) sample taken from a
// history payload. Value is nil when the element carried no usable number.
type SeriesPoint struct {
	ItemID string
	Date   time.Time
	Value  *float64
}

// ReconciledPoint is one (item, date) row in the union of the revenue and
// price series. Revenue is never filled; Price is forward-filled within the
// item's own chronological sequence.
type ReconciledPoint struct {
	ItemID  string
	Date    time.Time
	Revenue *float64
	Price   *float64
}

// ContentFields is the fixed subset extracted from the page_content document.
// A field absent in the source document is nil, never an error.
type ContentFields struct {
	Title         *string
	Category      *string
	Vertical      *string
	SubCategory   *string
	SuperCategory *string
}

// ItemMetadata is the deduplicated per-item record. Exactly one per item id;
// the first occurrence in the raw table wins.
type ItemMetadata struct {
	ItemID           string
	UniqueIdentifier string
	BrandName        string
	Rating           float64
	RatingCount      int
	VariationsCount  int
	Content          ContentFields
}

// CanonicalRow is the persisted per-item/per-date fact row all analytics read
// from. (ItemID, Date) is not unique in the raw table — variants repeat the
// item-level revenue — so aggregates must deduplicate before summing.
type CanonicalRow struct {
	ItemID           string    `json:"item_id"`
	UniqueIdentifier string    `json:"unique_identifier"`
	BrandName        string    `json:"brand_name"`
	Title            *string   `json:"title"`
	Category         *string   `json:"category"`
	Vertical         *string   `json:"vertical"`
	SubCategory      *string   `json:"subCategory"`
	SuperCategory    *string   `json:"superCategory"`
	Date             time.Time `json:"date"`
	Revenue          *float64  `json:"revenue"`
	Price            *float64  `json:"price"`
	Rating           float64   `json:"rating"`
	RatingCount      int       `json:"rating_count"`
	VariationsCount  int       `json:"variations_count"`
}

// PipelineStats is the per-run bookkeeping written alongside the canonical
// table. Skip counters exist for observability: malformed payloads are never
// fatal, but they must stay visible.
type PipelineStats struct {
	RunID                  string    `json:"run_id"`
	StartedAt              time.Time `json:"started_at"`
	RawRows                int       `json:"raw_rows"`
	UniqueItems            int       `json:"unique_items"`
	RevenuePoints          int       `json:"revenue_points"`
	PricePoints            int       `json:"price_points"`
	CanonicalRows          int       `json:"canonical_rows"`
	SkippedRevenuePayloads int       `json:"skipped_revenue_payloads"`
	SkippedPricePayloads   int       `json:"skipped_price_payloads"`
	SkippedElements        int       `json:"skipped_elements"`
}
