package services

import (
	"reflect"
	"testing"

	"listing-analytics/models"
)

func sampleListings() []*models.RawListing {
	return []*models.RawListing{
		{
			ItemID:           "SKU-1",
			UniqueIdentifier: "U-1",
			BrandName:        "Acme",
			Rating:           4.5,
			RatingCount:      320,
			VariationsCount:  3,
			PageContent:      `{"title": "Acme Bottle", "category": "Bottles", "vertical": "Home", "subCategory": "Drinkware", "superCategory": "Kitchen"}`,
			RevenueHistory:   `[{"date": "2024-01-01", "avg_monthly_revenue": 1000}, {"date": "2024-02-01", "avg_monthly_revenue": 1500}]`,
			PromotionHistory: `[{"date": "2024-01-01", "value": 19.99}]`,
		},
		{
			// Variant row: same item, same payloads — must not duplicate output.
			ItemID:           "SKU-1",
			UniqueIdentifier: "U-1b",
			BrandName:        "Acme",
			Rating:           4.5,
			RatingCount:      320,
			VariationsCount:  3,
			PageContent:      `{"title": "Acme Bottle (Blue)"}`,
			RevenueHistory:   `[{"date": "2024-01-01", "avg_monthly_revenue": 1000}, {"date": "2024-02-01", "avg_monthly_revenue": 1500}]`,
			PromotionHistory: `[{"date": "2024-01-01", "value": 19.99}]`,
		},
		{
			ItemID:           "SKU-2",
			UniqueIdentifier: "U-2",
			BrandName:        "Globex",
			Rating:           3.2,
			RatingCount:      800,
			VariationsCount:  1,
			PageContent:      `not valid json`,
			RevenueHistory:   `[{"date": "2024-02-01", "avg_monthly_revenue": 400}]`,
			PromotionHistory: `malformed`,
		},
	}
}

func TestPipelineBuildsCanonicalTable(t *testing.T) {
	p := NewPipeline(newTestLogger())
	result := p.Run(sampleListings())

	// SKU-1: two dates; SKU-2: one date.
	if len(result.Rows) != 3 {
		t.Fatalf("expected 3 canonical rows, got %d", len(result.Rows))
	}

	first := result.Rows[0]
	if first.ItemID != "SKU-1" || !first.Date.Equal(day(2024, 1, 1)) {
		t.Fatalf("rows not sorted by (item, date): %s %v", first.ItemID, first.Date)
	}
	// First-seen variant wins the metadata.
	if first.Title == nil || *first.Title != "Acme Bottle" {
		t.Errorf("Title: got %v, want Acme Bottle (first occurrence wins)", first.Title)
	}
	if first.UniqueIdentifier != "U-1" {
		t.Errorf("UniqueIdentifier: got %s, want U-1", first.UniqueIdentifier)
	}

	sku2 := result.Rows[2]
	if sku2.ItemID != "SKU-2" {
		t.Fatalf("expected SKU-2 last, got %s", sku2.ItemID)
	}
	if sku2.Title != nil {
		t.Error("malformed page_content should leave title nil")
	}
	if sku2.Price != nil {
		t.Error("malformed promotion payload should leave price nil")
	}
	if sku2.Revenue == nil || *sku2.Revenue != 400 {
		t.Errorf("SKU-2 revenue: got %v, want 400", sku2.Revenue)
	}
}

func TestPipelineStats(t *testing.T) {
	p := NewPipeline(newTestLogger())
	result := p.Run(sampleListings())

	s := result.Stats
	if s.RunID == "" {
		t.Error("run id must be set")
	}
	if s.RawRows != 3 || s.UniqueItems != 2 {
		t.Errorf("counts: raw=%d unique=%d, want 3/2", s.RawRows, s.UniqueItems)
	}
	if s.SkippedPricePayloads != 1 {
		t.Errorf("SkippedPricePayloads: got %d, want 1", s.SkippedPricePayloads)
	}
	if s.CanonicalRows != 3 {
		t.Errorf("CanonicalRows: got %d, want 3", s.CanonicalRows)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	p := NewPipeline(newTestLogger())
	first := p.Run(sampleListings())
	second := p.Run(sampleListings())

	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Error("identical raw input must yield identical canonical output")
	}
}

func TestPipelineJoinGapKeepsRow(t *testing.T) {
	b := NewBuilder(newTestLogger())
	points := []models.ReconciledPoint{
		{ItemID: "ORPHAN", Date: day(2024, 1, 1), Revenue: fptr(10)},
	}

	rows := b.Build(points, map[string]models.ItemMetadata{})
	if len(rows) != 1 {
		t.Fatalf("row without metadata must survive the join, got %d rows", len(rows))
	}
	if rows[0].BrandName != "" || rows[0].Title != nil {
		t.Error("metadata fields should stay empty for a join gap")
	}
}
