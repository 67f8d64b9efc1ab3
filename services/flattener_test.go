package services

import (
	"testing"
	"time"

	"listing-analytics/models"
	"listing-analytics/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger(false) }

func rawWithRevenue(itemID, payload string) *models.RawListing {
	return &models.RawListing{ItemID: itemID, RevenueHistory: payload}
}

func TestFlattenRevenueWellFormed(t *testing.T) {
	f := NewFlattener(newTestLogger())
	listings := []*models.RawListing{
		rawWithRevenue("SKU-1", `[
			{"date": "2024-01-01", "avg_monthly_revenue": 1200.5},
			{"date": "2024-02-01", "avg_monthly_revenue": 900}
		]`),
	}

	points, stats := f.FlattenRevenue(listings)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if stats.SkippedPayloads != 0 || stats.SkippedElements != 0 {
		t.Errorf("unexpected skips: %+v", stats)
	}
	if points[0].Value == nil || *points[0].Value != 1200.5 {
		t.Errorf("Value: got %v, want 1200.5", points[0].Value)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !points[0].Date.Equal(want) {
		t.Errorf("Date: got %v, want %v", points[0].Date, want)
	}
}

func TestFlattenMalformedPayloadContributesZeroRows(t *testing.T) {
	f := NewFlattener(newTestLogger())
	listings := []*models.RawListing{
		rawWithRevenue("BAD-1", `{"date": "2024-01-01"}`), // object, not array
		rawWithRevenue("BAD-2", `[{"date": "2024-01-01"`), // truncated
		rawWithRevenue("BAD-3", ""),
		rawWithRevenue("BAD-4", "null"),
		rawWithRevenue("GOOD", `[{"date": "2024-01-01", "avg_monthly_revenue": 10}]`),
	}

	points, stats := f.FlattenRevenue(listings)
	if len(points) != 1 {
		t.Fatalf("sibling record should be unaffected: got %d points, want 1", len(points))
	}
	if points[0].ItemID != "GOOD" {
		t.Errorf("surviving point belongs to %q, want GOOD", points[0].ItemID)
	}
	if stats.SkippedPayloads != 4 {
		t.Errorf("SkippedPayloads: got %d, want 4", stats.SkippedPayloads)
	}
}

func TestFlattenSkipsBadElementsKeepsSiblings(t *testing.T) {
	f := NewFlattener(newTestLogger())
	listings := []*models.RawListing{
		rawWithRevenue("SKU-1", `[
			{"date": "2024-01-01", "avg_monthly_revenue": 100},
			"not an object",
			{"date": 12345, "avg_monthly_revenue": 200},
			{"avg_monthly_revenue": 300},
			{"date": "2024-02-01", "avg_monthly_revenue": 400}
		]`),
	}

	points, stats := f.FlattenRevenue(listings)
	if len(points) != 2 {
		t.Fatalf("expected 2 surviving points, got %d", len(points))
	}
	if stats.SkippedElements != 3 {
		t.Errorf("SkippedElements: got %d, want 3", stats.SkippedElements)
	}
}

func TestFlattenKeepsDatedSampleWithoutValue(t *testing.T) {
	f := NewFlattener(newTestLogger())
	listings := []*models.RawListing{
		rawWithRevenue("SKU-1", `[{"date": "2024-01-01"}, {"date": "2024-02-01", "avg_monthly_revenue": "n/a"}]`),
	}

	points, _ := f.FlattenRevenue(listings)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Value != nil {
			t.Errorf("missing or non-numeric value should be nil, got %v", *p.Value)
		}
	}
}

func TestFlattenPromotionsRenamesValue(t *testing.T) {
	f := NewFlattener(newTestLogger())
	listings := []*models.RawListing{
		{ItemID: "SKU-1", PromotionHistory: `[{"date": "2024-01-10", "value": 499}]`},
	}

	points, _ := f.FlattenPromotions(listings)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].Value == nil || *points[0].Value != 499 {
		t.Errorf("Value: got %v, want 499", points[0].Value)
	}
}
