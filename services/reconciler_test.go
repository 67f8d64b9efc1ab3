package services

import (
	"testing"
	"time"

	"listing-analytics/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fptr(v float64) *float64 { return &v }

func point(item string, date time.Time, value *float64) models.SeriesPoint {
	return models.SeriesPoint{ItemID: item, Date: date, Value: value}
}

func TestReconcileOuterJoinKeepsBothGrids(t *testing.T) {
	r := NewReconciler(newTestLogger())
	revenue := []models.SeriesPoint{
		point("A", day(2024, 1, 1), fptr(100)),
		point("A", day(2024, 2, 1), fptr(110)),
	}
	price := []models.SeriesPoint{
		point("A", day(2024, 1, 15), fptr(9.99)), // price-only date must survive
	}

	rows := r.Reconcile(revenue, price)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (union of dates), got %d", len(rows))
	}
	mid := rows[1]
	if !mid.Date.Equal(day(2024, 1, 15)) {
		t.Fatalf("rows not in date order: %v", mid.Date)
	}
	if mid.Revenue != nil {
		t.Error("revenue must not be fabricated on a price-only date")
	}
	if mid.Price == nil || *mid.Price != 9.99 {
		t.Errorf("price: got %v, want 9.99", mid.Price)
	}
}

func TestReconcileForwardFillsPriceWithinItem(t *testing.T) {
	r := NewReconciler(newTestLogger())
	revenue := []models.SeriesPoint{
		point("A", day(2024, 1, 1), fptr(100)),
		point("A", day(2024, 2, 1), fptr(110)),
		point("A", day(2024, 3, 1), fptr(120)),
	}
	price := []models.SeriesPoint{
		point("A", day(2024, 1, 1), fptr(10)),
	}

	rows := r.Reconcile(revenue, price)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []float64{10, 10, 10} {
		if rows[i].Price == nil || *rows[i].Price != want {
			t.Errorf("row %d price: got %v, want %v", i, rows[i].Price, want)
		}
	}
}

func TestReconcileNeverFillsAcrossItems(t *testing.T) {
	r := NewReconciler(newTestLogger())
	// A has price samples at t1 and t3; B has one at t2 in between. B's price
	// must never patch A's gap.
	revenue := []models.SeriesPoint{
		point("A", day(2024, 1, 1), fptr(100)),
		point("A", day(2024, 1, 20), fptr(105)),
		point("B", day(2024, 1, 10), fptr(50)),
	}
	price := []models.SeriesPoint{
		point("A", day(2024, 1, 1), fptr(10)),
		point("A", day(2024, 1, 25), fptr(12)),
		point("B", day(2024, 1, 10), fptr(999)),
	}

	rows := r.Reconcile(revenue, price)
	for _, row := range rows {
		if row.ItemID == "A" && row.Price != nil && *row.Price == 999 {
			t.Errorf("item A at %v picked up item B's price", row.Date)
		}
	}
	// A's middle date carries A's own last-known price.
	for _, row := range rows {
		if row.ItemID == "A" && row.Date.Equal(day(2024, 1, 20)) {
			if row.Price == nil || *row.Price != 10 {
				t.Errorf("A @ Jan 20 price: got %v, want 10 (forward fill)", row.Price)
			}
		}
	}
}

func TestReconcileNoBackwardFill(t *testing.T) {
	r := NewReconciler(newTestLogger())
	revenue := []models.SeriesPoint{
		point("A", day(2024, 1, 1), fptr(100)),
		point("A", day(2024, 2, 1), fptr(110)),
	}
	price := []models.SeriesPoint{
		point("A", day(2024, 2, 1), fptr(20)),
	}

	rows := r.Reconcile(revenue, price)
	if rows[0].Price != nil {
		t.Errorf("leading row with no prior price must stay nil, got %v", *rows[0].Price)
	}
	if rows[1].Price == nil || *rows[1].Price != 20 {
		t.Errorf("second row price: got %v, want 20", rows[1].Price)
	}
}

func TestReconcileDeterministicOrder(t *testing.T) {
	r := NewReconciler(newTestLogger())
	revenue := []models.SeriesPoint{
		point("B", day(2024, 1, 1), fptr(1)),
		point("A", day(2024, 1, 2), fptr(2)),
		point("A", day(2024, 1, 1), fptr(3)),
	}

	rows := r.Reconcile(revenue, nil)
	wantItems := []string{"A", "A", "B"}
	for i, w := range wantItems {
		if rows[i].ItemID != w {
			t.Fatalf("row %d item: got %s, want %s", i, rows[i].ItemID, w)
		}
	}
	if !rows[0].Date.Equal(day(2024, 1, 1)) {
		t.Error("within an item, rows must be ordered by date ascending")
	}
}
