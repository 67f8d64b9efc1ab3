package services

import (
	"sort"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// Reconciler full-outer-joins the revenue and price series on (item, date)
// and forward-fills price within each item. The two series are sampled on
// independent grids (revenue monthly, promotions irregular); the join exists
// to reconcile exactly that.
type Reconciler struct {
	logger *utils.Logger
}

// NewReconciler creates a Reconciler with the given logger.
func NewReconciler(logger *utils.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile merges the two flattened series. Every date present in either
// series for an item survives. Revenue is never filled — a missing revenue
// sample stays nil. Price is forward-filled per item after sorting that
// item's rows by date ascending; leading rows with no prior price stay nil
// (no backward fill), and the fill never crosses an item boundary.
func (r *Reconciler) Reconcile(revenue, price []models.SeriesPoint) []models.ReconciledPoint {
	type dateMap map[int64]*models.ReconciledPoint
	byItem := make(map[string]dateMap)

	point := func(itemID string, date int64) *models.ReconciledPoint {
		dates, ok := byItem[itemID]
		if !ok {
			dates = make(dateMap)
			byItem[itemID] = dates
		}
		p, ok := dates[date]
		if !ok {
			p = &models.ReconciledPoint{ItemID: itemID}
			dates[date] = p
		}
		return p
	}

	// First occurrence wins when a series carries duplicate (item, date)
	// samples, consistent with the metadata dedupe policy.
	for _, s := range revenue {
		p := point(s.ItemID, s.Date.Unix())
		p.Date = s.Date
		if p.Revenue == nil {
			p.Revenue = s.Value
		}
	}
	for _, s := range price {
		p := point(s.ItemID, s.Date.Unix())
		p.Date = s.Date
		if p.Price == nil {
			p.Price = s.Value
		}
	}

	items := make([]string, 0, len(byItem))
	for id := range byItem {
		items = append(items, id)
	}
	sort.Strings(items)

	var out []models.ReconciledPoint
	for _, id := range items {
		out = append(out, fillForward(byItem[id])...)
	}

	r.logger.Info("[reconciler] %d revenue + %d price samples → %d reconciled rows across %d items",
		len(revenue), len(price), len(out), len(items))
	return out
}

// fillForward orders one item's rows by date and carries the most recent
// known price forward. Group-scoped on purpose: a global sort-and-fill would
// leak prices across items.
func fillForward(dates map[int64]*models.ReconciledPoint) []models.ReconciledPoint {
	keys := make([]int64, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([]models.ReconciledPoint, 0, len(keys))
	var lastPrice *float64
	for _, k := range keys {
		p := *dates[k]
		if p.Price != nil {
			lastPrice = p.Price
		} else {
			p.Price = lastPrice
		}
		rows = append(rows, p)
	}
	return rows
}
