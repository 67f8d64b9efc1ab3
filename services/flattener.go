package services

import (
	"time"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// dateLayouts are tried in order when parsing a history element's date.
// The export writes ISO dates; older extracts used day-first.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02-01-2006",
}

// FlattenStats counts what one flatten pass kept and skipped.
type FlattenStats struct {
	Points          int
	SkippedPayloads int // payload missing, malformed, or not an array
	SkippedElements int // element not an object, or date unusable
}

// Flattener expands embedded history payloads into flat per-item/per-date
// series rows. One malformed payload drops that record's history only; one
// malformed element drops that element only.
type Flattener struct {
	logger *utils.Logger
}

// NewFlattener creates a Flattener with the given logger.
func NewFlattener(logger *utils.Logger) *Flattener {
	return &Flattener{logger: logger}
}

// FlattenRevenue expands the monthly_revenue_history payloads, renaming
// avg_monthly_revenue to the series value.
func (f *Flattener) FlattenRevenue(listings []*models.RawListing) ([]models.SeriesPoint, FlattenStats) {
	return f.flatten(listings, "revenue", "avg_monthly_revenue",
		func(l *models.RawListing) string { return l.RevenueHistory })
}

// FlattenPromotions expands the promotion_history payloads, renaming value to
// the series value (the promotional price).
func (f *Flattener) FlattenPromotions(listings []*models.RawListing) ([]models.SeriesPoint, FlattenStats) {
	return f.flatten(listings, "price", "value",
		func(l *models.RawListing) string { return l.PromotionHistory })
}

func (f *Flattener) flatten(listings []*models.RawListing, series, valueKey string,
	payload func(*models.RawListing) string) ([]models.SeriesPoint, FlattenStats) {

	var stats FlattenStats
	points := make([]models.SeriesPoint, 0, len(listings))

	for _, l := range listings {
		entries, ok := DecodeArray(payload(l))
		if !ok {
			stats.SkippedPayloads++
			f.logger.Debug("[flattener] %s payload skipped for item %s", series, l.ItemID)
			continue
		}

		for _, entry := range entries {
			obj, ok := entry.(map[string]any)
			if !ok {
				stats.SkippedElements++
				continue
			}

			date, ok := parseElementDate(obj["date"])
			if !ok {
				stats.SkippedElements++
				continue
			}

			points = append(points, models.SeriesPoint{
				ItemID: l.ItemID,
				Date:   date,
				Value:  numericField(obj, valueKey),
			})
		}
	}

	stats.Points = len(points)
	f.logger.Info("[flattener] %s: %d points from %d records (skipped %d payloads, %d elements)",
		series, stats.Points, len(listings), stats.SkippedPayloads, stats.SkippedElements)
	return points, stats
}

// parseElementDate accepts the date field of a history element. Anything that
// is not a string in a known layout is treated as malformed.
func parseElementDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}

// numericField returns the element's value as a float, or nil when the field
// is missing or not a number. A nil value keeps the row: a dated sample with
// no reading is still a sample.
func numericField(obj map[string]any, key string) *float64 {
	if v, ok := obj[key].(float64); ok {
		return &v
	}
	return nil
}
