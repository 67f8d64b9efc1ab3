package services

import (
	"fmt"
	"sort"
	"time"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// referenceWindow is how far behind the latest date the trailing comparison
// snapshot is anchored. Hard-coded policy for now.
const referenceWindow = 28 * 24 * time.Hour // 4 weeks

// View is one filter configuration resolved against the canonical table:
// the filtered, (item, date)-deduplicated rows plus the two snapshots every
// KPI reads from. Views are derived, independent values — building one never
// touches the canonical table.
type View struct {
	Config        models.FilterConfig
	Rows          []models.CanonicalRow
	Latest        []models.CanonicalRow
	Reference     []models.CanonicalRow
	LatestDate    time.Time
	ReferenceDate time.Time
	Empty         bool
}

// WindowEngine validates filter configurations and derives Views.
type WindowEngine struct {
	logger *utils.Logger
}

// NewWindowEngine creates a WindowEngine with the given logger.
func NewWindowEngine(logger *utils.Logger) *WindowEngine {
	return &WindowEngine{logger: logger}
}

// Apply resolves cfg against the canonical table. It returns a ConfigError
// when the configuration is outside its declared domain — the one user-facing
// validation failure. An empty result is not an error: the View comes back
// with Empty set and downstream KPIs degrade to defined zero/absent values.
func (e *WindowEngine) Apply(table []models.CanonicalRow, cfg models.FilterConfig) (*View, error) {
	if err := validateThresholds(cfg); err != nil {
		return nil, err
	}

	if len(table) == 0 {
		return &View{Config: cfg, Empty: true}, nil
	}

	minDate, maxDate := observedRange(table)
	start, end := cfg.StartDate, cfg.EndDate
	if start.IsZero() {
		start = minDate
	}
	if end.IsZero() {
		end = maxDate
	}
	if start.After(end) {
		return nil, &models.ConfigError{Reason: "start date must not be after end date"}
	}
	if start.Before(minDate) || end.After(maxDate) {
		return nil, &models.ConfigError{
			Reason: fmt.Sprintf("date range must lie within the observed range %s – %s",
				minDate.Format("2006-01-02"), maxDate.Format("2006-01-02")),
		}
	}

	brands := toSet(cfg.Brands)
	items := toSet(cfg.Items)

	// Revenue lives at item level and repeats across variant rows, so the
	// analytics view keeps the first row per (item, date). The canonical
	// table is sorted, which makes first-wins deterministic.
	seen := make(map[string]struct{}, len(table))
	var rows []models.CanonicalRow
	for _, r := range table {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		if len(brands) > 0 {
			if _, ok := brands[r.BrandName]; !ok {
				continue
			}
		}
		if len(items) > 0 {
			if _, ok := items[r.ItemID]; !ok {
				continue
			}
		}
		key := r.ItemID + "\x00" + r.Date.Format("2006-01-02")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		e.logger.Warn("[window] filters matched no rows")
		return &View{Config: cfg, Empty: true}, nil
	}

	latestDate := rows[0].Date
	for _, r := range rows {
		if r.Date.After(latestDate) {
			latestDate = r.Date
		}
	}
	referenceDate := nearestDate(distinctDates(rows), latestDate.Add(-referenceWindow))

	view := &View{
		Config:        cfg,
		Rows:          rows,
		Latest:        rowsAt(rows, latestDate),
		Reference:     rowsAt(rows, referenceDate),
		LatestDate:    latestDate,
		ReferenceDate: referenceDate,
	}

	e.logger.Info("[window] %d rows; latest %s, reference %s",
		len(rows), latestDate.Format("2006-01-02"), referenceDate.Format("2006-01-02"))
	return view, nil
}

func validateThresholds(cfg models.FilterConfig) error {
	if cfg.MinRating < 1.0 || cfg.MinRating > 5.0 {
		return &models.ConfigError{Reason: "minimum rating threshold must be between 1.0 and 5.0"}
	}
	if cfg.MinRatingCount < 0 {
		return &models.ConfigError{Reason: "minimum rating count threshold must not be negative"}
	}
	if cfg.GrowthThreshold < 0 {
		return &models.ConfigError{Reason: "growth threshold must not be negative"}
	}
	return nil
}

func observedRange(table []models.CanonicalRow) (time.Time, time.Time) {
	min, max := table[0].Date, table[0].Date
	for _, r := range table {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max
}

func distinctDates(rows []models.CanonicalRow) []time.Time {
	seen := make(map[int64]struct{})
	var dates []time.Time
	for _, r := range rows {
		if _, ok := seen[r.Date.Unix()]; ok {
			continue
		}
		seen[r.Date.Unix()] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// nearestDate picks the observed date closest to target, ties going to the
// earliest. Sampling is irregular, so the exact target date may not exist.
func nearestDate(dates []time.Time, target time.Time) time.Time {
	best := dates[0]
	bestDist := absDuration(dates[0].Sub(target))
	for _, d := range dates[1:] {
		if dist := absDuration(d.Sub(target)); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func rowsAt(rows []models.CanonicalRow, date time.Time) []models.CanonicalRow {
	var out []models.CanonicalRow
	for _, r := range rows {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
