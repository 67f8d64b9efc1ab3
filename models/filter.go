package models

import "time"

// Filter threshold defaults, matching the dashboard sidebar.
const (
	DefaultMinRating       = 4.0
	DefaultMinRatingCount  = 200
	DefaultGrowthThreshold = 20.0
)

// FilterConfig is the immutable per-query configuration the presentation
// layer sends in. The canonical table itself is never mutated by a filter
// change — every query derives fresh views from it.
type FilterConfig struct {
	StartDate       time.Time `json:"start_date"` // zero value = observed minimum
	EndDate         time.Time `json:"end_date"`   // zero value = observed maximum
	Brands          []string  `json:"brands"`     // empty = all brands
	Items           []string  `json:"items"`      // empty = all items
	MinRating       float64   `json:"min_rating"`
	MinRatingCount  int       `json:"min_rating_count"`
	GrowthThreshold float64   `json:"growth_threshold"`
}

// DefaultFilterConfig returns a config covering the full observed date range
// with the documented threshold defaults.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinRating:       DefaultMinRating,
		MinRatingCount:  DefaultMinRatingCount,
		GrowthThreshold: DefaultGrowthThreshold,
	}
}

// ConfigError is the single user-facing validation failure: a filter
// configuration outside its declared domain. It halts KPI computation for
// that request only; the canonical table is untouched.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid filter configuration: " + e.Reason
}
