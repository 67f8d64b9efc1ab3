package models

import "time"

// Classification labels for the single-label view. At Risk takes precedence
// over High-Scaling when an item satisfies both predicates.
const (
	LabelAtRisk      = "At Risk"
	LabelHighScaling = "High-Scaling"
	LabelStable      = "Stable"
)

// ItemKPI is one item's latest-vs-reference comparison plus classification.
// The boolean predicates stay independently inspectable even though the
// single Label applies precedence.
type ItemKPI struct {
	ItemID           string   `json:"item_id"`
	BrandName        string   `json:"brand_name"`
	Title            *string  `json:"title"`
	RevenueLatest    *float64 `json:"revenue_latest"`
	RevenueReference *float64 `json:"revenue_reference"`
	GrowthPct        *float64 `json:"growth_pct"` // nil when reference revenue is absent or <= 0
	Rating           float64  `json:"rating"`
	RatingCount      int      `json:"rating_count"`
	AtRisk           bool     `json:"at_risk"`
	HighScaling      bool     `json:"high_scaling"`
	Declining        bool     `json:"declining"`
	Label            string   `json:"label"`
}

// BrandRevenue is one brand's revenue on the latest snapshot.
type BrandRevenue struct {
	BrandName string  `json:"brand_name"`
	Revenue   float64 `json:"revenue"`
	SharePct  float64 `json:"share_pct"`
}

// KPIReport is the full analytics answer for one filter configuration.
type KPIReport struct {
	LatestDate    time.Time `json:"latest_date"`
	ReferenceDate time.Time `json:"reference_date"`

	FilteredRows int `json:"filtered_rows"`
	TotalItems   int `json:"total_items"`
	TotalBrands  int `json:"total_brands"`
	ActiveItems  int `json:"active_items"` // items present on the latest snapshot

	TotalRevenueLatest    float64 `json:"total_revenue_latest"`
	TotalRevenueReference float64 `json:"total_revenue_reference"`
	PortfolioGrowthPct    float64 `json:"portfolio_growth_pct"` // 0 when the reference sum is 0

	RevenueAtRisk float64 `json:"revenue_at_risk"`
	AtRiskItems   int     `json:"at_risk_items"`
	RiskSharePct  float64 `json:"risk_share_pct"` // 0 (not null) on zero denominator

	HighScalingItems   int     `json:"high_scaling_items"`
	HighScalingRevenue float64 `json:"high_scaling_revenue"`

	AvgRating *float64 `json:"avg_rating"` // nil when the latest snapshot is empty

	Items  []ItemKPI      `json:"items"`
	Brands []BrandRevenue `json:"brands"` // ranked by revenue descending

	TopBrandSharePct float64 `json:"top_brand_share_pct"` // combined share of the top 3 brands
	OverConcentrated bool    `json:"over_concentrated"`
}
