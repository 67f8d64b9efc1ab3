package services

import (
	"fmt"
	"sort"
	"strings"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// Brand concentration policy: flag when the top 3 brands carry more than 60%
// of latest revenue. Hard-coded for now; promote to config if it ever needs
// tuning per portfolio.
const (
	topBrandCount         = 3
	concentrationLimitPct = 60.0
)

// KPIEngine computes per-item and portfolio KPIs from a resolved View.
type KPIEngine struct {
	logger *utils.Logger
}

// NewKPIEngine creates a KPIEngine with the given logger.
func NewKPIEngine(logger *utils.Logger) *KPIEngine {
	return &KPIEngine{logger: logger}
}

// Generate computes the full report for one View. Two divide-by-zero policies
// apply and must not be conflated: per-item growth is nil (undefined) when
// the reference revenue is absent or <= 0, while portfolio growth and the
// revenue-at-risk share report a neutral 0 on a zero denominator.
func (s *KPIEngine) Generate(view *View) *models.KPIReport {
	report := &models.KPIReport{
		Items:  []models.ItemKPI{},
		Brands: []models.BrandRevenue{},
	}
	if view.Empty {
		return report
	}

	cfg := view.Config
	report.LatestDate = view.LatestDate
	report.ReferenceDate = view.ReferenceDate
	report.FilteredRows = len(view.Rows)

	itemSet := make(map[string]struct{})
	brandSet := make(map[string]struct{})
	for _, r := range view.Rows {
		itemSet[r.ItemID] = struct{}{}
		brandSet[r.BrandName] = struct{}{}
	}
	report.TotalItems = len(itemSet)
	report.TotalBrands = len(brandSet)
	report.ActiveItems = len(view.Latest)

	report.TotalRevenueLatest = sumRevenue(view.Latest)
	report.TotalRevenueReference = sumRevenue(view.Reference)
	if report.TotalRevenueReference != 0 {
		report.PortfolioGrowthPct = (report.TotalRevenueLatest - report.TotalRevenueReference) /
			report.TotalRevenueReference * 100
	}

	refByItem := make(map[string]models.CanonicalRow, len(view.Reference))
	for _, r := range view.Reference {
		refByItem[r.ItemID] = r
	}

	latest := make([]models.CanonicalRow, len(view.Latest))
	copy(latest, view.Latest)
	sort.Slice(latest, func(i, j int) bool { return latest[i].ItemID < latest[j].ItemID })

	var ratingSum float64
	for _, r := range latest {
		ratingSum += r.Rating

		item := models.ItemKPI{
			ItemID:        r.ItemID,
			BrandName:     r.BrandName,
			Title:         r.Title,
			RevenueLatest: r.Revenue,
			Rating:        r.Rating,
			RatingCount:   r.RatingCount,
		}
		if ref, ok := refByItem[r.ItemID]; ok {
			item.RevenueReference = ref.Revenue
		}
		item.GrowthPct = growthPct(item.RevenueLatest, item.RevenueReference)

		item.AtRisk = r.Rating < cfg.MinRating && r.RatingCount > cfg.MinRatingCount
		item.HighScaling = item.GrowthPct != nil && *item.GrowthPct > cfg.GrowthThreshold &&
			r.Rating >= cfg.MinRating
		item.Declining = item.GrowthPct != nil && *item.GrowthPct < 0

		switch {
		case item.AtRisk:
			item.Label = models.LabelAtRisk
		case item.HighScaling:
			item.Label = models.LabelHighScaling
		default:
			item.Label = models.LabelStable
		}

		if item.AtRisk {
			report.AtRiskItems++
			if r.Revenue != nil {
				report.RevenueAtRisk += *r.Revenue
			}
		}
		if item.HighScaling {
			report.HighScalingItems++
			if r.Revenue != nil {
				report.HighScalingRevenue += *r.Revenue
			}
		}

		report.Items = append(report.Items, item)
	}

	if len(latest) > 0 {
		avg := ratingSum / float64(len(latest))
		report.AvgRating = &avg
	}
	if report.TotalRevenueLatest > 0 {
		report.RiskSharePct = report.RevenueAtRisk / report.TotalRevenueLatest * 100
	}

	report.Brands = brandRevenues(view.Latest, report.TotalRevenueLatest)
	for i, b := range report.Brands {
		if i >= topBrandCount {
			break
		}
		report.TopBrandSharePct += b.SharePct
	}
	report.OverConcentrated = report.TopBrandSharePct > concentrationLimitPct

	s.logger.Info("[kpi] latest revenue %.2f, portfolio growth %+.1f%%, at-risk %d, high-scaling %d",
		report.TotalRevenueLatest, report.PortfolioGrowthPct, report.AtRiskItems, report.HighScalingItems)
	return report
}

// growthPct applies the per-item policy: undefined (nil) unless both samples
// exist and the reference is positive.
func growthPct(latest, reference *float64) *float64 {
	if latest == nil || reference == nil || *reference <= 0 {
		return nil
	}
	g := (*latest - *reference) / *reference * 100
	return &g
}

// sumRevenue sums the revenue of an already-deduplicated snapshot, skipping
// absent samples.
func sumRevenue(rows []models.CanonicalRow) float64 {
	var total float64
	for _, r := range rows {
		if r.Revenue != nil {
			total += *r.Revenue
		}
	}
	return total
}

func brandRevenues(latest []models.CanonicalRow, total float64) []models.BrandRevenue {
	byBrand := make(map[string]float64)
	for _, r := range latest {
		if r.Revenue != nil {
			byBrand[r.BrandName] += *r.Revenue
		}
	}

	brands := make([]models.BrandRevenue, 0, len(byBrand))
	for name, rev := range byBrand {
		b := models.BrandRevenue{BrandName: name, Revenue: rev}
		if total > 0 {
			b.SharePct = rev / total * 100
		}
		brands = append(brands, b)
	}
	sort.Slice(brands, func(i, j int) bool {
		if brands[i].Revenue != brands[j].Revenue {
			return brands[i].Revenue > brands[j].Revenue
		}
		return brands[i].BrandName < brands[j].BrandName
	})
	return brands
}

// Print renders the report to the terminal.
func (s *KPIEngine) Print(r *models.KPIReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 PORTFOLIO KPI REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	if r.FilteredRows == 0 {
		fmt.Printf("  No rows matched the current filters\n\n")
		fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Rows             : \033[1m%d\033[0m\n", r.FilteredRows)
	fmt.Printf("  Items / Brands   : \033[1m%d\033[0m / \033[1m%d\033[0m\n", r.TotalItems, r.TotalBrands)
	fmt.Printf("  Latest snapshot  : %s (%d active items)\n", r.LatestDate.Format("02 Jan 2006"), r.ActiveItems)
	fmt.Printf("  4W reference     : %s\n", r.ReferenceDate.Format("02 Jan 2006"))
	fmt.Println()

	fmt.Printf("\033[1;33m  Portfolio\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Latest revenue   : \033[1;32m%.2f\033[0m\n", r.TotalRevenueLatest)
	fmt.Printf("  4W growth        : \033[1m%+.1f%%\033[0m\n", r.PortfolioGrowthPct)
	fmt.Printf("  Revenue at risk  : \033[1;31m%.2f\033[0m (%.1f%% across %d items)\n",
		r.RevenueAtRisk, r.RiskSharePct, r.AtRiskItems)
	fmt.Printf("  High-scaling     : %d items, revenue %.2f\n", r.HighScalingItems, r.HighScalingRevenue)
	if r.AvgRating != nil {
		fmt.Printf("  Avg rating       : %.2f\n", *r.AvgRating)
	} else {
		fmt.Printf("  Avg rating       : N/A\n")
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Brand Revenue (latest)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, b := range r.Brands {
		bar := strings.Repeat("█", int(b.SharePct/2))
		fmt.Printf("  %-24s %s %.1f%%\n", truncate(b.BrandName, 22), bar, b.SharePct)
	}
	if r.OverConcentrated {
		fmt.Printf("\n  \033[1;31mConcentration warning:\033[0m top %d brands hold %.1f%% of revenue\n",
			topBrandCount, r.TopBrandSharePct)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
