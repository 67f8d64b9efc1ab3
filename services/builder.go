package services

import (
	"sort"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// Builder deduplicates per-item metadata, joins it onto the reconciled
// series, and fixes the canonical column order and sort. The output ordering
// by (item id, date) is a persisted-format contract — nearest-date and
// forward-fill logic downstream rely on it.
type Builder struct {
	logger *utils.Logger
}

// NewBuilder creates a Builder with the given logger.
func NewBuilder(logger *utils.Logger) *Builder {
	return &Builder{logger: logger}
}

// BuildMetadata deduplicates listings by item id (first occurrence wins) and
// attaches the extracted page-content fields.
func (b *Builder) BuildMetadata(listings []*models.RawListing) map[string]models.ItemMetadata {
	seen := utils.NewItemSet()
	meta := make(map[string]models.ItemMetadata, len(listings))

	for _, l := range listings {
		if !seen.Add(l.ItemID) {
			b.logger.Debug("[builder] duplicate item skipped: %s", l.ItemID)
			continue
		}
		meta[l.ItemID] = models.ItemMetadata{
			ItemID:           l.ItemID,
			UniqueIdentifier: l.UniqueIdentifier,
			BrandName:        l.BrandName,
			Rating:           l.Rating,
			RatingCount:      l.RatingCount,
			VariationsCount:  l.VariationsCount,
			Content:          ExtractContentFields(l.PageContent),
		}
	}

	b.logger.Info("[builder] %d raw rows → %d unique items", len(listings), seen.Size())
	return meta
}

// Build left-joins metadata onto the reconciled series. Every reconciled row
// survives; a row whose item has no metadata keeps zero-valued fields rather
// than being dropped.
func (b *Builder) Build(points []models.ReconciledPoint, meta map[string]models.ItemMetadata) []models.CanonicalRow {
	rows := make([]models.CanonicalRow, 0, len(points))
	gaps := 0

	for _, p := range points {
		row := models.CanonicalRow{
			ItemID:  p.ItemID,
			Date:    p.Date,
			Revenue: p.Revenue,
			Price:   p.Price,
		}
		if m, ok := meta[p.ItemID]; ok {
			row.UniqueIdentifier = m.UniqueIdentifier
			row.BrandName = m.BrandName
			row.Title = m.Content.Title
			row.Category = m.Content.Category
			row.Vertical = m.Content.Vertical
			row.SubCategory = m.Content.SubCategory
			row.SuperCategory = m.Content.SuperCategory
			row.Rating = m.Rating
			row.RatingCount = m.RatingCount
			row.VariationsCount = m.VariationsCount
		} else {
			gaps++
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ItemID != rows[j].ItemID {
			return rows[i].ItemID < rows[j].ItemID
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	if gaps > 0 {
		b.logger.Warn("[builder] %d rows joined without metadata", gaps)
	}
	b.logger.Info("[builder] canonical table: %d rows", len(rows))
	return rows
}
