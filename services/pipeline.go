package services

import (
	"time"

	"github.com/google/uuid"

	"listing-analytics/models"
	"listing-analytics/utils"
)

// Pipeline runs the full normalization: flatten both history series,
// reconcile them, and join the deduplicated metadata into the canonical
// table. Single-threaded and synchronous: each stage consumes the complete
// output of its predecessor. Re-running on identical input yields identical
// output.
type Pipeline struct {
	logger     *utils.Logger
	flattener  *Flattener
	reconciler *Reconciler
	builder    *Builder
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(logger *utils.Logger) *Pipeline {
	return &Pipeline{
		logger:     logger,
		flattener:  NewFlattener(logger),
		reconciler: NewReconciler(logger),
		builder:    NewBuilder(logger),
	}
}

// PipelineResult carries the canonical table and the run's bookkeeping.
type PipelineResult struct {
	Rows  []models.CanonicalRow
	Stats models.PipelineStats
}

// Run executes all stages over the ingested listings.
func (p *Pipeline) Run(listings []*models.RawListing) *PipelineResult {
	stats := models.PipelineStats{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		RawRows:   len(listings),
	}
	p.logger.Info("[pipeline] run %s over %d raw rows", stats.RunID, len(listings))

	revenue, revStats := p.flattener.FlattenRevenue(listings)
	price, priceStats := p.flattener.FlattenPromotions(listings)

	reconciled := p.reconciler.Reconcile(revenue, price)
	meta := p.builder.BuildMetadata(listings)
	rows := p.builder.Build(reconciled, meta)

	stats.UniqueItems = len(meta)
	stats.RevenuePoints = revStats.Points
	stats.PricePoints = priceStats.Points
	stats.CanonicalRows = len(rows)
	stats.SkippedRevenuePayloads = revStats.SkippedPayloads
	stats.SkippedPricePayloads = priceStats.SkippedPayloads
	stats.SkippedElements = revStats.SkippedElements + priceStats.SkippedElements

	p.logger.Info("[pipeline] run %s done: %d canonical rows (skipped payloads: %d revenue, %d price; elements: %d)",
		stats.RunID, stats.CanonicalRows,
		stats.SkippedRevenuePayloads, stats.SkippedPricePayloads, stats.SkippedElements)

	return &PipelineResult{Rows: rows, Stats: stats}
}
