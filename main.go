package main

import (
	"fmt"
	"os"

	"listing-analytics/config"
	"listing-analytics/models"
	"listing-analytics/server"
	"listing-analytics/services"
	"listing-analytics/storage"
	"listing-analytics/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogDebug)

	logger.Info("=== Listing Analytics Pipeline starting ===")
	logger.Info("Config — input: %s | canonical: %s | serve: %v",
		cfg.InputCSVPath, cfg.CanonicalCSVPath, cfg.ServeHTTP)

	reader := storage.NewCSVReader(cfg.InputCSVPath)
	listings, err := reader.Read()
	if err != nil {
		logger.Error("Failed to read raw listing export: %v", err)
		os.Exit(1)
	}
	if len(listings) == 0 {
		logger.Error("Raw listing export contains no rows. Exiting.")
		os.Exit(1)
	}
	logger.Info("Ingested %d raw rows", len(listings))

	pipeline := services.NewPipeline(logger)
	result := pipeline.Run(listings)
	if len(result.Rows) == 0 {
		logger.Error("All history payloads were dropped during normalization. Exiting.")
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CanonicalCSVPath)
	if err != nil {
		logger.Error("Failed to create canonical CSV writer: %v", err)
		os.Exit(1)
	}
	if err := csvWriter.WriteCanonical(result.Rows); err != nil {
		logger.Error("Canonical CSV write failed: %v", err)
	} else {
		logger.Info("Canonical table saved to %s", cfg.CanonicalCSVPath)
	}
	_ = csvWriter.Close()

	// Postgres is a secondary sink: a missing database degrades to CSV-only
	// output instead of aborting the run.
	pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
	if err != nil {
		logger.Warn("PostgreSQL unavailable, skipping database sink: %v", err)
	} else {
		defer pgWriter.Close()
		if err := pgWriter.WriteCanonical(result.Rows); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else if err := pgWriter.RecordRun(result.Stats); err != nil {
			logger.Error("PostgreSQL run bookkeeping failed: %v", err)
		} else {
			logger.Info("Canonical table stored in PostgreSQL (run %s)", result.Stats.RunID)
		}
	}

	filter := models.FilterConfig{
		MinRating:       cfg.MinRating,
		MinRatingCount:  cfg.MinRatingCount,
		GrowthThreshold: cfg.GrowthThreshold,
	}

	windowEngine := services.NewWindowEngine(logger)
	kpiEngine := services.NewKPIEngine(logger)

	view, err := windowEngine.Apply(result.Rows, filter)
	if err != nil {
		logger.Error("Default filter configuration rejected: %v", err)
		os.Exit(1)
	}
	kpiEngine.Print(kpiEngine.Generate(view))

	if cfg.ServeHTTP {
		srv := server.New(logger, result.Rows)
		if err := srv.Run(cfg.HTTPAddr); err != nil {
			logger.Error("HTTP server stopped: %v", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("  Done. Canonical table → %s | %d rows across %d items\n\n",
		cfg.CanonicalCSVPath, result.Stats.CanonicalRows, result.Stats.UniqueItems)
}
