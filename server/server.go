package server

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"listing-analytics/models"
	"listing-analytics/services"
	"listing-analytics/utils"
)

// Server exposes the KPI query surface over HTTP for the dashboard
// collaborator. It owns the canonical table as an immutable snapshot; every
// request derives its own view, so handlers never coordinate writes.
type Server struct {
	logger *utils.Logger
	window *services.WindowEngine
	kpi    *services.KPIEngine
	table  []models.CanonicalRow
	router *gin.Engine
}

// New builds the router over the given canonical table.
func New(logger *utils.Logger, table []models.CanonicalRow) *Server {
	s := &Server{
		logger: logger,
		window: services.NewWindowEngine(logger),
		kpi:    services.NewKPIEngine(logger),
		table:  table,
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8501"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", s.handleHealth)
	api := router.Group("/api/v1")
	api.GET("/kpis", s.handleKPIs)
	api.GET("/meta", s.handleMeta)

	s.router = router
	return s
}

// Run starts the HTTP listener and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("[server] KPI query surface listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": len(s.table)})
}

// handleKPIs resolves one filter configuration into the full report.
func (s *Server) handleKPIs(c *gin.Context) {
	cfg, err := parseFilterConfig(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, err.Error()))
		return
	}

	view, err := s.window.Apply(s.table, cfg)
	if err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(c, cfgErr.Error()))
			return
		}
		s.logger.Error("[server] kpi query failed: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to compute KPIs"))
		return
	}

	report := s.kpi.Generate(view)
	c.JSON(http.StatusOK, models.SuccessResponse(c, "KPI report computed", report))
}

// handleMeta returns the observed date range and the brand/item option lists
// the dashboard populates its selectors from. Items are scoped to the brand
// selection when a brands param is present.
func (s *Server) handleMeta(c *gin.Context) {
	brands := splitParam(c.Query("brands"))
	brandSet := make(map[string]struct{}, len(brands))
	for _, b := range brands {
		brandSet[b] = struct{}{}
	}

	allBrands := make(map[string]struct{})
	items := make(map[string]struct{})
	var minDate, maxDate time.Time
	for _, r := range s.table {
		allBrands[r.BrandName] = struct{}{}
		if len(brandSet) == 0 {
			items[r.ItemID] = struct{}{}
		} else if _, ok := brandSet[r.BrandName]; ok {
			items[r.ItemID] = struct{}{}
		}
		if minDate.IsZero() || r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}

	meta := gin.H{
		"rows":       len(s.table),
		"brands":     sortedKeys(allBrands),
		"items":      sortedKeys(items),
		"start_date": minDate.Format("2006-01-02"),
		"end_date":   maxDate.Format("2006-01-02"),
	}
	c.JSON(http.StatusOK, models.SuccessResponse(c, "Canonical table metadata", meta))
}

// parseFilterConfig maps query parameters onto a FilterConfig. Unparseable
// values are a request error, not a silent default.
func parseFilterConfig(c *gin.Context) (models.FilterConfig, error) {
	cfg := models.DefaultFilterConfig()

	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return cfg, &models.ConfigError{Reason: "start must be YYYY-MM-DD"}
		}
		cfg.StartDate = t.UTC()
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return cfg, &models.ConfigError{Reason: "end must be YYYY-MM-DD"}
		}
		cfg.EndDate = t.UTC()
	}
	cfg.Brands = splitParam(c.Query("brands"))
	cfg.Items = splitParam(c.Query("items"))

	if v := c.Query("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, &models.ConfigError{Reason: "min_rating must be a number"}
		}
		cfg.MinRating = f
	}
	if v := c.Query("min_rating_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, &models.ConfigError{Reason: "min_rating_count must be an integer"}
		}
		cfg.MinRatingCount = n
	}
	if v := c.Query("growth_threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, &models.ConfigError{Reason: "growth_threshold must be a number"}
		}
		cfg.GrowthThreshold = f
	}

	return cfg, nil
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
