package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"estatequery/server/config"
	"estatequery/server/internal/analysis"
	"estatequery/server/internal/database"
	"estatequery/server/internal/models"
)

type Handler struct {
	db        *database.Database
	service   *analysis.Service
	locations []config.Location
	logger    *logrus.Logger
}

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

func NewHandler(db *database.Database, service *analysis.Service, locations []config.Location, logger *logrus.Logger) *Handler {
	return &Handler{
		db:        db,
		service:   service,
		locations: locations,
		logger:    logger,
	}
}

// AnalyzeQuery runs the full pipeline for a free-text question.
func (h *Handler) AnalyzeQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse analyze request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, analysis.ErrNoRecords) {
			parsed := h.service.Parse(req.Query)
			scope := parsed.Location
			if scope == "" {
				scope = "the given criteria"
			}
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("No properties found for %s", scope),
			})
			return
		}
		h.logger.WithError(err).Error("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze query"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DownloadData exports the records matching the query's location
// filter as CSV.
func (h *Handler) DownloadData(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse download request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	parsed := h.service.Parse(req.Query)
	properties, err := h.db.FilterProperties(models.Filter{Location: parsed.Location})
	if err != nil {
		h.logger.WithError(err).Error("Failed to filter properties for download")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}
	if len(properties) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No properties found for download"})
		return
	}

	filename := "real_estate_data.csv"
	if parsed.Location != "" {
		filename = fmt.Sprintf("real_estate_%s.csv", parsed.Location)
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	if err := w.Write([]string{
		"Location", "Type", "Price", "Price/Sqft", "Area (Sqft)", "Year", "Demand", "Demand Score",
	}); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV header")
		return
	}

	for _, p := range properties {
		pricePerSqft := ""
		if p.PricePerSqft != nil {
			pricePerSqft = strconv.FormatFloat(*p.PricePerSqft, 'f', 2, 64)
		}
		area := ""
		if p.AreaSqft != nil {
			area = strconv.FormatFloat(*p.AreaSqft, 'f', 2, 64)
		}

		if err := w.Write([]string{
			p.Location,
			p.PropertyType,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			pricePerSqft,
			area,
			strconv.Itoa(p.Year),
			strconv.Itoa(p.Demand),
			strconv.FormatFloat(p.DemandScore, 'f', 2, 64),
		}); err != nil {
			h.logger.WithError(err).Error("Failed to write CSV row")
			return
		}
	}
}

// GetQueryHistory returns the 10 most recent query-log entries.
func (h *Handler) GetQueryHistory(c *gin.Context) {
	entries, err := h.db.GetRecentQueries(10)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get query history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get query history"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetAllProperties returns records, optionally narrowed by a location
// substring.
func (h *Handler) GetAllProperties(c *gin.Context) {
	location := c.Query("location")
	properties, err := h.db.FilterProperties(models.Filter{Location: location})
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// GetLocations returns the distinct dataset locations plus the
// gazetteer map centers for the frontend.
func (h *Handler) GetLocations(c *gin.Context) {
	locations, err := h.db.GetDistinctLocations()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get locations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"gazetteer": h.locations,
	})
}

// GetStats returns dataset-wide price and demand statistics.
func (h *Handler) GetStats(c *gin.Context) {
	properties, err := h.db.GetAllProperties()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties for stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_properties": len(properties),
		"price_stats":      analysis.PriceStatistics(properties),
		"demand_stats":     analysis.DemandStatistics(properties),
	})
}
