// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/analytics"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"gorm.io/gorm"
)

// AnalyticsHandler handles reporting endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg, purchase.NewService(db, cfg)),
		config:           cfg,
	}
}

// SalesReport handles GET /reports/sales
func (h *AnalyticsHandler) SalesReport(c *gin.Context) {
	report, err := h.analyticsService.GetSalesReport()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Sales report generated successfully", report)
}

// TopGifts handles GET /reports/top-gifts
func (h *AnalyticsHandler) TopGifts(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondBadRequest(c, "Invalid limit value", nil)
			return
		}
		limit = n
	}

	top, err := h.analyticsService.TopGifts(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Top gifts retrieved successfully", top)
}
