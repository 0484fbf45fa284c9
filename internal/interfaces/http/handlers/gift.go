// internal/interfaces/http/handlers/gift.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"gorm.io/gorm"
)

// GiftHandler handles gift catalog endpoints
type GiftHandler struct {
	giftService *gift.Service
	config      *config.Config
}

// NewGiftHandler creates a new gift handler
func NewGiftHandler(db *gorm.DB, cfg *config.Config) *GiftHandler {
	return &GiftHandler{
		giftService: gift.NewService(db, cfg),
		config:      cfg,
	}
}

// ListGifts handles GET /gifts
func (h *GiftHandler) ListGifts(c *gin.Context) {
	gifts, err := h.giftService.ListGifts(c.Query("category"), c.Query("sort_by"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Gifts retrieved successfully", gifts)
}

// SearchGifts handles GET /gifts/search
func (h *GiftHandler) SearchGifts(c *gin.Context) {
	var minBuyers *int
	if raw := c.Query("min_buyers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "Invalid min_buyers value", nil)
			return
		}
		minBuyers = &n
	}

	gifts, err := h.giftService.SearchGifts(c.Query("name"), c.Query("donor_name"), minBuyers)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Gifts retrieved successfully", gifts)
}

// ListCategories handles GET /gifts/categories
func (h *GiftHandler) ListCategories(c *gin.Context) {
	categories, err := h.giftService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Categories retrieved successfully", categories)
}

// GetGift handles GET /gifts/:id
func (h *GiftHandler) GetGift(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	g, err := h.giftService.GetGift(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Gift retrieved successfully", g)
}

// CreateGift handles POST /gifts
func (h *GiftHandler) CreateGift(c *gin.Context) {
	var req gift.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}
	if req.Price.IsNegative() {
		respondBadRequest(c, "Price cannot be negative", nil)
		return
	}

	g, err := h.giftService.CreateGift(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Gift created successfully", g)
}

// UpdateGift handles PUT /gifts/:id
func (h *GiftHandler) UpdateGift(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req gift.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}
	if req.Price.IsNegative() {
		respondBadRequest(c, "Price cannot be negative", nil)
		return
	}

	g, err := h.giftService.UpdateGift(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Gift updated successfully", g)
}

// DeleteGift handles DELETE /gifts/:id
func (h *GiftHandler) DeleteGift(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.giftService.DeleteGift(id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Gift deleted successfully", nil)
}

// parseIDParam parses a numeric path parameter, responding 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		respondBadRequest(c, "Invalid "+name+" parameter", nil)
		return 0, false
	}
	return uint(id), true
}
