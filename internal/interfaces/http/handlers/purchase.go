// internal/interfaces/http/handlers/purchase.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// PurchaseHandler handles purchase ledger endpoints
type PurchaseHandler struct {
	purchaseService *purchase.Service
	config          *config.Config
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(db *gorm.DB, cfg *config.Config) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchase.NewService(db, cfg),
		config:          cfg,
	}
}

// ListPurchases handles GET /purchases
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.purchaseService.ListAll()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Purchases retrieved successfully", purchases)
}

// ListMyPurchases handles GET /purchases/my-purchases
func (h *PurchaseHandler) ListMyPurchases(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	purchases, err := h.purchaseService.ListByCustomer(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Purchases retrieved successfully", purchases)
}

// ListGiftPurchases handles GET /purchases/gift/:id
func (h *PurchaseHandler) ListGiftPurchases(c *gin.Context) {
	giftID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	purchases, err := h.purchaseService.ListByGift(giftID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Purchases retrieved successfully", purchases)
}

// MostExpensive handles GET /purchases/most-expensive
func (h *PurchaseHandler) MostExpensive(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondBadRequest(c, "Invalid limit value", nil)
			return
		}
		limit = n
	}

	purchases, err := h.purchaseService.TopByPrice(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Purchases retrieved successfully", purchases)
}
