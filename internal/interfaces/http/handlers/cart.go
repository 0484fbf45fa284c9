// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/cart"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, cfg, purchase.NewService(db, cfg)),
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	view, err := h.cartService.GetCart(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart retrieved successfully", view)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req struct {
		GiftID uint `json:"gift_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}

	view, err := h.cartService.AddLine(userID, req.GiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Gift added to cart successfully", view)
}

// RemoveFromCart handles DELETE /cart/items/:giftId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	giftID, ok := parseIDParam(c, "giftId")
	if !ok {
		return
	}

	removed, err := h.cartService.RemoveLine(userID, giftID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart updated", gin.H{"removed": removed})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.cartService.ClearDrafts(userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Cart cleared successfully", nil)
}

// FinalizeCart handles POST /cart/finalize
func (h *CartHandler) FinalizeCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	view, err := h.cartService.FinalizeCart(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Order finalized successfully", view)
}
