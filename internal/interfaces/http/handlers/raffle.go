// internal/interfaces/http/handlers/raffle.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/raffle"
	"gorm.io/gorm"
)

// RaffleHandler handles raffle draw endpoints
type RaffleHandler struct {
	raffleService *raffle.Service
	config        *config.Config
}

// NewRaffleHandler creates a new raffle handler
func NewRaffleHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffle.NewService(db, redisClient, cfg, log),
		config:        cfg,
	}
}

// ListEligible handles GET /raffle/available
func (h *RaffleHandler) ListEligible(c *gin.Context) {
	gifts, err := h.raffleService.ListEligible()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Eligible gifts retrieved successfully", gifts)
}

// DrawOne handles POST /raffle/run/:giftId
func (h *RaffleHandler) DrawOne(c *gin.Context) {
	giftID, ok := parseIDParam(c, "giftId")
	if !ok {
		return
	}

	result, err := h.raffleService.DrawOne(c.Request.Context(), giftID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Raffle drawn successfully", result)
}

// DrawAll handles POST /raffle/run-all
func (h *RaffleHandler) DrawAll(c *gin.Context) {
	summary, err := h.raffleService.DrawAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Bulk raffle completed", summary)
}

// ListOutcomes handles GET /raffle/results
func (h *RaffleHandler) ListOutcomes(c *gin.Context) {
	outcomes, err := h.raffleService.ListOutcomes()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Raffle results retrieved successfully", outcomes)
}
