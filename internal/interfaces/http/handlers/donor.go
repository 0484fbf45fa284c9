// internal/interfaces/http/handlers/donor.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"gorm.io/gorm"
)

// DonorHandler handles donor management endpoints
type DonorHandler struct {
	donorService *donor.Service
	config       *config.Config
}

// NewDonorHandler creates a new donor handler
func NewDonorHandler(db *gorm.DB, cfg *config.Config) *DonorHandler {
	return &DonorHandler{
		donorService: donor.NewService(db, cfg),
		config:       cfg,
	}
}

// ListDonors handles GET /donors
func (h *DonorHandler) ListDonors(c *gin.Context) {
	donors, err := h.donorService.ListDonors()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Donors retrieved successfully", donors)
}

// GetDonor handles GET /donors/:id
func (h *DonorHandler) GetDonor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	d, err := h.donorService.GetDonor(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Donor retrieved successfully", d)
}

// CreateDonor handles POST /donors
func (h *DonorHandler) CreateDonor(c *gin.Context) {
	var req donor.DonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}

	d, err := h.donorService.CreateDonor(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Donor created successfully", d)
}

// UpdateDonor handles PUT /donors/:id
func (h *DonorHandler) UpdateDonor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req donor.DonorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data", err)
		return
	}

	d, err := h.donorService.UpdateDonor(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Donor updated successfully", d)
}

// DeleteDonor handles DELETE /donors/:id
func (h *DonorHandler) DeleteDonor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.donorService.DeleteDonor(id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Donor deleted successfully", nil)
}
