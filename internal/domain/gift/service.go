// internal/domain/gift/service.go
package gift

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles gift catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new gift service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// GiftResponse represents a gift with denormalized donor and sales details
type GiftResponse struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsRaffled   bool            `json:"is_raffled"`
	DonorID     uint            `json:"donor_id"`
	DonorName   string          `json:"donor_name"`
	BuyerCount  int64           `json:"buyer_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateGiftRequest represents gift create/update data
type CreateGiftRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url"`
	DonorID     uint            `json:"donor_id" binding:"required"`
}

// ListGifts retrieves all gifts, optionally filtered by category and sorted
func (s *Service) ListGifts(category, sortBy string) ([]GiftResponse, error) {
	query := s.db.Model(&Gift{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	switch sortBy {
	case "price":
		query = query.Order("price ASC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var gifts []Gift
	if err := query.Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve gifts: %w", err)
	}

	return s.toResponses(gifts)
}

// SearchGifts finds gifts by name, donor name and/or minimum buyer count
func (s *Service) SearchGifts(name, donorName string, minBuyers *int) ([]GiftResponse, error) {
	query := s.db.Model(&Gift{})
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if donorName != "" {
		query = query.Where("donor_id IN (?)",
			s.db.Model(&donor.Donor{}).Select("id").Where("name LIKE ?", "%"+donorName+"%"))
	}

	var gifts []Gift
	if err := query.Order("created_at DESC").Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to search gifts: %w", err)
	}

	responses, err := s.toResponses(gifts)
	if err != nil {
		return nil, err
	}

	if minBuyers != nil {
		filtered := make([]GiftResponse, 0, len(responses))
		for _, r := range responses {
			if r.BuyerCount >= int64(*minBuyers) {
				filtered = append(filtered, r)
			}
		}
		responses = filtered
	}

	return responses, nil
}

// ListCategories returns the distinct gift categories
func (s *Service) ListCategories() ([]string, error) {
	var categories []string
	err := s.db.Model(&Gift{}).Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetGift retrieves a single gift by ID
func (s *Service) GetGift(id uint) (*GiftResponse, error) {
	var g Gift
	if err := s.db.First(&g, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: gift %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve gift: %w", err)
	}

	responses, err := s.toResponses([]Gift{g})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// CreateGift creates a new gift for an existing donor
func (s *Service) CreateGift(req *CreateGiftRequest) (*GiftResponse, error) {
	var d donor.Donor
	if err := s.db.First(&d, req.DonorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: donor %d", apperr.ErrNotFound, req.DonorID)
		}
		return nil, fmt.Errorf("failed to validate donor: %w", err)
	}

	g := Gift{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		DonorID:     req.DonorID,
	}

	if err := s.db.Create(&g).Error; err != nil {
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}

	return s.GetGift(g.ID)
}

// UpdateGift updates catalog fields of a gift. The raffle projection
// (is_raffled, winner_id, raffle_date) is owned by the draw engine and is
// never touched here; past purchase records keep their snapshotted prices.
func (s *Service) UpdateGift(id uint, req *CreateGiftRequest) (*GiftResponse, error) {
	var g Gift
	if err := s.db.First(&g, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: gift %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve gift: %w", err)
	}

	if req.DonorID != g.DonorID {
		var d donor.Donor
		if err := s.db.First(&d, req.DonorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("%w: donor %d", apperr.ErrNotFound, req.DonorID)
			}
			return nil, fmt.Errorf("failed to validate donor: %w", err)
		}
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"category":    req.Category,
		"price":       req.Price,
		"image_url":   req.ImageURL,
		"donor_id":    req.DonorID,
	}

	if err := s.db.Model(&g).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update gift: %w", err)
	}

	return s.GetGift(id)
}

// DeleteGift removes a gift that has never been purchased. Gifts with
// purchase records are part of the ledger and cannot be deleted.
func (s *Service) DeleteGift(id uint) error {
	var g Gift
	if err := s.db.First(&g, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: gift %d", apperr.ErrNotFound, id)
		}
		return fmt.Errorf("failed to retrieve gift: %w", err)
	}

	var purchaseCount int64
	if err := s.db.Table("purchase_records").Where("gift_id = ?", id).Count(&purchaseCount).Error; err != nil {
		return fmt.Errorf("failed to count purchases: %w", err)
	}
	if purchaseCount > 0 {
		return fmt.Errorf("%w: gift %d has purchase records and cannot be deleted", apperr.ErrConflict, id)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Only draft cart lines can reference an unpurchased gift
		if err := tx.Exec("DELETE FROM cart_lines WHERE gift_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove cart lines: %w", err)
		}
		if err := tx.Delete(&Gift{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete gift: %w", err)
		}
		return nil
	})
}

// toResponses assembles responses with donor names and buyer counts
func (s *Service) toResponses(gifts []Gift) ([]GiftResponse, error) {
	if len(gifts) == 0 {
		return []GiftResponse{}, nil
	}

	donorIDs := make([]uint, 0, len(gifts))
	giftIDs := make([]uint, 0, len(gifts))
	for _, g := range gifts {
		donorIDs = append(donorIDs, g.DonorID)
		giftIDs = append(giftIDs, g.ID)
	}

	var donors []donor.Donor
	if err := s.db.Where("id IN ?", donorIDs).Find(&donors).Error; err != nil {
		return nil, fmt.Errorf("failed to load donors: %w", err)
	}
	donorNames := make(map[uint]string, len(donors))
	for _, d := range donors {
		donorNames[d.ID] = d.Name
	}

	type giftCount struct {
		GiftID uint
		Count  int64
	}
	var counts []giftCount
	err := s.db.Table("purchase_records").
		Select("gift_id, COUNT(*) as count").
		Where("gift_id IN ?", giftIDs).
		Group("gift_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count buyers: %w", err)
	}
	buyerCounts := make(map[uint]int64, len(counts))
	for _, c := range counts {
		buyerCounts[c.GiftID] = c.Count
	}

	responses := make([]GiftResponse, len(gifts))
	for i, g := range gifts {
		responses[i] = GiftResponse{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Category:    g.Category,
			Price:       g.Price,
			ImageURL:    g.ImageURL,
			IsRaffled:   g.IsRaffled,
			DonorID:     g.DonorID,
			DonorName:   donorNames[g.DonorID],
			BuyerCount:  buyerCounts[g.ID],
			CreatedAt:   g.CreatedAt,
		}
	}

	return responses, nil
}
