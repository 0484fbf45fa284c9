// internal/domain/cart/service.go
package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	purchases *purchase.Service
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config, purchases *purchase.Service) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		purchases: purchases,
	}
}

// CartItemResponse represents one cart line with gift details
type CartItemResponse struct {
	GiftID   uint            `json:"gift_id"`
	GiftName string          `json:"gift_name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	IsDraft  bool            `json:"is_draft"`
	AddedAt  time.Time       `json:"added_at"`
}

// CartView represents a customer's cart: pending draft lines plus the
// finalized lines kept as purchase history. Only drafts count towards the
// total.
type CartView struct {
	UserID      uint               `json:"user_id"`
	Items       []CartItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
}

// GetCart retrieves the customer's cart, oldest lines first
func (s *Service) GetCart(userID uint) (*CartView, error) {
	var lines []CartLine
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return s.toView(userID, lines)
}

// AddLine puts a gift in the customer's cart. A gift that was already
// raffled, or that the customer holds in any cart line (draft or finalized),
// cannot be added again.
func (s *Service) AddLine(userID, giftID uint) (*CartView, error) {
	var g gift.Gift
	if err := s.db.First(&g, giftID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: gift %d", apperr.ErrNotFound, giftID)
		}
		return nil, fmt.Errorf("failed to retrieve gift: %w", err)
	}

	if g.IsRaffled {
		return nil, fmt.Errorf("%w: gift %d has already been raffled", apperr.ErrConflict, giftID)
	}

	var existing int64
	err := s.db.Model(&CartLine{}).Where("user_id = ? AND gift_id = ?", userID, giftID).Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check cart: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: gift %d is already in the cart", apperr.ErrConflict, giftID)
	}

	line := CartLine{
		UserID:  userID,
		GiftID:  giftID,
		IsDraft: true,
	}
	if err := s.db.Create(&line).Error; err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return s.GetCart(userID)
}

// RemoveLine deletes a draft line. It reports whether a line was actually
// removed; removing a gift that is not in the draft cart is a no-op.
func (s *Service) RemoveLine(userID, giftID uint) (bool, error) {
	result := s.db.Where("user_id = ? AND gift_id = ? AND is_draft = ?", userID, giftID, true).
		Delete(&CartLine{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove from cart: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ClearDrafts empties the customer's draft cart. Finalized lines are history
// and are left untouched.
func (s *Service) ClearDrafts(userID uint) error {
	err := s.db.Where("user_id = ? AND is_draft = ?", userID, true).Delete(&CartLine{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// FinalizeCart turns every draft line into a purchase record with the gift's
// current price snapshotted, then flips the lines out of draft state. The
// whole operation runs in one transaction; a finalized cart cannot be
// finalized again because no draft lines remain.
func (s *Service) FinalizeCart(userID uint) (*CartView, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var lines []CartLine
		err := tx.Where("user_id = ? AND is_draft = ?", userID, true).
			Order("created_at ASC, id ASC").Find(&lines).Error
		if err != nil {
			return fmt.Errorf("failed to retrieve cart: %w", err)
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: cart is empty", apperr.ErrConflict)
		}

		giftIDs := make([]uint, len(lines))
		for i, l := range lines {
			giftIDs[i] = l.GiftID
		}

		var gifts []gift.Gift
		if err := tx.Where("id IN ?", giftIDs).Find(&gifts).Error; err != nil {
			return fmt.Errorf("failed to load gifts: %w", err)
		}
		prices := make(map[uint]decimal.Decimal, len(gifts))
		for _, g := range gifts {
			prices[g.ID] = g.Price
		}

		now := time.Now().UTC()
		records := make([]purchase.PurchaseRecord, len(lines))
		for i, l := range lines {
			price, ok := prices[l.GiftID]
			if !ok {
				return fmt.Errorf("%w: gift %d", apperr.ErrNotFound, l.GiftID)
			}
			records[i] = purchase.PurchaseRecord{
				UserID:      userID,
				GiftID:      l.GiftID,
				PricePaid:   price,
				PurchasedAt: now,
			}
		}

		if err := s.purchases.RecordBulk(tx, records); err != nil {
			return err
		}

		err = tx.Model(&CartLine{}).
			Where("user_id = ? AND is_draft = ?", userID, true).
			Update("is_draft", false).Error
		if err != nil {
			return fmt.Errorf("failed to finalize cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The refreshed view shows the lines as history with a zero total
	return s.GetCart(userID)
}

// toView assembles a cart view with gift details and the draft total
func (s *Service) toView(userID uint, lines []CartLine) (*CartView, error) {
	view := &CartView{
		UserID:      userID,
		Items:       []CartItemResponse{},
		TotalAmount: decimal.Zero,
	}
	if len(lines) == 0 {
		return view, nil
	}

	giftIDs := make([]uint, len(lines))
	for i, l := range lines {
		giftIDs[i] = l.GiftID
	}

	var gifts []gift.Gift
	if err := s.db.Where("id IN ?", giftIDs).Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to load gifts: %w", err)
	}
	giftsByID := make(map[uint]gift.Gift, len(gifts))
	for _, g := range gifts {
		giftsByID[g.ID] = g
	}

	for _, l := range lines {
		g := giftsByID[l.GiftID]
		view.Items = append(view.Items, CartItemResponse{
			GiftID:   l.GiftID,
			GiftName: g.Name,
			Category: g.Category,
			Price:    g.Price,
			ImageURL: g.ImageURL,
			IsDraft:  l.IsDraft,
			AddedAt:  l.CreatedAt,
		})
		// Finalized lines are history; only pending drafts count
		if l.IsDraft {
			view.TotalAmount = view.TotalAmount.Add(g.Price)
		}
	}
	view.ItemCount = len(view.Items)

	return view, nil
}
