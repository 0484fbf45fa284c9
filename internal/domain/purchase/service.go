// internal/domain/purchase/service.go
package purchase

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Service handles the purchase ledger. The ledger is append-only: records
// enter through RecordBulk and are never mutated afterwards.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new purchase service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// PurchaseResponse represents a purchase with denormalized details
type PurchaseResponse struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"user_id"`
	UserName    string          `json:"user_name"`
	GiftID      uint            `json:"gift_id"`
	GiftName    string          `json:"gift_name"`
	Category    string          `json:"category"`
	DonorName   string          `json:"donor_name"`
	PricePaid   decimal.Decimal `json:"price_paid"`
	PurchasedAt time.Time       `json:"purchased_at"`
}

// CategorySales represents aggregated revenue for one gift category
type CategorySales struct {
	Category   string          `json:"category"`
	TotalSales decimal.Decimal `json:"total_sales"`
	ItemCount  int             `json:"item_count"`
}

// RecordBulk inserts all given records in one atomic batch. It runs on the
// caller's transaction when one is supplied so cart finalization can span
// the insert and the draft flips in a single unit of work.
func (s *Service) RecordBulk(tx *gorm.DB, records []PurchaseRecord) error {
	if len(records) == 0 {
		return nil
	}
	if tx == nil {
		tx = s.db
	}
	if err := tx.Create(&records).Error; err != nil {
		return fmt.Errorf("failed to create purchase records: %w", err)
	}
	return nil
}

// ListAll retrieves all purchases, newest first
func (s *Service) ListAll() ([]PurchaseResponse, error) {
	var records []PurchaseRecord
	if err := s.db.Order("purchased_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve purchases: %w", err)
	}
	return s.toResponses(records)
}

// ListByCustomer retrieves a customer's purchases, newest first
func (s *Service) ListByCustomer(userID uint) ([]PurchaseResponse, error) {
	var records []PurchaseRecord
	err := s.db.Where("user_id = ?", userID).Order("purchased_at DESC, id DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve purchases for user %d: %w", userID, err)
	}
	return s.toResponses(records)
}

// ListByGift retrieves a gift's purchases in purchase order (oldest first)
func (s *Service) ListByGift(giftID uint) ([]PurchaseResponse, error) {
	var records []PurchaseRecord
	err := s.db.Where("gift_id = ?", giftID).Order("purchased_at ASC, id ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve purchases for gift %d: %w", giftID, err)
	}
	return s.toResponses(records)
}

// TopByPrice retrieves the n most expensive purchases. Ties are broken by
// earlier purchase timestamp so the ranking is stable.
func (s *Service) TopByPrice(n int) ([]PurchaseResponse, error) {
	if n <= 0 {
		n = 10
	}
	var records []PurchaseRecord
	err := s.db.Order("price_paid DESC, purchased_at ASC, id ASC").Limit(n).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve most expensive purchases: %w", err)
	}
	return s.toResponses(records)
}

// TotalIncome sums price_paid over the whole ledger. The sum is computed
// with decimal arithmetic, so it is exact for any insertion order.
func (s *Service) TotalIncome() (decimal.Decimal, error) {
	var prices []decimal.Decimal
	if err := s.db.Model(&PurchaseRecord{}).Pluck("price_paid", &prices).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate total income: %w", err)
	}

	total := decimal.Zero
	for _, p := range prices {
		total = total.Add(p)
	}
	return total, nil
}

// SalesByCategory groups the ledger by gift category, ordered by total
// revenue descending
func (s *Service) SalesByCategory() ([]CategorySales, error) {
	var records []PurchaseRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve purchases: %w", err)
	}

	categories, err := s.giftCategories(records)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategorySales)
	for _, r := range records {
		category := categories[r.GiftID]
		entry, ok := totals[category]
		if !ok {
			entry = &CategorySales{Category: category, TotalSales: decimal.Zero}
			totals[category] = entry
		}
		entry.TotalSales = entry.TotalSales.Add(r.PricePaid)
		entry.ItemCount++
	}

	result := make([]CategorySales, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TotalSales.Equal(result[j].TotalSales) {
			return result[i].TotalSales.GreaterThan(result[j].TotalSales)
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

// giftCategories loads the category for every gift referenced by records
func (s *Service) giftCategories(records []PurchaseRecord) (map[uint]string, error) {
	if len(records) == 0 {
		return map[uint]string{}, nil
	}

	giftIDs := make([]uint, 0, len(records))
	seen := make(map[uint]bool, len(records))
	for _, r := range records {
		if !seen[r.GiftID] {
			seen[r.GiftID] = true
			giftIDs = append(giftIDs, r.GiftID)
		}
	}

	var gifts []gift.Gift
	if err := s.db.Where("id IN ?", giftIDs).Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to load gifts: %w", err)
	}

	categories := make(map[uint]string, len(gifts))
	for _, g := range gifts {
		categories[g.ID] = g.Category
	}
	return categories, nil
}

// toResponses assembles responses with user, gift and donor details
func (s *Service) toResponses(records []PurchaseRecord) ([]PurchaseResponse, error) {
	if len(records) == 0 {
		return []PurchaseResponse{}, nil
	}

	userIDs := make([]uint, 0, len(records))
	giftIDs := make([]uint, 0, len(records))
	for _, r := range records {
		userIDs = append(userIDs, r.UserID)
		giftIDs = append(giftIDs, r.GiftID)
	}

	var users []user.User
	if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	userNames := make(map[uint]string, len(users))
	for _, u := range users {
		userNames[u.ID] = u.Name
	}

	var gifts []gift.Gift
	if err := s.db.Where("id IN ?", giftIDs).Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to load gifts: %w", err)
	}
	giftsByID := make(map[uint]gift.Gift, len(gifts))
	donorIDs := make([]uint, 0, len(gifts))
	for _, g := range gifts {
		giftsByID[g.ID] = g
		donorIDs = append(donorIDs, g.DonorID)
	}

	donorNames := make(map[uint]string)
	if len(donorIDs) > 0 {
		var donors []donor.Donor
		if err := s.db.Where("id IN ?", donorIDs).Find(&donors).Error; err != nil {
			return nil, fmt.Errorf("failed to load donors: %w", err)
		}
		for _, d := range donors {
			donorNames[d.ID] = d.Name
		}
	}

	responses := make([]PurchaseResponse, len(records))
	for i, r := range records {
		g := giftsByID[r.GiftID]
		responses[i] = PurchaseResponse{
			ID:          r.ID,
			UserID:      r.UserID,
			UserName:    userNames[r.UserID],
			GiftID:      r.GiftID,
			GiftName:    g.Name,
			Category:    g.Category,
			DonorName:   donorNames[g.DonorID],
			PricePaid:   r.PricePaid,
			PurchasedAt: r.PurchasedAt,
		}
	}

	return responses, nil
}
