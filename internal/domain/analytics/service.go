// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"gorm.io/gorm"
)

// Service computes reports over the purchase ledger. Reports are derived on
// every call; nothing here is cached or precomputed, so a report always
// reflects the ledger as it stands.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	purchases *purchase.Service
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config, purchases *purchase.Service) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		purchases: purchases,
	}
}

// GiftSales represents aggregated sales for one gift
type GiftSales struct {
	GiftID        uint            `json:"gift_id"`
	GiftName      string          `json:"gift_name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	PurchaseCount int64           `json:"purchase_count"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// SalesReport is the full sales summary for managers
type SalesReport struct {
	TotalIncome       decimal.Decimal          `json:"total_income"`
	TotalPurchases    int64                    `json:"total_purchases"`
	TotalCustomers    int64                    `json:"total_customers"`
	CategoryBreakdown []purchase.CategorySales `json:"category_breakdown"`
	TopGifts          []GiftSales              `json:"top_gifts"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// GetSalesReport assembles the sales summary
func (s *Service) GetSalesReport() (*SalesReport, error) {
	totalIncome, err := s.purchases.TotalIncome()
	if err != nil {
		return nil, err
	}

	var totalPurchases int64
	if err := s.db.Model(&purchase.PurchaseRecord{}).Count(&totalPurchases).Error; err != nil {
		return nil, fmt.Errorf("failed to count purchases: %w", err)
	}

	var totalCustomers int64
	err = s.db.Model(&purchase.PurchaseRecord{}).Distinct("user_id").Count(&totalCustomers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	breakdown, err := s.purchases.SalesByCategory()
	if err != nil {
		return nil, err
	}

	topGifts, err := s.TopGifts(5)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		TotalIncome:       totalIncome,
		TotalPurchases:    totalPurchases,
		TotalCustomers:    totalCustomers,
		CategoryBreakdown: breakdown,
		TopGifts:          topGifts,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

// TopGifts ranks gifts by how many times they were purchased, with revenue
// alongside. Ties are broken by higher revenue, then by gift ID for a
// stable order.
func (s *Service) TopGifts(n int) ([]GiftSales, error) {
	if n <= 0 {
		n = 5
	}

	var records []purchase.PurchaseRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve purchases: %w", err)
	}
	if len(records) == 0 {
		return []GiftSales{}, nil
	}

	totals := make(map[uint]*GiftSales)
	for _, r := range records {
		entry, ok := totals[r.GiftID]
		if !ok {
			entry = &GiftSales{GiftID: r.GiftID, Revenue: decimal.Zero}
			totals[r.GiftID] = entry
		}
		entry.PurchaseCount++
		entry.Revenue = entry.Revenue.Add(r.PricePaid)
	}

	giftIDs := make([]uint, 0, len(totals))
	for id := range totals {
		giftIDs = append(giftIDs, id)
	}
	var gifts []gift.Gift
	if err := s.db.Where("id IN ?", giftIDs).Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to load gifts: %w", err)
	}
	for _, g := range gifts {
		if entry, ok := totals[g.ID]; ok {
			entry.GiftName = g.Name
			entry.Category = g.Category
			entry.Price = g.Price
		}
	}

	ranked := make([]GiftSales, 0, len(totals))
	for _, entry := range totals {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PurchaseCount != ranked[j].PurchaseCount {
			return ranked[i].PurchaseCount > ranked[j].PurchaseCount
		}
		if !ranked[i].Revenue.Equal(ranked[j].Revenue) {
			return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
		}
		return ranked[i].GiftID < ranked[j].GiftID
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked, nil
}
