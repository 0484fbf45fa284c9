package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &donor.Donor{}, &gift.Gift{}, &purchase.PurchaseRecord{},
	))
	cfg := &config.Config{}
	return NewService(db, cfg, purchase.NewService(db, cfg)), db
}

func seedSales(t *testing.T, db *gorm.DB) (g1, g2, g3 *gift.Gift) {
	d := donor.Donor{Name: "Acme Corp"}
	require.NoError(t, db.Create(&d).Error)

	g1 = &gift.Gift{Name: "Tablet", Category: "Electronics", Price: decimal.RequireFromString("250.00"), DonorID: d.ID}
	g2 = &gift.Gift{Name: "Wine Basket", Category: "Food", Price: decimal.RequireFromString("40.00"), DonorID: d.ID}
	g3 = &gift.Gift{Name: "Headphones", Category: "Electronics", Price: decimal.RequireFromString("90.00"), DonorID: d.ID}
	require.NoError(t, db.Create(g1).Error)
	require.NoError(t, db.Create(g2).Error)
	require.NoError(t, db.Create(g3).Error)

	now := time.Now().UTC()
	records := []purchase.PurchaseRecord{
		{UserID: 1, GiftID: g1.ID, PricePaid: decimal.RequireFromString("250.00"), PurchasedAt: now},
		{UserID: 2, GiftID: g2.ID, PricePaid: decimal.RequireFromString("40.00"), PurchasedAt: now},
		{UserID: 1, GiftID: g2.ID, PricePaid: decimal.RequireFromString("40.00"), PurchasedAt: now},
		{UserID: 3, GiftID: g2.ID, PricePaid: decimal.RequireFromString("40.00"), PurchasedAt: now},
		{UserID: 2, GiftID: g3.ID, PricePaid: decimal.RequireFromString("90.00"), PurchasedAt: now},
	}
	require.NoError(t, db.Create(&records).Error)
	return g1, g2, g3
}

func TestGetSalesReport(t *testing.T) {
	t.Run("summarizes the ledger", func(t *testing.T) {
		svc, db := setupService(t)
		seedSales(t, db)

		report, err := svc.GetSalesReport()
		require.NoError(t, err)

		assert.True(t, report.TotalIncome.Equal(decimal.RequireFromString("460.00")), "got %s", report.TotalIncome)
		assert.Equal(t, int64(5), report.TotalPurchases)
		assert.Equal(t, int64(3), report.TotalCustomers)
		require.Len(t, report.CategoryBreakdown, 2)
		assert.Equal(t, "Electronics", report.CategoryBreakdown[0].Category)
		assert.False(t, report.GeneratedAt.IsZero())
	})

	t.Run("handles an empty ledger", func(t *testing.T) {
		svc, _ := setupService(t)

		report, err := svc.GetSalesReport()
		require.NoError(t, err)
		assert.True(t, report.TotalIncome.IsZero())
		assert.Equal(t, int64(0), report.TotalPurchases)
		assert.Empty(t, report.CategoryBreakdown)
		assert.Empty(t, report.TopGifts)
	})

	t.Run("reflects new purchases immediately", func(t *testing.T) {
		svc, db := setupService(t)
		g1, _, _ := seedSales(t, db)

		before, err := svc.GetSalesReport()
		require.NoError(t, err)

		extra := purchase.PurchaseRecord{
			UserID: 4, GiftID: g1.ID,
			PricePaid:   decimal.RequireFromString("250.00"),
			PurchasedAt: time.Now().UTC(),
		}
		require.NoError(t, db.Create(&extra).Error)

		after, err := svc.GetSalesReport()
		require.NoError(t, err)
		assert.Equal(t, before.TotalPurchases+1, after.TotalPurchases)
		assert.True(t, after.TotalIncome.Equal(before.TotalIncome.Add(decimal.RequireFromString("250.00"))))
	})
}

func TestTopGifts(t *testing.T) {
	svc, db := setupService(t)
	g1, g2, g3 := seedSales(t, db)

	top, err := svc.TopGifts(2)
	require.NoError(t, err)
	require.Len(t, top, 2)

	// Wine Basket leads on purchase count, Tablet beats Headphones on revenue
	assert.Equal(t, g2.ID, top[0].GiftID)
	assert.Equal(t, int64(3), top[0].PurchaseCount)
	assert.True(t, top[0].Revenue.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, g1.ID, top[1].GiftID)
	assert.Equal(t, "Tablet", top[1].GiftName)

	all, err := svc.TopGifts(10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, g3.ID, all[2].GiftID)
}
