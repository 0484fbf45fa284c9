package purchase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
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
		&user.User{}, &donor.Donor{}, &gift.Gift{}, &PurchaseRecord{},
	))
	return NewService(db, &config.Config{}), db
}

func seedCatalog(t *testing.T, db *gorm.DB) (g1, g2 *gift.Gift) {
	d := donor.Donor{Name: "Acme Corp"}
	require.NoError(t, db.Create(&d).Error)
	u1 := user.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: "customer"}
	u2 := user.User{Name: "Bob", Email: "bob@example.com", Password: "x", Role: "customer"}
	require.NoError(t, db.Create(&u1).Error)
	require.NoError(t, db.Create(&u2).Error)

	g1 = &gift.Gift{Name: "Tablet", Category: "Electronics", Price: decimal.RequireFromString("250.00"), DonorID: d.ID}
	g2 = &gift.Gift{Name: "Wine Basket", Category: "Food", Price: decimal.RequireFromString("40.00"), DonorID: d.ID}
	require.NoError(t, db.Create(g1).Error)
	require.NoError(t, db.Create(g2).Error)
	return g1, g2
}

func record(userID, giftID uint, price string, at time.Time) PurchaseRecord {
	return PurchaseRecord{
		UserID:      userID,
		GiftID:      giftID,
		PricePaid:   decimal.RequireFromString(price),
		PurchasedAt: at,
	}
}

func TestRecordBulk(t *testing.T) {
	t.Run("inserts every record", func(t *testing.T) {
		svc, db := setupService(t)
		g1, g2 := seedCatalog(t, db)

		now := time.Now().UTC()
		err := svc.RecordBulk(nil, []PurchaseRecord{
			record(1, g1.ID, "250.00", now),
			record(1, g2.ID, "40.00", now),
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&PurchaseRecord{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("is a no-op for an empty batch", func(t *testing.T) {
		svc, db := setupService(t)

		require.NoError(t, svc.RecordBulk(nil, nil))

		var count int64
		require.NoError(t, db.Model(&PurchaseRecord{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("rolls back with the surrounding transaction", func(t *testing.T) {
		svc, db := setupService(t)
		g1, _ := seedCatalog(t, db)

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := svc.RecordBulk(tx, []PurchaseRecord{
				record(1, g1.ID, "250.00", time.Now().UTC()),
			}); err != nil {
				return err
			}
			return assert.AnError
		})
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&PurchaseRecord{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}

func TestListOrderings(t *testing.T) {
	svc, db := setupService(t)
	g1, g2 := seedCatalog(t, db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordBulk(nil, []PurchaseRecord{
		record(1, g1.ID, "250.00", base),
		record(2, g1.ID, "250.00", base.Add(time.Hour)),
		record(1, g2.ID, "40.00", base.Add(2*time.Hour)),
	}))

	t.Run("all purchases come back newest first", func(t *testing.T) {
		all, err := svc.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, g2.ID, all[0].GiftID)
		assert.True(t, all[0].PurchasedAt.After(all[2].PurchasedAt))
	})

	t.Run("a customer's purchases come back newest first", func(t *testing.T) {
		mine, err := svc.ListByCustomer(1)
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, g2.ID, mine[0].GiftID)
		assert.Equal(t, g1.ID, mine[1].GiftID)
	})

	t.Run("a gift's purchases come back oldest first", func(t *testing.T) {
		entries, err := svc.ListByGift(g1.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, uint(1), entries[0].UserID)
		assert.Equal(t, uint(2), entries[1].UserID)
	})

	t.Run("responses carry denormalized names", func(t *testing.T) {
		all, err := svc.ListAll()
		require.NoError(t, err)
		assert.Equal(t, "Wine Basket", all[0].GiftName)
		assert.Equal(t, "Alice", all[0].UserName)
		assert.Equal(t, "Acme Corp", all[0].DonorName)
	})
}

func TestTopByPrice(t *testing.T) {
	svc, db := setupService(t)
	g1, g2 := seedCatalog(t, db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, svc.RecordBulk(nil, []PurchaseRecord{
		record(1, g2.ID, "40.00", base),
		record(2, g1.ID, "250.00", base.Add(time.Hour)),
		record(1, g1.ID, "250.00", base),
	}))

	top, err := svc.TopByPrice(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	// Equal prices rank by earlier purchase
	assert.Equal(t, uint(1), top[0].UserID)
	assert.Equal(t, uint(2), top[1].UserID)
	assert.True(t, top[0].PricePaid.Equal(decimal.RequireFromString("250.00")))
}

func TestTotalIncome(t *testing.T) {
	svc, db := setupService(t)
	g1, _ := seedCatalog(t, db)

	now := time.Now().UTC()
	require.NoError(t, svc.RecordBulk(nil, []PurchaseRecord{
		record(1, g1.ID, "0.10", now),
		record(2, g1.ID, "0.20", now),
	}))

	total, err := svc.TotalIncome()
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "got %s", total)
}

func TestSalesByCategory(t *testing.T) {
	svc, db := setupService(t)
	g1, g2 := seedCatalog(t, db)

	now := time.Now().UTC()
	require.NoError(t, svc.RecordBulk(nil, []PurchaseRecord{
		record(1, g1.ID, "250.00", now),
		record(1, g2.ID, "40.00", now),
		record(2, g2.ID, "40.00", now),
	}))

	breakdown, err := svc.SalesByCategory()
	require.NoError(t, err)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "Electronics", breakdown[0].Category)
	assert.True(t, breakdown[0].TotalSales.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, 1, breakdown[0].ItemCount)
	assert.Equal(t, "Food", breakdown[1].Category)
	assert.True(t, breakdown[1].TotalSales.Equal(decimal.RequireFromString("80.00")))
	assert.Equal(t, 2, breakdown[1].ItemCount)
}
