package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/domain/user"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &donor.Donor{}, &gift.Gift{}, &CartLine{}, &purchase.PurchaseRecord{},
	))
	return db
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	cfg := &config.Config{}
	return NewService(db, cfg, purchase.NewService(db, cfg)), db
}

func createGift(t *testing.T, db *gorm.DB, name, price string) *gift.Gift {
	d := donor.Donor{Name: "Acme Corp"}
	require.NoError(t, db.Create(&d).Error)
	g := gift.Gift{
		Name:     name,
		Category: "Electronics",
		Price:    decimal.RequireFromString(price),
		DonorID:  d.ID,
	}
	require.NoError(t, db.Create(&g).Error)
	return &g
}

func TestAddLine(t *testing.T) {
	t.Run("adds a gift to an empty cart", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		view, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, view.ItemCount)
		assert.Equal(t, g.ID, view.Items[0].GiftID)
		assert.True(t, view.Items[0].IsDraft)
		assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("250.00")))
	})

	t.Run("rejects an unknown gift", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.AddLine(1, 999)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("rejects a raffled gift", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")
		require.NoError(t, db.Model(g).Update("is_raffled", true).Error)

		_, err := svc.AddLine(1, g.ID)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("rejects a gift already in the draft cart", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.AddLine(1, g.ID)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("rejects a gift the customer already purchased", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.FinalizeCart(1)
		require.NoError(t, err)

		_, err = svc.AddLine(1, g.ID)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("allows two customers to hold the same gift", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.AddLine(2, g.ID)
		require.NoError(t, err)
	})
}

func TestRemoveLine(t *testing.T) {
	t.Run("removes a draft line and reports it", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)

		removed, err := svc.RemoveLine(1, g.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		view, err := svc.GetCart(1)
		require.NoError(t, err)
		assert.Equal(t, 0, view.ItemCount)
	})

	t.Run("is a no-op when the gift is not in the cart", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		removed, err := svc.RemoveLine(1, g.ID)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("does not touch finalized lines", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.FinalizeCart(1)
		require.NoError(t, err)

		removed, err := svc.RemoveLine(1, g.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		var count int64
		require.NoError(t, db.Model(&CartLine{}).Where("user_id = ?", 1).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestClearDrafts(t *testing.T) {
	svc, db := setupService(t)
	g1 := createGift(t, db, "Tablet", "250.00")
	g2 := createGift(t, db, "Headphones", "90.00")

	_, err := svc.AddLine(1, g1.ID)
	require.NoError(t, err)
	_, err = svc.AddLine(1, g2.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ClearDrafts(1))

	view, err := svc.GetCart(1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.ItemCount)
	assert.True(t, view.TotalAmount.IsZero())
}

func TestFinalizeCart(t *testing.T) {
	t.Run("rejects an empty cart", func(t *testing.T) {
		svc, _ := setupService(t)

		_, err := svc.FinalizeCart(1)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("creates one purchase per line with the price snapshotted", func(t *testing.T) {
		svc, db := setupService(t)
		g1 := createGift(t, db, "Tablet", "250.00")
		g2 := createGift(t, db, "Headphones", "90.50")

		_, err := svc.AddLine(1, g1.ID)
		require.NoError(t, err)
		_, err = svc.AddLine(1, g2.ID)
		require.NoError(t, err)

		pending, err := svc.GetCart(1)
		require.NoError(t, err)
		assert.True(t, pending.TotalAmount.Equal(decimal.RequireFromString("340.50")))

		view, err := svc.FinalizeCart(1)
		require.NoError(t, err)
		assert.Equal(t, 2, view.ItemCount)
		assert.True(t, view.TotalAmount.IsZero())
		for _, item := range view.Items {
			assert.False(t, item.IsDraft)
		}

		var records []purchase.PurchaseRecord
		require.NoError(t, db.Order("gift_id ASC").Find(&records).Error)
		require.Len(t, records, 2)
		assert.True(t, records[0].PricePaid.Equal(decimal.RequireFromString("250.00")))
		assert.True(t, records[1].PricePaid.Equal(decimal.RequireFromString("90.50")))

		// A later catalog price change must not rewrite the ledger
		require.NoError(t, db.Model(g1).Update("price", decimal.RequireFromString("999.00")).Error)
		var r purchase.PurchaseRecord
		require.NoError(t, db.Where("gift_id = ?", g1.ID).First(&r).Error)
		assert.True(t, r.PricePaid.Equal(decimal.RequireFromString("250.00")))
	})

	t.Run("keeps finalized lines visible as history", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.FinalizeCart(1)
		require.NoError(t, err)

		view, err := svc.GetCart(1)
		require.NoError(t, err)
		require.Equal(t, 1, view.ItemCount)
		assert.Equal(t, g.ID, view.Items[0].GiftID)
		assert.False(t, view.Items[0].IsDraft)
		// History contributes nothing to the pending total
		assert.True(t, view.TotalAmount.IsZero())
	})

	t.Run("cannot be finalized twice", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.FinalizeCart(1)
		require.NoError(t, err)

		_, err = svc.FinalizeCart(1)
		assert.True(t, apperr.IsConflict(err))

		var count int64
		require.NoError(t, db.Model(&purchase.PurchaseRecord{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("only finalizes the calling customer's cart", func(t *testing.T) {
		svc, db := setupService(t)
		g := createGift(t, db, "Tablet", "250.00")

		_, err := svc.AddLine(1, g.ID)
		require.NoError(t, err)
		_, err = svc.AddLine(2, g.ID)
		require.NoError(t, err)

		_, err = svc.FinalizeCart(1)
		require.NoError(t, err)

		view, err := svc.GetCart(2)
		require.NoError(t, err)
		assert.Equal(t, 1, view.ItemCount)
		assert.True(t, view.Items[0].IsDraft)
		assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("250.00")))
	})
}
