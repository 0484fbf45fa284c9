package donor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type giftRow struct {
	ID      uint `gorm:"primaryKey"`
	Name    string
	DonorID uint
}

func (giftRow) TableName() string { return "gifts" }

func setupService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Donor{}, &giftRow{}))
	return NewService(db, &config.Config{}), db
}

func TestDonorCRUD(t *testing.T) {
	svc, _ := setupService(t)

	created, err := svc.CreateDonor(&DonorRequest{Name: "Acme Corp", Email: "giving@acme.example"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := svc.UpdateDonor(created.ID, &DonorRequest{Name: "Acme Corporation"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", updated.Name)

	all, err := svc.ListDonors()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.GetDonor(999)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteDonor(t *testing.T) {
	t.Run("deletes a donor without gifts", func(t *testing.T) {
		svc, _ := setupService(t)
		created, err := svc.CreateDonor(&DonorRequest{Name: "Acme Corp"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteDonor(created.ID))
		_, err = svc.GetDonor(created.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("rejects a donor with gifts in the catalog", func(t *testing.T) {
		svc, db := setupService(t)
		created, err := svc.CreateDonor(&DonorRequest{Name: "Acme Corp"})
		require.NoError(t, err)
		require.NoError(t, db.Create(&giftRow{Name: "Tablet", DonorID: created.ID}).Error)

		err = svc.DeleteDonor(created.ID)
		assert.True(t, apperr.IsConflict(err))
	})
}
