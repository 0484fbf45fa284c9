package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"github.com/your-org/charity-auction-backend/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{}
	cfg.App.Name = "test"
	cfg.JWT.Secret = "test-secret-key-for-unit-tests"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Security.BcryptCost = bcrypt.MinCost

	return NewService(db, cfg, auth.NewJWTManager(cfg), auth.NewPasswordManager(cfg))
}

func TestRegister(t *testing.T) {
	t.Run("creates a customer and returns a token", func(t *testing.T) {
		svc := setupService(t)

		resp, err := svc.Register(&RegisterRequest{
			Name:     "Alice",
			Email:    "Alice@Example.com",
			Password: "supersecret",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, auth.RoleCustomer, resp.User.Role)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.NotEqual(t, "supersecret", resp.User.Password)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)

		_, err = svc.Register(&RegisterRequest{Name: "Alice Again", Email: "ALICE@example.com", Password: "supersecret"})
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("rejects a short password", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "short"})
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Run("authenticates with the right credentials", func(t *testing.T) {
		svc := setupService(t)
		_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)

		resp, err := svc.Login(&LoginRequest{Email: "Alice@Example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice@example.com", resp.User.Email)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc := setupService(t)
		_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)

		_, err = svc.Login(&LoginRequest{Email: "alice@example.com", Password: "wrongpassword"})
		assert.True(t, apperr.IsUnauthorized(err))
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		svc := setupService(t)

		_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "supersecret"})
		assert.True(t, apperr.IsUnauthorized(err))
	})
}
