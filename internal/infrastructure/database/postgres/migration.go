// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/charity-auction-backend/internal/domain/cart"
	"github.com/your-org/charity-auction-backend/internal/domain/donor"
	"github.com/your-org/charity-auction-backend/internal/domain/gift"
	"github.com/your-org/charity-auction-backend/internal/domain/purchase"
	"github.com/your-org/charity-auction-backend/internal/domain/user"
	"github.com/your-org/charity-auction-backend/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: donors before gifts, gifts before cart lines and
	// purchases
	models := []interface{}{
		&user.User{},
		&donor.Donor{},
		&gift.Gift{},
		&cart.CartLine{},
		&purchase.PurchaseRecord{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Gift indexes
		"CREATE INDEX IF NOT EXISTS idx_gifts_category_raffled ON gifts(category, is_raffled)",
		"CREATE INDEX IF NOT EXISTS idx_gifts_donor ON gifts(donor_id)",
		"CREATE INDEX IF NOT EXISTS idx_gifts_price ON gifts(price)",
		"CREATE INDEX IF NOT EXISTS idx_gifts_raffle_date ON gifts(raffle_date DESC)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_user_draft ON cart_lines(user_id, is_draft)",
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_created_at ON cart_lines(created_at DESC)",

		// Purchase ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_purchase_records_gift_time ON purchase_records(gift_id, purchased_at)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_records_user_time ON purchase_records(user_id, purchased_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_records_price ON purchase_records(price_paid DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedManagerUser(); err != nil {
		return fmt.Errorf("failed to seed manager user: %w", err)
	}

	if err := m.seedTestCustomer(); err != nil {
		return fmt.Errorf("failed to seed test customer: %w", err)
	}

	if err := m.seedSampleCatalog(); err != nil {
		return fmt.Errorf("failed to seed sample catalog: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedManagerUser creates the default manager account
func (m *Migration) seedManagerUser() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("role = ?", auth.RoleManager).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Manager123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	manager := user.User{
		Name:     "Auction Manager",
		Email:    "manager@auction.local",
		Password: string(hashed),
		Role:     auth.RoleManager,
	}

	log.Println("👤 Seeding manager user: manager@auction.local")
	return m.db.Create(&manager).Error
}

// seedTestCustomer creates a development customer account
func (m *Migration) seedTestCustomer() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("email = ?", "customer@auction.local").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Customer123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	customer := user.User{
		Name:     "Test Customer",
		Email:    "customer@auction.local",
		Password: string(hashed),
		Role:     auth.RoleCustomer,
	}

	log.Println("👤 Seeding test customer: customer@auction.local")
	return m.db.Create(&customer).Error
}

// seedSampleCatalog creates a starter set of donors and gifts
func (m *Migration) seedSampleCatalog() error {
	var count int64
	if err := m.db.Model(&donor.Donor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	donors := []donor.Donor{
		{Name: "Acme Electronics", Email: "giving@acme.example", Phone: "555-0101"},
		{Name: "Vineyard Estates", Email: "donations@vineyard.example", Phone: "555-0102"},
		{Name: "City Bookstore", Email: "community@citybooks.example", Phone: "555-0103"},
	}
	if err := m.db.Create(&donors).Error; err != nil {
		return err
	}

	gifts := []gift.Gift{
		{Name: "Tablet", Description: "10-inch tablet with case", Category: "Electronics", Price: decimal.RequireFromString("25.00"), DonorID: donors[0].ID},
		{Name: "Noise-Cancelling Headphones", Description: "Over-ear wireless headphones", Category: "Electronics", Price: decimal.RequireFromString("15.00"), DonorID: donors[0].ID},
		{Name: "Wine Tasting for Two", Description: "Guided tasting with cellar tour", Category: "Experiences", Price: decimal.RequireFromString("10.00"), DonorID: donors[1].ID},
		{Name: "Signed Novel Collection", Description: "Five signed first editions", Category: "Books", Price: decimal.RequireFromString("8.50"), DonorID: donors[2].ID},
	}

	log.Printf("🎁 Seeding %d donors and %d gifts", len(donors), len(gifts))
	return m.db.Create(&gifts).Error
}
