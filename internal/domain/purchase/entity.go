// internal/domain/purchase/entity.go
package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRecord is one finalized sale. Records are append-only: the price
// is snapshotted from the catalog at finalize time and is never recomputed,
// and no operation in this service updates or deletes a record.
type PurchaseRecord struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	GiftID      uint            `gorm:"not null;index" json:"gift_id"`
	PricePaid   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_paid"`
	PurchasedAt time.Time       `gorm:"not null;index" json:"purchased_at"`
}

// TableName overrides the table name
func (PurchaseRecord) TableName() string {
	return "purchase_records"
}
