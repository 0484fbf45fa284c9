// internal/domain/gift/entity.go
package gift

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gift represents a donated auction item. The raffle outcome lives on the
// gift record itself: once IsRaffled flips to true it never flips back.
type Gift struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:200" json:"name"`
	Description string          `gorm:"size:1000" json:"description,omitempty"`
	Category    string          `gorm:"not null;size:100;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageURL    string          `gorm:"size:500" json:"image_url,omitempty"`
	IsRaffled   bool            `gorm:"not null;default:false;index" json:"is_raffled"`
	WinnerID    *uint           `gorm:"index" json:"winner_id,omitempty"`
	RaffleDate  *time.Time      `json:"raffle_date,omitempty"`
	DonorID     uint            `gorm:"not null;index" json:"donor_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Gift) TableName() string {
	return "gifts"
}
