// internal/domain/cart/entity.go
package cart

import "time"

// CartLine represents one gift in a customer's cart. A line starts as a
// draft and is flipped to non-draft when the cart is finalized; finalized
// lines are kept as purchase history and are never deleted. The composite
// unique index enforces at most one line per (customer, gift) in any state.
type CartLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_lines_user_gift" json:"user_id"`
	GiftID    uint      `gorm:"not null;uniqueIndex:idx_cart_lines_user_gift;index" json:"gift_id"`
	IsDraft   bool      `gorm:"not null;default:true;index" json:"is_draft"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartLine) TableName() string {
	return "cart_lines"
}
