// internal/domain/donor/entity.go
package donor

import "time"

// Donor represents a gift donor
type Donor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Email     string    `gorm:"size:100" json:"email,omitempty"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Donor) TableName() string {
	return "donors"
}
