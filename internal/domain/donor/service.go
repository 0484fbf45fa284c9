// internal/domain/donor/service.go
package donor

import (
	"fmt"

	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Service handles donor management
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new donor service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DonorRequest represents donor create/update data
type DonorRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// ListDonors retrieves all donors ordered by name
func (s *Service) ListDonors() ([]Donor, error) {
	var donors []Donor
	if err := s.db.Order("name ASC").Find(&donors).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve donors: %w", err)
	}
	return donors, nil
}

// GetDonor retrieves a single donor by ID
func (s *Service) GetDonor(id uint) (*Donor, error) {
	var d Donor
	if err := s.db.First(&d, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: donor %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve donor: %w", err)
	}
	return &d, nil
}

// CreateDonor registers a new donor
func (s *Service) CreateDonor(req *DonorRequest) (*Donor, error) {
	d := Donor{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.db.Create(&d).Error; err != nil {
		return nil, fmt.Errorf("failed to create donor: %w", err)
	}
	return &d, nil
}

// UpdateDonor updates a donor's contact details
func (s *Service) UpdateDonor(id uint, req *DonorRequest) (*Donor, error) {
	d, err := s.GetDonor(id)
	if err != nil {
		return nil, err
	}

	d.Name = req.Name
	d.Email = req.Email
	d.Phone = req.Phone
	if err := s.db.Save(d).Error; err != nil {
		return nil, fmt.Errorf("failed to update donor: %w", err)
	}
	return d, nil
}

// DeleteDonor removes a donor that has no gifts in the catalog
func (s *Service) DeleteDonor(id uint) error {
	if _, err := s.GetDonor(id); err != nil {
		return err
	}

	var giftCount int64
	if err := s.db.Table("gifts").Where("donor_id = ?", id).Count(&giftCount).Error; err != nil {
		return fmt.Errorf("failed to count gifts: %w", err)
	}
	if giftCount > 0 {
		return fmt.Errorf("%w: donor %d has gifts and cannot be deleted", apperr.ErrConflict, id)
	}

	if err := s.db.Delete(&Donor{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete donor: %w", err)
	}
	return nil
}
