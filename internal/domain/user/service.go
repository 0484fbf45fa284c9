// internal/domain/user/service.go
package user

import (
	"fmt"
	"strings"

	"github.com/your-org/charity-auction-backend/internal/config"
	"github.com/your-org/charity-auction-backend/internal/pkg/apperr"
	"github.com/your-org/charity-auction-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user registration and authentication
type Service struct {
	db         *gorm.DB
	config     *config.Config
	jwtManager *auth.JWTManager
	pwdManager *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, jwtManager *auth.JWTManager, pwdManager *auth.PasswordManager) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		jwtManager: jwtManager,
		pwdManager: pwdManager,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Register creates a customer account and signs them in
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := s.pwdManager.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}

	email := strings.ToLower(req.Email)
	var existing User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", apperr.ErrConflict, email)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := s.pwdManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Name:     req.Name,
		Email:    email,
		Phone:    req.Phone,
		Password: hashed,
		Role:     auth.RoleCustomer,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(&u)
}

// Login authenticates a user by email and password
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.pwdManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthorized)
	}

	return s.authResponse(&u)
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &u, nil
}

func (s *Service) authResponse(u *User) (*AuthResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: u, Token: token}, nil
}
