package identity

import (
	"time"

	"github.com/awestore/backend/internal/domain/identity"
	"github.com/awestore/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// RegisterRequest contains the input for creating a new customer account
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
}

// LoginRequest contains the input for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"` // Client IP for login tracking, set by the handler
}

// RefreshTokenRequest contains the input for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest contains the input for a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateProfileRequest contains the input for updating a customer profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// SetAddressRequest contains the input for setting the default shipping address
type SetAddressRequest struct {
	Street     string `json:"street" binding:"required,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,max=100"`
}

// UserResponse contains account information returned to the client
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResponse contains the token pair and account info for a signed-in user
type LoginResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshTokenResponse contains the refreshed token pair
type RefreshTokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CustomerResponse contains the storefront profile returned to the client
type CustomerResponse struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Street            string    `json:"street,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	PostalCode        string    `json:"postal_code,omitempty"`
	Country           string    `json:"country,omitempty"`
	HasDefaultAddress bool      `json:"has_default_address"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToUserResponse converts a user aggregate to a response DTO
func ToUserResponse(user *identity.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToCustomerResponse converts a customer aggregate to a response DTO
func ToCustomerResponse(customer *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:                customer.ID,
		UserID:            customer.UserID,
		Name:              customer.Name,
		Email:             customer.Email,
		Phone:             customer.Phone,
		Street:            customer.Street,
		City:              customer.City,
		State:             customer.State,
		PostalCode:        customer.PostalCode,
		Country:           customer.Country,
		HasDefaultAddress: customer.HasDefaultAddress(),
		CreatedAt:         customer.CreatedAt,
	}
}
