package identity

import (
	"context"

	"github.com/awestore/backend/internal/domain/partner"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService manages storefront customer profiles
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new customer profile service
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// GetProfile retrieves the profile for a login account
func (s *CustomerService) GetProfile(ctx context.Context, userID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ToCustomerResponse(customer), nil
}

// UpdateProfile updates the customer's contact details
func (s *CustomerService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := customer.UpdateProfile(req.Name, req.Phone); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to save customer profile",
			zap.String("customer_id", customer.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	return ToCustomerResponse(customer), nil
}

// SetDefaultAddress sets the customer's default shipping address.
// Checkout pre-fills the shipping form from this address.
func (s *CustomerService) SetDefaultAddress(ctx context.Context, userID uuid.UUID, req SetAddressRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := customer.SetDefaultAddress(req.Street, req.City, req.State, req.PostalCode, req.Country); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to save customer profile",
			zap.String("customer_id", customer.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save address")
	}

	return ToCustomerResponse(customer), nil
}

// ListCustomers returns customer profiles for the admin panel
func (s *CustomerService) ListCustomers(ctx context.Context, page, pageSize int) ([]CustomerResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *ToCustomerResponse(&customers[i]))
	}

	return responses, total, nil
}
