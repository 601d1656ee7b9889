package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer represents a storefront customer profile.
// Login credentials live in the identity context; this aggregate holds
// the shopper-facing data used for checkout and delivery.
type Customer struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID
	Name       string
	Email      string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// NewCustomer creates a new customer profile linked to a login account
func NewCustomer(userID uuid.UUID, name, email string) (*Customer, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if err := validateCustomerEmail(email); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// UpdateProfile updates the customer's contact details
func (c *Customer) UpdateProfile(name, phone string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	c.Name = strings.TrimSpace(name)
	c.Phone = strings.TrimSpace(phone)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetDefaultAddress sets the customer's default shipping address
func (c *Customer) SetDefaultAddress(street, city, state, postalCode, country string) error {
	if street == "" || city == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street and city are required")
	}

	c.Street = street
	c.City = city
	c.State = state
	c.PostalCode = postalCode
	c.Country = country
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// HasDefaultAddress reports whether a usable address is on file
func (c *Customer) HasDefaultAddress() bool {
	return c.Street != "" && c.City != ""
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateCustomerEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
