package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence.
// Each customer has at most one cart.
type CartRepository interface {
	// FindByCustomer finds the cart for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart together with its lines
	Save(ctx context.Context, cart *Cart) error

	// Delete removes a customer's cart
	Delete(ctx context.Context, customerID uuid.UUID) error
}
