package tracking

import (
	"context"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for tracking record persistence
type Repository interface {
	// FindByOrderID finds the tracking record for an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Record, error)

	// FindByOrderNumber finds the tracking record by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Record, error)

	// FindByCustomer finds all tracking records for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Record, error)

	// Save creates or updates a tracking record with its events
	Save(ctx context.Context, record *Record) error

	// Delete removes the tracking record for an order
	Delete(ctx context.Context, orderID uuid.UUID) error
}
