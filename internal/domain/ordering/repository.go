package ordering

import (
	"context"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByCustomer finds all orders for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its lines
	Save(ctx context.Context, order *Order) error

	// Delete hard-deletes an order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCustomer counts orders for a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (int64, error)

	// StatusSummary returns order counts grouped by status
	StatusSummary(ctx context.Context) (map[OrderStatus]int64, error)
}
