package ordering

import (
	"context"
	"time"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/shopping"
	"github.com/awestore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// OrderService handles order lifecycle operations
type OrderService struct {
	orderRepo      ordering.OrderRepository
	txScope        TransactionScope
	numbers        *ordering.NumberGenerator
	eventPublisher shared.EventPublisher
	metrics        *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo ordering.OrderRepository, txScope TransactionScope) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		numbers:   ordering.NewNumberGenerator(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics recorder
func (s *OrderService) SetBusinessMetrics(metrics *telemetry.BusinessMetrics) {
	s.metrics = metrics
}

// Create places a new order for a customer. Lines come either from the
// selected cart items or directly from the request; product names and
// prices are always resolved from the catalog. Stock is decremented
// conditionally inside the checkout transaction, so an order either
// reserves every unit it sells or fails without touching anything.
func (s *OrderService) Create(ctx context.Context, customerID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, customerID.String(),
		"from_cart", req.FromCart,
		telemetry.SpanAttrPaymentMethod, req.PaymentMethod,
	)

	paymentMethod := ordering.PaymentMethod(req.PaymentMethod)
	if !paymentMethod.IsValid() {
		err := shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !req.FromCart && len(req.Items) == 0 {
		err := shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
		telemetry.RecordError(span, err)
		return nil, err
	}

	var order *ordering.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var cart *shopping.Cart
		quantities := make(map[uuid.UUID]int)
		productIDs := make([]uuid.UUID, 0)

		if req.FromCart {
			var err error
			cart, err = repos.Carts().FindByCustomer(ctx, customerID)
			if err != nil {
				return err
			}
			selected := cart.SelectedItems()
			if len(selected) == 0 {
				return shared.ErrCartEmpty
			}
			for _, item := range selected {
				quantities[item.ProductID] = item.Quantity
				productIDs = append(productIDs, item.ProductID)
			}
		} else {
			for _, item := range req.Items {
				if item.Quantity < 1 {
					return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
				}
				quantities[item.ProductID] += item.Quantity
				if quantities[item.ProductID] == item.Quantity {
					productIDs = append(productIDs, item.ProductID)
				}
			}
		}

		lines := make([]ordering.OrderLine, 0, len(productIDs))
		for _, productID := range productIDs {
			product, err := repos.Products().FindByID(ctx, productID)
			if err != nil {
				return err
			}
			qty := quantities[productID]
			if !product.IsAvailable {
				return shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product "+product.Name+" is not available")
			}
			if err := repos.Products().DecrementStock(ctx, productID, qty); err != nil {
				return err
			}

			image := ""
			if len(product.Images) > 0 {
				image = product.Images[0]
			}
			lines = append(lines, ordering.OrderLine{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    qty,
				Image:       image,
			})
		}

		var err error
		order, err = ordering.NewOrder(s.numbers.Next(time.Now()), customerID, lines, req.ShippingAddress.toDomain(), paymentMethod, req.Notes)
		if err != nil {
			return err
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		for _, productID := range productIDs {
			if err := repos.Products().IncrementSales(ctx, productID, quantities[productID]); err != nil {
				return err
			}
		}

		if cart != nil {
			cart.RemoveSelected()
			if err := repos.Carts().Save(ctx, cart); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		telemetry.SpanAttrAmount, order.Total,
		"items_count", len(order.Items),
	)
	telemetry.SetOK(span)

	if s.metrics != nil {
		s.metrics.RecordOrderWithAmount(ctx, req.PaymentMethod, order.Total)
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves an order by order number
func (s *OrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := s.buildFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// ListByCustomer retrieves a customer's orders
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := s.buildFilter(filter)

	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// UpdateStatus moves an order to a new lifecycle status through the
// transition gate. Cancellation and refunds must use Cancel/Refund so
// stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrOrderStatus, req.Status,
	)

	target := ordering.OrderStatus(req.Status)
	if target == ordering.OrderStatusCancelled || target == ordering.OrderStatusRefunded {
		err := shared.NewDomainError("INVALID_STATUS", "Use the cancel endpoint to cancel or refund an order")
		telemetry.RecordError(span, err)
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := order.UpdateStatus(target); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(ctx, order.Status.String())
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order and restores the reserved stock.
// Allowed only while the order is pending or paid.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.cancelOrRefund(ctx, orderID, req.Reason, false)
}

// Refund refunds an order and restores the reserved stock
func (s *OrderService) Refund(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	return s.cancelOrRefund(ctx, orderID, req.Reason, true)
}

func (s *OrderService) cancelOrRefund(ctx context.Context, orderID uuid.UUID, reason string, refund bool) (*OrderResponse, error) {
	method := "cancel"
	if refund {
		method = "refund"
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "order", method)
	defer span.End()

	telemetry.SetAttribute(span, telemetry.SpanAttrOrderID, orderID.String())

	var order *ordering.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if refund {
			err = order.Refund(reason)
		} else {
			err = order.Cancel(reason)
		}
		if err != nil {
			return err
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := repos.Products().RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := repos.Products().IncrementSales(ctx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			telemetry.AddEvent(span, "stock_restored",
				telemetry.SpanAttrProductID, item.ProductID.String(),
				telemetry.SpanAttrQuantity, item.Quantity,
			)
		}

		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(ctx, order.Status.String())
	}
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Archive hides an order from regular listings
func (s *OrderService) Archive(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.Archive()
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete hard-deletes an order. Only archived or finished orders
// may be removed. The tracking projection drops its record from the
// deletion event, best effort like every other projection update.
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only archived or finished orders can be deleted")
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, ordering.NewOrderDeletedEvent(order))
	}
	return nil
}

// GetStatusSummary returns order counts grouped by status
func (s *OrderService) GetStatusSummary(ctx context.Context) (*OrderStatusSummary, error) {
	counts, err := s.orderRepo.StatusSummary(ctx)
	if err != nil {
		return nil, err
	}

	summary := &OrderStatusSummary{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		summary.ByStatus[status.String()] = count
		summary.Total += count
	}
	return summary, nil
}

func (s *OrderService) buildFilter(filter OrderListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.Archived != nil {
		domainFilter.Filters["archived"] = *filter.Archived
	}
	if filter.DateFrom != nil {
		domainFilter.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		// the bound is a bare date, cover the whole named day
		domainFilter.Filters["date_to"] = filter.DateTo.AddDate(0, 0, 1)
	}
	return domainFilter
}

// publishEvents hands the order's pending events to the bus.
// Projections such as shipment tracking consume them; failures there
// are logged by the bus and never fail the order operation.
func (s *OrderService) publishEvents(ctx context.Context, order *ordering.Order) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}
