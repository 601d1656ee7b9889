package ordering

import (
	"fmt"
	"time"

	"github.com/awestore/backend/internal/domain/pricing"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends the order lifecycle
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// This table is the only place transition legality is defined; every
// mutating operation goes through it.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled || target == OrderStatusRefunded
	case OrderStatusPaid:
		return target == OrderStatusProcessing || target == OrderStatusCancelled || target == OrderStatusRefunded
	case OrderStatusProcessing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusCompleted
	}
	return false
}

// PaymentMethod represents how the customer pays for an order
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentWeChatPay    PaymentMethod = "wechat_pay"
	PaymentAlipay       PaymentMethod = "alipay"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentPayPal, PaymentWeChatPay, PaymentAlipay, PaymentBankTransfer:
		return true
	}
	return false
}

// ShippingAddress is the destination snapshot stored on the order
type ShippingAddress struct {
	Recipient  string
	Phone      string
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Validate checks the required address fields
func (a ShippingAddress) Validate() error {
	if a.Recipient == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Recipient name is required")
	}
	if a.Street == "" || a.City == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Street and city are required")
	}
	return nil
}

// OrderItem represents a purchased product line.
// Name and price are snapshots taken at checkout.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	LineTotal   decimal.Decimal
	Image       string
}

// NewOrderItem creates a new order line
func NewOrderItem(orderID, productID uuid.UUID, productName, image string, unitPrice decimal.Decimal, quantity int) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	price := unitPrice.Round(2)
	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		UnitPrice:   price,
		Quantity:    quantity,
		LineTotal:   price.Mul(decimal.NewFromInt(int64(quantity))),
		Image:       image,
	}, nil
}

// Order represents a customer order aggregate root.
// It owns the lifecycle from placement to completion.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string
	CustomerID      uuid.UUID
	Items           []OrderItem
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	ShippingFee     decimal.Decimal
	Total           decimal.Decimal
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	DeliveryMethod  pricing.DeliveryMethod
	ShippingAddress ShippingAddress
	Notes           string
	PaidAt          *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string
	Archived        bool
}

// OrderLine is the input for a single order line at placement
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Image       string
}

// NewOrder places a new order. Amounts are computed from the lines with
// the checkout pricing formula; the order starts in pending status.
func NewOrder(orderNumber string, customerID uuid.UUID, lines []OrderLine, address ShippingAddress, paymentMethod PaymentMethod, notes string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unsupported payment method %q", paymentMethod))
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Items:             make([]OrderItem, 0, len(lines)),
		Status:            OrderStatusPending,
		PaymentMethod:     paymentMethod,
		ShippingAddress:   address,
		Notes:             notes,
	}

	subtotal := decimal.Zero
	totalQty := 0
	for _, line := range lines {
		item, err := NewOrderItem(order.ID, line.ProductID, line.ProductName, line.Image, line.UnitPrice, line.Quantity)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		subtotal = subtotal.Add(item.LineTotal)
		totalQty += item.Quantity
	}

	quote := pricing.NewQuote(subtotal)
	order.Subtotal = quote.Subtotal
	order.Tax = quote.Tax
	order.ShippingFee = quote.ShippingFee
	order.Total = quote.Total
	order.DeliveryMethod = pricing.DeliveryMethodFor(totalQty)

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// UpdateStatus moves the order to the target status. All transitions,
// including cancellation and refund, are checked against the status
// machine; milestone timestamps are stamped on the way through.
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	switch target {
	case OrderStatusPaid:
		o.PaidAt = &now
	case OrderStatusShipped:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled, OrderStatusRefunded:
		o.CancelledAt = &now
	}

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// MarkPaid marks the order as paid
func (o *Order) MarkPaid() error {
	return o.UpdateStatus(OrderStatusPaid)
}

// StartProcessing moves a paid order into fulfilment
func (o *Order) StartProcessing() error {
	return o.UpdateStatus(OrderStatusProcessing)
}

// Ship marks the order as shipped
func (o *Order) Ship() error {
	return o.UpdateStatus(OrderStatusShipped)
}

// Deliver marks the order as delivered
func (o *Order) Deliver() error {
	return o.UpdateStatus(OrderStatusDelivered)
}

// Complete closes out a delivered order
func (o *Order) Complete() error {
	return o.UpdateStatus(OrderStatusCompleted)
}

// Cancel cancels the order. Allowed only before fulfilment starts
// (pending or paid); the caller restores stock on success.
func (o *Order) Cancel(reason string) error {
	if err := o.UpdateStatus(OrderStatusCancelled); err != nil {
		return err
	}
	o.CancelReason = reason

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// Refund refunds the order. Same window as cancellation.
func (o *Order) Refund(reason string) error {
	if err := o.UpdateStatus(OrderStatusRefunded); err != nil {
		return err
	}
	o.CancelReason = reason

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// Archive hides the order from regular listings
func (o *Order) Archive() {
	if o.Archived {
		return
	}
	o.Archived = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Unarchive restores the order to regular listings
func (o *Order) Unarchive() {
	if !o.Archived {
		return
	}
	o.Archived = false
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// CanDelete reports whether hard deletion is allowed.
// Only archived or finished orders may be removed.
func (o *Order) CanDelete() bool {
	return o.Archived || o.Status.IsTerminal()
}

// IsTerminal reports whether the order reached a final status
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}
