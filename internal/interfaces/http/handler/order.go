package handler

import (
	identityapp "github.com/awestore/backend/internal/application/identity"
	orderingapp "github.com/awestore/backend/internal/application/ordering"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order API endpoints. Customers operate on their
// own orders; the admin surface sees all of them.
type OrderHandler struct {
	customerContext
	orderService *orderingapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderingapp.OrderService, customerService *identityapp.CustomerService) *OrderHandler {
	return &OrderHandler{
		customerContext: customerContext{customerService: customerService},
		orderService:    orderService,
	}
}

// normalizeOrderFilter applies paging defaults so the response
// envelope reports the same page the query actually used.
func normalizeOrderFilter(filter *orderingapp.OrderListFilter) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
}

// ownsOrder reports whether the order belongs to the resolved customer.
// Admins read arbitrary orders through the admin surface instead.
func ownsOrder(order *orderingapp.OrderResponse, customerID uuid.UUID) bool {
	return order.CustomerID == customerID
}

// Create godoc
// @Summary      Place an order
// @Description  Place an order from the selected cart lines or from an explicit item list
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body ordering.CreateOrderRequest true "Order request"
// @Success      201 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req orderingapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// ListMine godoc
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=dto.ListData}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	normalizeOrderFilter(&filter)

	orders, total, err := h.orderService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ownsOrder(order, customerID) {
		h.Forbidden(c, "Order belongs to another customer")
		return
	}

	h.Success(c, order)
}

// GetByNumber godoc
// @Summary      Get an order by order number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ownsOrder(order, customerID) {
		h.Forbidden(c, "Order belongs to another customer")
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @Summary      Cancel an order
// @Description  Cancel a pending or paid order, restocking its lines
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.CancelOrderRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      403 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !ownsOrder(order, customerID) {
		h.Forbidden(c, "Order belongs to another customer")
		return
	}

	var req orderingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	cancelled, err := h.orderService.Cancel(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cancelled)
}

// List godoc
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Param        search query string false "Search by order number"
// @Param        customer_id query string false "Filter by customer" format(uuid)
// @Param        status query string false "Filter by status"
// @Param        archived query bool false "Filter by archived flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=dto.ListData}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderingapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	normalizeOrderFilter(&filter)

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateStatus godoc
// @Summary      Move an order to a new lifecycle status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderingapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Refund godoc
// @Summary      Refund a paid order
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ordering.CancelOrderRequest true "Refund reason"
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderingapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	order, err := h.orderService.Refund(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Archive godoc
// @Summary      Archive a finished order
// @Tags         admin
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=ordering.OrderResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id}/archive [post]
func (h *OrderHandler) Archive(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.Archive(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an archived order
// @Tags         admin
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// StatusSummary godoc
// @Summary      Order counts per status
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=ordering.OrderStatusSummary}
// @Security     BearerAuth
// @Router       /admin/orders/summary [get]
func (h *OrderHandler) StatusSummary(c *gin.Context) {
	summary, err := h.orderService.GetStatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
