package handler

import (
	identityapp "github.com/awestore/backend/internal/application/identity"
	trackingapp "github.com/awestore/backend/internal/application/tracking"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrackingHandler serves shipment timelines. Lookup by tracking number
// is public so a recipient can follow a parcel without signing in.
type TrackingHandler struct {
	customerContext
	trackingService *trackingapp.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(trackingService *trackingapp.TrackingService, customerService *identityapp.CustomerService) *TrackingHandler {
	return &TrackingHandler{
		customerContext: customerContext{customerService: customerService},
		trackingService: trackingService,
	}
}

// ListMine godoc
// @Summary      List the caller's shipments
// @Tags         tracking
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]tracking.TrackingResponse}
// @Security     BearerAuth
// @Router       /tracking [get]
func (h *TrackingHandler) ListMine(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	filter := shared.DefaultFilter()
	var query struct {
		Page     int `form:"page"`
		PageSize int `form:"page_size"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	timelines, err := h.trackingService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, timelines)
}

// GetByOrderID godoc
// @Summary      Get the shipment timeline for an order
// @Tags         tracking
// @Produce      json
// @Param        orderId path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tracking.TrackingResponse}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /tracking/order/{orderId} [get]
func (h *TrackingHandler) GetByOrderID(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	timeline, err := h.trackingService.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if timeline.CustomerID != customerID {
		h.Forbidden(c, "Shipment belongs to another customer")
		return
	}

	h.Success(c, timeline)
}

// GetByOrderNumber godoc
// @Summary      Track a shipment by order number
// @Description  Public lookup, no authentication required
// @Tags         tracking
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=tracking.TrackingResponse}
// @Failure      404 {object} dto.Response
// @Router       /tracking/number/{number} [get]
func (h *TrackingHandler) GetByOrderNumber(c *gin.Context) {
	timeline, err := h.trackingService.GetByOrderNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, timeline)
}

// GetDeliveryEstimate godoc
// @Summary      Forecast delivery for an order number
// @Description  Public lookup, no authentication required
// @Tags         tracking
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} dto.Response{data=tracking.DeliveryEstimateResponse}
// @Failure      404 {object} dto.Response
// @Router       /tracking/estimate/{number} [get]
func (h *TrackingHandler) GetDeliveryEstimate(c *gin.Context) {
	estimate, err := h.trackingService.GetDeliveryEstimate(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, estimate)
}

// AppendEvent godoc
// @Summary      Append a carrier event to a shipment timeline
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        orderId path string true "Order ID" format(uuid)
// @Param        request body tracking.AppendTrackingEventRequest true "Carrier event"
// @Success      200 {object} dto.Response{data=tracking.TrackingResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/tracking/order/{orderId}/events [post]
func (h *TrackingHandler) AppendEvent(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req trackingapp.AppendTrackingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	timeline, err := h.trackingService.AppendEvent(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, timeline)
}

// SetCarrier godoc
// @Summary      Assign the shipping carrier
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        orderId path string true "Order ID" format(uuid)
// @Param        request body tracking.SetCarrierRequest true "Carrier"
// @Success      200 {object} dto.Response{data=tracking.TrackingResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/tracking/order/{orderId}/carrier [put]
func (h *TrackingHandler) SetCarrier(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req trackingapp.SetCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	timeline, err := h.trackingService.SetCarrier(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, timeline)
}
