package handler

import (
	identityapp "github.com/awestore/backend/internal/application/identity"
	shoppingapp "github.com/awestore/backend/internal/application/shopping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles shopping cart API endpoints. All routes operate
// on the authenticated customer's own cart.
type CartHandler struct {
	customerContext
	cartService *shoppingapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *shoppingapp.CartService, customerService *identityapp.CustomerService) *CartHandler {
	return &CartHandler{
		customerContext: customerContext{customerService: customerService},
		cartService:     cartService,
	}
}

// Get godoc
// @Summary      Get the current cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adding a product already in the cart merges the quantities
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body shopping.AddCartItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req shoppingapp.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateQuantity godoc
// @Summary      Change a cart line's quantity
// @Description  Setting the quantity to zero removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body shopping.UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req shoppingapp.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), customerID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateSelection godoc
// @Summary      Toggle whether a cart line participates in checkout
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Param        request body shopping.UpdateSelectionRequest true "Selection flag"
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Security     BearerAuth
// @Router       /cart/items/{productId}/selection [patch]
func (h *CartHandler) UpdateSelection(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req shoppingapp.UpdateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	cart, err := h.cartService.UpdateSelection(c.Request.Context(), customerID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// SelectAll godoc
// @Summary      Toggle the selection of every cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body shopping.SelectAllRequest true "Selection flag"
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Security     BearerAuth
// @Router       /cart/selection [patch]
func (h *CartHandler) SelectAll(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	var req shoppingapp.SelectAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	cart, err := h.cartService.SelectAll(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), customerID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=shopping.CartResponse}
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.Clear(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}
