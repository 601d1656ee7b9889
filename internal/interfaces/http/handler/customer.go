package handler

import (
	"strconv"

	identityapp "github.com/awestore/backend/internal/application/identity"
	"github.com/awestore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CustomerHandler serves the caller's customer profile plus the admin
// customer directory.
type CustomerHandler struct {
	BaseHandler
	customerService *identityapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *identityapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetProfile godoc
// @Summary      Get the caller's customer profile
// @Tags         customers
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.CustomerResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/me [get]
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.ErrorWithCode(c, dto.CodeUnauthorized, "Authentication required")
		return
	}

	profile, err := h.customerService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UpdateProfile godoc
// @Summary      Update the caller's customer profile
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=identity.CustomerResponse}
// @Security     BearerAuth
// @Router       /customers/me [put]
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.ErrorWithCode(c, dto.CodeUnauthorized, "Authentication required")
		return
	}

	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	profile, err := h.customerService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// SetDefaultAddress godoc
// @Summary      Set the caller's default shipping address
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body identity.SetAddressRequest true "Address"
// @Success      200 {object} dto.Response{data=identity.CustomerResponse}
// @Security     BearerAuth
// @Router       /customers/me/address [put]
func (h *CustomerHandler) SetDefaultAddress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.ErrorWithCode(c, dto.CodeUnauthorized, "Authentication required")
		return
	}

	var req identityapp.SetAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	profile, err := h.customerService.SetDefaultAddress(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// List godoc
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=dto.ListData}
// @Security     BearerAuth
// @Router       /admin/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Paginated(c, customers, total, page, pageSize)
}
