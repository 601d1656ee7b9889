package dto_test

import (
	"net/http"
	"testing"

	"github.com/awestore/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{"not found", dto.CodeNotFound, http.StatusNotFound},
		{"already exists", dto.CodeAlreadyExists, http.StatusConflict},
		{"invalid input", dto.CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", dto.CodeUnauthorized, http.StatusUnauthorized},
		{"invalid credentials", dto.CodeInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", dto.CodeForbidden, http.StatusForbidden},
		{"account locked", dto.CodeAccountLocked, http.StatusForbidden},
		{"invalid transition", dto.CodeInvalidTransition, http.StatusUnprocessableEntity},
		{"insufficient stock", dto.CodeInsufficientStock, http.StatusUnprocessableEntity},
		{"cart empty", dto.CodeCartEmpty, http.StatusUnprocessableEntity},
		{"rate limited", dto.CodeRateLimited, http.StatusTooManyRequests},
		{"internal", dto.CodeInternal, http.StatusInternalServerError},
		{"unknown code falls back to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
		{"empty code falls back to 500", "", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dto.GetHTTPStatus(tt.code))
		})
	}
}

// Every code the domain layer raises must answer the caller with a 4xx;
// only genuinely internal failures may surface as 500.
func TestGetHTTPStatus_DomainErrorCodes(t *testing.T) {
	wantByCode := map[string]int{
		"PRODUCT_UNAVAILABLE":    http.StatusUnprocessableEntity,
		"NO_ITEMS":               http.StatusBadRequest,
		"CART_EMPTY":             http.StatusUnprocessableEntity,
		"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
		"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
		"INVALID_ADDRESS":        http.StatusBadRequest,
		"INVALID_QUANTITY":       http.StatusBadRequest,
		"INVALID_STATUS":         http.StatusUnprocessableEntity,
		"INVALID_STATE":          http.StatusUnprocessableEntity,
		"INVALID_TRANSITION":     http.StatusUnprocessableEntity,
		"INVALID_NAME":           http.StatusBadRequest,
		"INVALID_EMAIL":          http.StatusBadRequest,
		"INVALID_PASSWORD":       http.StatusBadRequest,
		"INVALID_PHONE":          http.StatusBadRequest,
		"INVALID_DISPLAY_NAME":   http.StatusBadRequest,
		"INVALID_PRICE":          http.StatusBadRequest,
		"INVALID_STOCK":          http.StatusBadRequest,
		"INVALID_SLUG":           http.StatusBadRequest,
		"INVALID_IMAGE":          http.StatusBadRequest,
		"INVALID_PRODUCT":        http.StatusBadRequest,
		"INVALID_PRODUCT_NAME":   http.StatusBadRequest,
		"INVALID_CUSTOMER":       http.StatusBadRequest,
		"INVALID_USER":           http.StatusBadRequest,
		"INVALID_ORDER":          http.StatusBadRequest,
		"INVALID_ORDER_NUMBER":   http.StatusBadRequest,
		"UNSUPPORTED_TYPE":       http.StatusBadRequest,
		"USER_NOT_FOUND":         http.StatusNotFound,
		"ACCOUNT_INACTIVE":       http.StatusForbidden,
		"ACCOUNT_LOCKED":         http.StatusForbidden,
		"ACCOUNT_DEACTIVATED":    http.StatusForbidden,
		"ALREADY_EXISTS":         http.StatusConflict,
		"CONCURRENCY_CONFLICT":   http.StatusConflict,
		"NOT_FOUND":              http.StatusNotFound,
		"FORBIDDEN":              http.StatusForbidden,
		"UNAUTHORIZED":           http.StatusUnauthorized,
		"INVALID_CREDENTIALS":    http.StatusUnauthorized,
		"INVALID_TOKEN":          http.StatusUnauthorized,
		"TOKEN_EXPIRED":          http.StatusUnauthorized,
		"TOKEN_MAX_REFRESH":      http.StatusUnauthorized,
		"TOKEN_ERROR":            http.StatusUnauthorized,
	}

	for code, want := range wantByCode {
		assert.Equal(t, want, dto.GetHTTPStatus(code), "code %s", code)
		assert.Less(t, dto.GetHTTPStatus(code), 500, "code %s must not surface as a server error", code)
	}
}

func TestGetHTTPStatus_UnknownInvalidPrefix(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, dto.GetHTTPStatus("INVALID_SOMETHING_NEW"))
}

func TestNewErrorResponse(t *testing.T) {
	resp := dto.NewErrorResponse(dto.CodeNotFound, "Order not found")

	assert.False(t, resp.Success)
	assert.Equal(t, dto.CodeNotFound, resp.Code)
	assert.Equal(t, "Order not found", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestNewListResponse(t *testing.T) {
	items := []string{"a", "b", "c"}

	resp := dto.NewListResponse(items, 45, 2, 20)

	assert.True(t, resp.Success)
	data, ok := resp.Data.(dto.ListData)
	assert.True(t, ok)
	assert.Equal(t, int64(45), data.Pagination.Total)
	assert.Equal(t, 2, data.Pagination.Page)
	assert.Equal(t, 20, data.Pagination.Size)
	assert.Equal(t, 3, data.Pagination.Pages)
}

func TestNewListResponse_ExactPageBoundary(t *testing.T) {
	resp := dto.NewListResponse([]int{}, 40, 1, 20)

	data := resp.Data.(dto.ListData)
	assert.Equal(t, 2, data.Pagination.Pages)
}

func TestListRequest_Normalize(t *testing.T) {
	var req dto.ListRequest
	req.Normalize()

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.PageSize)

	req = dto.ListRequest{Page: 3, PageSize: 50}
	req.Normalize()
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 50, req.PageSize)
}
