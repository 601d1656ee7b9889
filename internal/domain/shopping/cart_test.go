package shopping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	cart, err := NewCart(uuid.New())
	require.NoError(t, err)
	return cart
}

func TestNewCart(t *testing.T) {
	t.Run("creates empty cart", func(t *testing.T) {
		cart := newTestCart(t)
		assert.True(t, cart.IsEmpty())
		assert.NotEmpty(t, cart.ID)
	})

	t.Run("fails without customer", func(t *testing.T) {
		_, err := NewCart(uuid.Nil)
		require.Error(t, err)
	})
}

func TestCartAddItem(t *testing.T) {
	productID := uuid.New()

	t.Run("adds new line selected by default", func(t *testing.T) {
		cart := newTestCart(t)
		err := cart.AddItem(productID, "USB-C Cable", "cable.jpg", decimal.NewFromFloat(12.50), 2)
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		item := cart.Items[0]
		assert.Equal(t, 2, item.Quantity)
		assert.True(t, item.Selected)
		assert.Equal(t, "25", item.LineTotal().String())
	})

	t.Run("merges quantity for same product", func(t *testing.T) {
		cart := newTestCart(t)
		require.NoError(t, cart.AddItem(productID, "USB-C Cable", "", decimal.NewFromInt(12), 2))
		require.NoError(t, cart.AddItem(productID, "USB-C Cable", "", decimal.NewFromInt(12), 3))

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		cart := newTestCart(t)
		err := cart.AddItem(productID, "USB-C Cable", "", decimal.NewFromInt(12), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 1")
	})

	t.Run("rejects empty product id", func(t *testing.T) {
		cart := newTestCart(t)
		err := cart.AddItem(uuid.Nil, "x", "", decimal.NewFromInt(1), 1)
		require.Error(t, err)
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	productID := uuid.New()

	t.Run("updates quantity", func(t *testing.T) {
		cart := newTestCart(t)
		require.NoError(t, cart.AddItem(productID, "Mouse", "", decimal.NewFromInt(30), 1))

		require.NoError(t, cart.UpdateQuantity(productID, 4))
		assert.Equal(t, 4, cart.Items[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		cart := newTestCart(t)
		require.NoError(t, cart.AddItem(productID, "Mouse", "", decimal.NewFromInt(30), 1))

		require.NoError(t, cart.UpdateQuantity(productID, 0))
		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown product returns not found", func(t *testing.T) {
		cart := newTestCart(t)
		err := cart.UpdateQuantity(uuid.New(), 2)
		assert.Error(t, err)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		cart := newTestCart(t)
		require.NoError(t, cart.AddItem(productID, "Mouse", "", decimal.NewFromInt(30), 1))
		assert.Error(t, cart.UpdateQuantity(productID, -1))
	})
}

func TestCartSelection(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(first, "Keyboard", "", decimal.NewFromInt(60), 1))
	require.NoError(t, cart.AddItem(second, "Mousepad", "", decimal.NewFromInt(15), 1))

	require.NoError(t, cart.UpdateSelection(second, false))
	selected := cart.SelectedItems()
	require.Len(t, selected, 1)
	assert.Equal(t, first, selected[0].ProductID)

	cart.SelectAll(false)
	assert.Empty(t, cart.SelectedItems())

	cart.SelectAll(true)
	assert.Len(t, cart.SelectedItems(), 2)

	assert.Error(t, cart.UpdateSelection(uuid.New(), true))
}

func TestCartRemoveAndClear(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(first, "Keyboard", "", decimal.NewFromInt(60), 1))
	require.NoError(t, cart.AddItem(second, "Mousepad", "", decimal.NewFromInt(15), 2))

	require.NoError(t, cart.RemoveItem(first))
	assert.Len(t, cart.Items, 1)
	assert.Error(t, cart.RemoveItem(first))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

func TestCartRemoveSelected(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	cart := newTestCart(t)
	require.NoError(t, cart.AddItem(first, "Keyboard", "", decimal.NewFromInt(60), 1))
	require.NoError(t, cart.AddItem(second, "Mousepad", "", decimal.NewFromInt(15), 2))
	require.NoError(t, cart.UpdateSelection(second, false))

	cart.RemoveSelected()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, second, cart.Items[0].ProductID)
}

func TestCartSummary(t *testing.T) {
	t.Run("prices only selected lines", func(t *testing.T) {
		cart := newTestCart(t)
		require.NoError(t, cart.AddItem(uuid.New(), "Keyboard", "", decimal.NewFromInt(60), 1))
		require.NoError(t, cart.AddItem(uuid.New(), "Headset", "", decimal.NewFromInt(20), 1))
		excluded := uuid.New()
		require.NoError(t, cart.AddItem(excluded, "Monitor", "", decimal.NewFromInt(300), 1))
		require.NoError(t, cart.UpdateSelection(excluded, false))

		summary := cart.Summary()
		assert.Equal(t, 3, summary.TotalItems)
		assert.Equal(t, 2, summary.SelectedItems)
		assert.Equal(t, "80", summary.Subtotal.String())
		assert.Equal(t, "6.4", summary.Tax.String())
		assert.Equal(t, "10", summary.ShippingFee.String())
		assert.Equal(t, "96.4", summary.Total.String())
	})

	t.Run("free shipping over threshold", func(t *testing.T) {
		cart := newTestCart(t)
		require.NoError(t, cart.AddItem(uuid.New(), "Monitor", "", decimal.NewFromInt(300), 1))

		summary := cart.Summary()
		assert.Equal(t, "0", summary.ShippingFee.String())
		assert.Equal(t, "324", summary.Total.String())
	})

	t.Run("empty cart sums to shipping only", func(t *testing.T) {
		cart := newTestCart(t)
		summary := cart.Summary()
		assert.Equal(t, "0", summary.Subtotal.String())
	})
}
