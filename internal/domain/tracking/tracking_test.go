package tracking

import (
	"testing"
	"time"

	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(t *testing.T) *Record {
	t.Helper()
	record, err := NewRecord(uuid.New(), "AWE2504170001", uuid.New())
	require.NoError(t, err)
	return record
}

func TestNewRecord(t *testing.T) {
	t.Run("opens with order_created and one event", func(t *testing.T) {
		record := newTestRecord(t)
		assert.Equal(t, StatusOrderCreated, record.Status)
		require.Len(t, record.Events, 1)
		assert.Equal(t, StatusOrderCreated, record.Events[0].Status)
	})

	t.Run("requires order id and number", func(t *testing.T) {
		_, err := NewRecord(uuid.Nil, "AWE2504170001", uuid.New())
		require.Error(t, err)

		_, err = NewRecord(uuid.New(), "", uuid.New())
		require.Error(t, err)
	})
}

func TestStatusForOrder(t *testing.T) {
	tests := []struct {
		order ordering.OrderStatus
		want  TrackingStatus
	}{
		{ordering.OrderStatusPending, StatusOrderCreated},
		{ordering.OrderStatusPaid, StatusPaymentReceived},
		{ordering.OrderStatusProcessing, StatusProcessing},
		{ordering.OrderStatusShipped, StatusShipped},
		{ordering.OrderStatusDelivered, StatusDelivered},
		{ordering.OrderStatusCompleted, StatusDelivered},
		{ordering.OrderStatusCancelled, StatusCancelled},
		{ordering.OrderStatusRefunded, StatusRefunded},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForOrder(tt.order))
		})
	}
}

func TestAppendStatus(t *testing.T) {
	t.Run("appends event and advances status", func(t *testing.T) {
		record := newTestRecord(t)

		require.NoError(t, record.AppendStatus(StatusPaymentReceived, "Payment received", ""))
		assert.Equal(t, StatusPaymentReceived, record.Status)
		assert.Len(t, record.Events, 2)

		latest := record.LatestEvent()
		require.NotNil(t, latest)
		assert.Equal(t, StatusPaymentReceived, latest.Status)
	})

	t.Run("repeating current status without description is a no-op", func(t *testing.T) {
		record := newTestRecord(t)
		require.NoError(t, record.AppendStatus(StatusOrderCreated, "", ""))
		assert.Len(t, record.Events, 1)
	})

	t.Run("repeating current status with description appends", func(t *testing.T) {
		record := newTestRecord(t)
		require.NoError(t, record.AppendStatus(StatusOrderCreated, "Customs check", "Sydney"))
		assert.Len(t, record.Events, 2)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		record := newTestRecord(t)
		require.Error(t, record.AppendStatus("teleported", "", ""))
	})
}

func TestProgressMonotonicOnHappyPath(t *testing.T) {
	ladder := []TrackingStatus{
		StatusOrderCreated, StatusPaymentReceived, StatusOrderConfirmed, StatusProcessing,
		StatusPacked, StatusShipped, StatusInTransit, StatusOutForDelivery, StatusDelivered,
	}

	record := newTestRecord(t)
	previous := -1
	for _, status := range ladder {
		require.NoError(t, record.AppendStatus(status, "", ""))
		current := record.Progress()
		assert.Greater(t, current, previous, "progress must increase at %s", status)
		previous = current
	}
	assert.Equal(t, 100, record.Progress())
}

func TestProgressForTerminalFailures(t *testing.T) {
	assert.Equal(t, 0, StatusCancelled.Progress())
	assert.Equal(t, 0, StatusRefunded.Progress())
}

func TestEstimatedDelivery(t *testing.T) {
	placed := time.Date(2025, 4, 17, 9, 0, 0, 0, time.UTC)

	t.Run("offsets count from order placement and shrink along the timeline", func(t *testing.T) {
		tests := []struct {
			status TrackingStatus
			want   time.Duration
		}{
			{StatusOrderCreated, 7 * 24 * time.Hour},
			{StatusPaymentReceived, 6 * 24 * time.Hour},
			{StatusOrderConfirmed, 5 * 24 * time.Hour},
			{StatusProcessing, 4 * 24 * time.Hour},
			{StatusPacked, 3 * 24 * time.Hour},
			{StatusShipped, 2 * 24 * time.Hour},
			{StatusInTransit, 24 * time.Hour},
			{StatusOutForDelivery, 12 * time.Hour},
		}
		for _, tt := range tests {
			record := newTestRecord(t)
			record.CreatedAt = placed
			record.Status = tt.status
			estimate := record.EstimatedDelivery()
			require.NotNil(t, estimate, "status %s", tt.status)
			assert.Equal(t, placed.Add(tt.want), *estimate, "status %s", tt.status)
		}
	})

	t.Run("nil for terminal statuses", func(t *testing.T) {
		for _, status := range []TrackingStatus{StatusDelivered, StatusCancelled, StatusRefunded} {
			record := newTestRecord(t)
			record.Status = status
			assert.Nil(t, record.EstimatedDelivery(), "status %s", status)
		}
	})
}

func TestDeliveryEstimate(t *testing.T) {
	now := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		status     TrackingStatus
		wantDays   int
		wantMethod pricing.DeliveryMethod
	}{
		{StatusOrderCreated, 7, pricing.DeliveryStandard},
		{StatusPaymentReceived, 6, pricing.DeliveryStandard},
		{StatusProcessing, 4, pricing.DeliveryStandard},
		{StatusPacked, 3, pricing.DeliveryFast},
		{StatusShipped, 2, pricing.DeliveryFast},
		{StatusInTransit, 1, pricing.DeliveryExpedited},
		{StatusOutForDelivery, 0, pricing.DeliveryExpedited},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			record := newTestRecord(t)
			record.Status = tt.status

			estimate := record.DeliveryEstimate(now)

			assert.Equal(t, tt.wantDays, estimate.Days)
			assert.Equal(t, tt.wantMethod, estimate.Method)
			assert.True(t, estimate.Date.After(now))
		})
	}

	t.Run("statuses off the ladder fall back to the full window", func(t *testing.T) {
		record := newTestRecord(t)
		record.Status = StatusDelivered

		estimate := record.DeliveryEstimate(now)

		assert.Equal(t, 7, estimate.Days)
		assert.Equal(t, pricing.DeliveryStandard, estimate.Method)
	})
}
