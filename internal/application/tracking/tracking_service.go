package tracking

import (
	"context"
	"time"

	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/tracking"
	"github.com/awestore/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// TrackingService serves the shipment tracking timeline. Records are
// opened and advanced by the order event projection; the service adds
// carrier-side updates on top.
type TrackingService struct {
	trackingRepo tracking.Repository
	now          func() time.Time
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(trackingRepo tracking.Repository) *TrackingService {
	return &TrackingService{
		trackingRepo: trackingRepo,
		now:          time.Now,
	}
}

// GetByOrderID retrieves the shipment timeline for an order
func (s *TrackingService) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*TrackingResponse, error) {
	record, err := s.trackingRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToTrackingResponse(record)
	return &response, nil
}

// GetByOrderNumber retrieves the shipment timeline by order number.
// This is the public lookup used on the storefront tracking page.
func (s *TrackingService) GetByOrderNumber(ctx context.Context, orderNumber string) (*TrackingResponse, error) {
	record, err := s.trackingRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToTrackingResponse(record)
	return &response, nil
}

// ListByCustomer retrieves all shipment timelines for a customer
func (s *TrackingService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]TrackingResponse, error) {
	records, err := s.trackingRepo.FindByCustomer(ctx, customerID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]TrackingResponse, len(records))
	for i := range records {
		responses[i] = ToTrackingResponse(&records[i])
	}
	return responses, nil
}

// GetDeliveryEstimate forecasts delivery for an order number. The
// forecast counts from now, unlike the timeline estimate which counts
// from order placement.
func (s *TrackingService) GetDeliveryEstimate(ctx context.Context, orderNumber string) (*DeliveryEstimateResponse, error) {
	record, err := s.trackingRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	response := ToDeliveryEstimateResponse(record, record.DeliveryEstimate(s.now()))
	return &response, nil
}

// AppendEvent adds a carrier update to the timeline. Repeating the
// current status without a description is a no-op.
func (s *TrackingService) AppendEvent(ctx context.Context, orderID uuid.UUID, req AppendTrackingEventRequest) (*TrackingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "append_event")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, orderID.String(),
		"tracking_status", req.Status,
	)

	status := tracking.TrackingStatus(req.Status)
	if !status.IsValid() {
		err := shared.NewDomainError("INVALID_STATUS", "Unknown tracking status: "+req.Status)
		telemetry.RecordError(span, err)
		return nil, err
	}

	record, err := s.trackingRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := record.AppendStatus(status, req.Description, req.Location); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.trackingRepo.Save(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := ToTrackingResponse(record)
	return &response, nil
}

// SetCarrier assigns the shipping carrier for an order
func (s *TrackingService) SetCarrier(ctx context.Context, orderID uuid.UUID, req SetCarrierRequest) (*TrackingResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "set_carrier")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrCarrier, req.Carrier,
	)

	record, err := s.trackingRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	record.SetCarrier(req.Carrier)

	if err := s.trackingRepo.Save(ctx, record); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := ToTrackingResponse(record)
	return &response, nil
}
