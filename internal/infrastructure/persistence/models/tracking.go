package models

import (
	"time"

	"github.com/awestore/backend/internal/domain/tracking"
	"github.com/google/uuid"
)

// TrackingRecordModel is the persistence model for the shipment
// tracking projection. One record per order.
type TrackingRecordModel struct {
	AggregateModel
	OrderID     uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	OrderNumber string                  `gorm:"type:varchar(20);not null;index"`
	CustomerID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	Status      tracking.TrackingStatus `gorm:"type:varchar(30);not null"`
	Carrier     string                  `gorm:"type:varchar(100)"`
	Events      []TrackingEventModel    `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TrackingRecordModel) TableName() string {
	return "tracking_records"
}

// TrackingEventModel is the persistence model for a tracking timeline entry.
type TrackingEventModel struct {
	ID          uuid.UUID               `gorm:"type:uuid;primary_key"`
	RecordID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	Status      tracking.TrackingStatus `gorm:"type:varchar(30);not null"`
	Description string                  `gorm:"type:varchar(500)"`
	Location    string                  `gorm:"type:varchar(200)"`
	OccurredAt  time.Time               `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TrackingEventModel) TableName() string {
	return "tracking_events"
}

// ToDomain converts the persistence model to a domain tracking Record.
func (m *TrackingRecordModel) ToDomain() *tracking.Record {
	events := make([]tracking.TrackingEvent, 0, len(m.Events))
	for _, event := range m.Events {
		events = append(events, tracking.TrackingEvent{
			ID:          event.ID,
			RecordID:    event.RecordID,
			Status:      event.Status,
			Description: event.Description,
			Location:    event.Location,
			OccurredAt:  event.OccurredAt,
		})
	}

	return &tracking.Record{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Carrier:           m.Carrier,
		Events:            events,
	}
}

// FromDomain populates the persistence model from a domain tracking Record.
func (m *TrackingRecordModel) FromDomain(r *tracking.Record) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OrderID = r.OrderID
	m.OrderNumber = r.OrderNumber
	m.CustomerID = r.CustomerID
	m.Status = r.Status
	m.Carrier = r.Carrier

	m.Events = make([]TrackingEventModel, 0, len(r.Events))
	for _, event := range r.Events {
		m.Events = append(m.Events, TrackingEventModel{
			ID:          event.ID,
			RecordID:    event.RecordID,
			Status:      event.Status,
			Description: event.Description,
			Location:    event.Location,
			OccurredAt:  event.OccurredAt,
		})
	}
}
