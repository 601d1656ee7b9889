package models

import (
	"github.com/awestore/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for the Customer profile aggregate.
type CustomerModel struct {
	AggregateModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Email      string    `gorm:"type:varchar(200);not null;index"`
	Phone      string    `gorm:"type:varchar(50)"`
	Street     string    `gorm:"type:varchar(200)"`
	City       string    `gorm:"type:varchar(100)"`
	State      string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20)"`
	Country    string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Street:            m.Street,
		City:              m.City,
		State:             m.State,
		PostalCode:        m.PostalCode,
		Country:           m.Country,
	}
}

// FromDomain populates the persistence model from a domain Customer aggregate.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.UserID = c.UserID
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Street = c.Street
	m.City = c.City
	m.State = c.State
	m.PostalCode = c.PostalCode
	m.Country = c.Country
}
