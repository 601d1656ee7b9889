package models

import (
	"encoding/json"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
// Specifications and images are stored as jsonb documents.
type ProductModel struct {
	AggregateModel
	Name           string          `gorm:"type:varchar(200);not null;index"`
	Description    string          `gorm:"type:text"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Category       string          `gorm:"type:varchar(100);index"`
	Brand          string          `gorm:"type:varchar(100);index"`
	Model          string          `gorm:"type:varchar(100)"`
	Specifications string          `gorm:"type:jsonb;not null;default:'{}'"`
	Images         string          `gorm:"type:jsonb;not null;default:'[]'"`
	StockQuantity  int             `gorm:"not null;default:0"`
	IsAvailable    bool            `gorm:"not null;default:true;index"`
	ViewsCount     int64           `gorm:"not null;default:0"`
	SalesCount     int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product aggregate.
func (m *ProductModel) ToDomain() *catalog.Product {
	specs := make(map[string]string)
	if m.Specifications != "" {
		// Corrupt documents degrade to empty rather than failing the read
		_ = json.Unmarshal([]byte(m.Specifications), &specs)
	}
	images := make([]string, 0)
	if m.Images != "" {
		_ = json.Unmarshal([]byte(m.Images), &images)
	}

	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		Category:          m.Category,
		Brand:             m.Brand,
		Model:             m.Model,
		Specifications:    specs,
		Images:            images,
		StockQuantity:     m.StockQuantity,
		IsAvailable:       m.IsAvailable,
		ViewsCount:        m.ViewsCount,
		SalesCount:        m.SalesCount,
	}
}

// FromDomain populates the persistence model from a domain Product aggregate.
func (m *ProductModel) FromDomain(p *catalog.Product) error {
	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return err
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return err
	}

	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.Category = p.Category
	m.Brand = p.Brand
	m.Model = p.Model
	m.Specifications = string(specs)
	m.Images = string(imagesJSON)
	m.StockQuantity = p.StockQuantity
	m.IsAvailable = p.IsAvailable
	m.ViewsCount = p.ViewsCount
	m.SalesCount = p.SalesCount

	return nil
}

// CategoryModel is the persistence model for the Category aggregate.
type CategoryModel struct {
	AggregateModel
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category aggregate.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Slug:              m.Slug,
		Name:              m.Name,
		Description:       m.Description,
		SortOrder:         m.SortOrder,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Category aggregate.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Slug = c.Slug
	m.Name = c.Name
	m.Description = c.Description
	m.SortOrder = c.SortOrder
	m.Active = c.Active
}
