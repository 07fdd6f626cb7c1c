package models

import (
	"github.com/shopspring/decimal"

	"github.com/billing/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	TenantAggregateModel
	Code           string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_code,priority:2"`
	Name           string                `gorm:"type:varchar(200);not null"`
	Description    string                `gorm:"type:text"`
	Unit           string                `gorm:"type:varchar(20);not null"`
	UnitPrice      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	DefaultTaxRate decimal.Decimal       `gorm:"type:decimal(8,4);not null;default:0"`
	Status         catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.ToDomainRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		Unit:                m.Unit,
		UnitPrice:           m.UnitPrice,
		DefaultTaxRate:      m.DefaultTaxRate,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.Unit = p.Unit
	m.UnitPrice = p.UnitPrice
	m.DefaultTaxRate = p.DefaultTaxRate
	m.Status = p.Status
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
