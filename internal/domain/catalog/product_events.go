package catalog

import (
	"github.com/billing/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const aggregateTypeProduct = "Product"

// ProductCreatedEvent is raised when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("product.created", aggregateTypeProduct, product.ID, product.TenantID),
		Code:            product.Code,
		Name:            product.Name,
	}
}

// ProductUpdatedEvent is raised when product details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("product.updated", aggregateTypeProduct, product.ID, product.TenantID),
		Code:            product.Code,
		Name:            product.Name,
	}
}

// ProductPriceChangedEvent is raised when the selling price changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	Code      string          `json:"code"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// NewProductPriceChangedEvent creates a new ProductPriceChangedEvent
func NewProductPriceChangedEvent(product *Product) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("product.price_changed", aggregateTypeProduct, product.ID, product.TenantID),
		Code:            product.Code,
		UnitPrice:       product.UnitPrice,
	}
}
