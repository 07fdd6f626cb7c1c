package catalog

import (
	"strings"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is the aggregate root for billable items. Invoice lines take a
// snapshot of name, code, unit and price when the line is created; later
// product edits do not touch existing invoices.
type Product struct {
	shared.TenantAggregateRoot
	Code           string
	Name           string
	Description    string
	Unit           string // e.g. "pcs", "kg", "hour"
	UnitPrice      decimal.Decimal
	DefaultTaxRate decimal.Decimal // percent in [0, 100]
	Status         ProductStatus
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, code, name, unit string, unitPrice decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Unit:                unit,
		UnitPrice:           unitPrice,
		DefaultTaxRate:      decimal.Zero,
		Status:              ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.MarkUpdated()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// UpdateCode updates the product's code.
// Existing invoice lines keep the snapshot of the previous code.
func (p *Product) UpdateCode(code string) error {
	if err := validateProductCode(code); err != nil {
		return err
	}

	p.Code = strings.ToUpper(code)
	p.MarkUpdated()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetPrice sets the selling price per unit
func (p *Product) SetPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.UnitPrice = unitPrice
	p.MarkUpdated()
	p.AddDomainEvent(NewProductPriceChangedEvent(p))
	return nil
}

// SetDefaultTaxRate sets the tax percentage applied by default on new lines
func (p *Product) SetDefaultTaxRate(rate decimal.Decimal) error {
	if _, err := valueobject.NewPercent(rate); err != nil {
		return shared.NewDomainError("INVALID_PERCENT", "Tax rate must be between 0 and 100")
	}

	p.DefaultTaxRate = rate
	p.MarkUpdated()
	return nil
}

// SetUnit changes the unit of measure
func (p *Product) SetUnit(unit string) error {
	if err := validateUnit(unit); err != nil {
		return err
	}

	p.Unit = unit
	p.MarkUpdated()
	return nil
}

// Activate makes the product billable again
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.MarkUpdated()
	return nil
}

// Deactivate removes the product from new invoices
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.MarkUpdated()
	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetUnitPriceMoney returns the unit price as Money value object
func (p *Product) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.UnitPrice)
}

// Validation functions

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
