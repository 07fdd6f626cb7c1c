package catalog

import (
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code           string           `json:"code" binding:"required,min=1,max=50"`
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	Description    string           `json:"description"`
	Unit           string           `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Code           *string          `json:"code"`
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Unit           *string          `json:"unit"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
}

// ProductListFilter defines filtering options for product list queries
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToProductResponse maps a product aggregate to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		UnitPrice:      p.UnitPrice,
		DefaultTaxRate: p.DefaultTaxRate,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}
