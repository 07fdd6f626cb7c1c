package partner

import (
	"time"

	"github.com/billing/backend/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Code             string           `json:"code" binding:"required,min=1,max=50"`
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Type             string           `json:"type" binding:"required,oneof=individual organization"`
	ContactName      string           `json:"contact_name" binding:"max=100"`
	Phone            string           `json:"phone" binding:"max=50"`
	Email            string           `json:"email" binding:"max=200"`
	Address          string           `json:"address" binding:"max=500"`
	City             string           `json:"city" binding:"max=100"`
	PostalCode       string           `json:"postal_code" binding:"max=20"`
	Country          string           `json:"country" binding:"max=100"`
	TaxID            string           `json:"tax_id" binding:"max=50"`
	CreditLimit      *decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays *int             `json:"payment_terms_days"`
	Notes            string           `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Code             *string          `json:"code"`
	Name             *string          `json:"name"`
	ContactName      *string          `json:"contact_name"`
	Phone            *string          `json:"phone"`
	Email            *string          `json:"email"`
	Address          *string          `json:"address"`
	City             *string          `json:"city"`
	PostalCode       *string          `json:"postal_code"`
	Country          *string          `json:"country"`
	TaxID            *string          `json:"tax_id"`
	CreditLimit      *decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays *int             `json:"payment_terms_days"`
	Notes            *string          `json:"notes"`
}

// CustomerListFilter defines filtering options for customer list queries
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Type     string `form:"type"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Status           string          `json:"status"`
	ContactName      string          `json:"contact_name,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Email            string          `json:"email,omitempty"`
	Address          string          `json:"address,omitempty"`
	City             string          `json:"city,omitempty"`
	PostalCode       string          `json:"postal_code,omitempty"`
	Country          string          `json:"country,omitempty"`
	TaxID            string          `json:"tax_id,omitempty"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	PaymentTermsDays int             `json:"payment_terms_days"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// ToCustomerResponse maps a customer aggregate to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		TenantID:         c.TenantID,
		Code:             c.Code,
		Name:             c.Name,
		Type:             string(c.Type),
		Status:           string(c.Status),
		ContactName:      c.ContactName,
		Phone:            c.Phone,
		Email:            c.Email,
		Address:          c.Address,
		City:             c.City,
		PostalCode:       c.PostalCode,
		Country:          c.Country,
		TaxID:            c.TaxID,
		CreditLimit:      c.CreditLimit,
		PaymentTermsDays: c.PaymentTermsDays,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}
