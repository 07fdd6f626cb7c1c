package models

import (
	"github.com/shopspring/decimal"

	"github.com/billing/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate.
type CustomerModel struct {
	TenantAggregateModel
	Code             string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_customer_tenant_code,priority:2"`
	Name             string                 `gorm:"type:varchar(200);not null"`
	Type             partner.CustomerType   `gorm:"type:varchar(20);not null;default:'individual'"`
	Status           partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	ContactName      string                 `gorm:"type:varchar(100)"`
	Phone            string                 `gorm:"type:varchar(50);index"`
	Email            string                 `gorm:"type:varchar(200);index"`
	Address          string                 `gorm:"type:text"`
	City             string                 `gorm:"type:varchar(100)"`
	PostalCode       string                 `gorm:"type:varchar(20)"`
	Country          string                 `gorm:"type:varchar(100)"`
	TaxID            string                 `gorm:"type:varchar(50)"`
	CreditLimit      decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentTermsDays int                    `gorm:"not null;default:0"`
	Notes            string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToDomainRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Type:                m.Type,
		Status:              m.Status,
		ContactName:         m.ContactName,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		City:                m.City,
		PostalCode:          m.PostalCode,
		Country:             m.Country,
		TaxID:               m.TaxID,
		CreditLimit:         m.CreditLimit,
		PaymentTermsDays:    m.PaymentTermsDays,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Type = c.Type
	m.Status = c.Status
	m.ContactName = c.ContactName
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.City = c.City
	m.PostalCode = c.PostalCode
	m.Country = c.Country
	m.TaxID = c.TaxID
	m.CreditLimit = c.CreditLimit
	m.PaymentTermsDays = c.PaymentTermsDays
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
