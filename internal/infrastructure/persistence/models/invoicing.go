package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billing/backend/internal/domain/invoicing"
)

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber   string                    `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	Type            invoicing.InvoiceType     `gorm:"type:varchar(20);not null;index"`
	Status          invoicing.InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	CustomerID      *uuid.UUID                `gorm:"type:uuid;index"`
	CustomerName    string                    `gorm:"type:varchar(200)"`
	InvoiceDate     time.Time                 `gorm:"not null;index"`
	DueDate         *time.Time                `gorm:"index"`
	Items           []LineItemModel           `gorm:"foreignKey:InvoiceID;references:ID"`
	SubTotal        decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercent decimal.Decimal           `gorm:"type:decimal(8,4);not null;default:0"`
	DiscountAmount  decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount     decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount      decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	RemainingAmount decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod   invoicing.PaymentMethod   `gorm:"type:varchar(20)"`
	PaymentRecords  invoicing.PaymentRecords  `gorm:"type:jsonb"`
	Notes           string                    `gorm:"type:text"`
	ConfirmedAt     *time.Time
	CancelledAt     *time.Time
	RefundedAt      *time.Time
	PaidAt          *time.Time
	CancelReason    string `gorm:"type:text"`
	RefundReason    string `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// LineItemModel is the persistence model for invoice line items.
type LineItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	ProductCode     string          `gorm:"type:varchar(50)"`
	Unit            string          `gorm:"type:varchar(20)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (LineItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	items := make([]invoicing.LineItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = *item.ToDomain()
	}
	return &invoicing.Invoice{
		TenantAggregateRoot: m.ToDomainRoot(),
		InvoiceNumber:       m.InvoiceNumber,
		Type:                m.Type,
		Status:              m.Status,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		InvoiceDate:         m.InvoiceDate,
		DueDate:             m.DueDate,
		Items:               items,
		SubTotal:            m.SubTotal,
		DiscountPercent:     m.DiscountPercent,
		DiscountAmount:      m.DiscountAmount,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		RemainingAmount:     m.RemainingAmount,
		PaymentMethod:       m.PaymentMethod,
		PaymentRecords:      m.PaymentRecords,
		Notes:               m.Notes,
		ConfirmedAt:         m.ConfirmedAt,
		CancelledAt:         m.CancelledAt,
		RefundedAt:          m.RefundedAt,
		PaidAt:              m.PaidAt,
		CancelReason:        m.CancelReason,
		RefundReason:        m.RefundReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainRoot(inv.TenantAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.Type = inv.Type
	m.Status = inv.Status
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.SubTotal = inv.SubTotal
	m.DiscountPercent = inv.DiscountPercent
	m.DiscountAmount = inv.DiscountAmount
	m.TaxAmount = inv.TaxAmount
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.RemainingAmount = inv.RemainingAmount
	m.PaymentMethod = inv.PaymentMethod
	m.PaymentRecords = inv.PaymentRecords
	m.Notes = inv.Notes
	m.ConfirmedAt = inv.ConfirmedAt
	m.CancelledAt = inv.CancelledAt
	m.RefundedAt = inv.RefundedAt
	m.PaidAt = inv.PaidAt
	m.CancelReason = inv.CancelReason
	m.RefundReason = inv.RefundReason

	m.Items = make([]LineItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i].FromDomain(&inv.Items[i])
		m.Items[i].InvoiceID = inv.ID
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *LineItemModel) ToDomain() *invoicing.LineItem {
	return &invoicing.LineItem{
		ID:              m.ID,
		InvoiceID:       m.InvoiceID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		ProductCode:     m.ProductCode,
		Unit:            m.Unit,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		DiscountAmount:  m.DiscountAmount,
		TaxPercent:      m.TaxPercent,
		TaxAmount:       m.TaxAmount,
		LineTotal:       m.LineTotal,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain LineItem.
func (m *LineItemModel) FromDomain(item *invoicing.LineItem) {
	m.ID = item.ID
	m.InvoiceID = item.InvoiceID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.ProductCode = item.ProductCode
	m.Unit = item.Unit
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.DiscountPercent = item.DiscountPercent
	m.DiscountAmount = item.DiscountAmount
	m.TaxPercent = item.TaxPercent
	m.TaxAmount = item.TaxAmount
	m.LineTotal = item.LineTotal
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// PaymentModel is the persistence model for the Payment aggregate.
type PaymentModel struct {
	TenantAggregateModel
	PaymentNumber  string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_tenant_number,priority:2"`
	CustomerID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerName   string                  `gorm:"type:varchar(200)"`
	InvoiceID      *uuid.UUID              `gorm:"type:uuid;index"`
	InvoiceNumber  string                  `gorm:"type:varchar(50)"`
	Amount         decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	PaymentDate    time.Time               `gorm:"not null;index"`
	Method         invoicing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference      string                  `gorm:"type:varchar(100)"`
	Status         invoicing.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	ReversedAt     *time.Time
	ReversalReason string `gorm:"type:text"`
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *invoicing.Payment {
	return &invoicing.Payment{
		TenantAggregateRoot: m.ToDomainRoot(),
		PaymentNumber:       m.PaymentNumber,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		InvoiceID:           m.InvoiceID,
		InvoiceNumber:       m.InvoiceNumber,
		Amount:              m.Amount,
		PaymentDate:         m.PaymentDate,
		Method:              m.Method,
		Reference:           m.Reference,
		Status:              m.Status,
		ReversedAt:          m.ReversedAt,
		ReversalReason:      m.ReversalReason,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *invoicing.Payment) {
	m.FromDomainRoot(p.TenantAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.CustomerID = p.CustomerID
	m.CustomerName = p.CustomerName
	m.InvoiceID = p.InvoiceID
	m.InvoiceNumber = p.InvoiceNumber
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.Reference = p.Reference
	m.Status = p.Status
	m.ReversedAt = p.ReversedAt
	m.ReversalReason = p.ReversalReason
	m.Notes = p.Notes
}

// PaymentModelFromDomain creates a persistence model from a domain Payment.
func PaymentModelFromDomain(p *invoicing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
