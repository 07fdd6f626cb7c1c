package invoicing

import (
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const aggregateTypeInvoice = "Invoice"

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string      `json:"invoice_number"`
	InvoiceType   InvoiceType `json:"invoice_type"`
	CustomerID    *uuid.UUID  `json:"customer_id,omitempty"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.created", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		InvoiceType:     invoice.Type,
		CustomerID:      invoice.CustomerID,
	}
}

// InvoiceConfirmedEvent is raised when an invoice is confirmed
type InvoiceConfirmedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceConfirmedEvent creates a new InvoiceConfirmedEvent
func NewInvoiceConfirmedEvent(invoice *Invoice) *InvoiceConfirmedEvent {
	return &InvoiceConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.confirmed", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		TotalAmount:     invoice.TotalAmount,
	}
}

// InvoiceUnconfirmedEvent is raised when a confirmed invoice returns to draft
type InvoiceUnconfirmedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewInvoiceUnconfirmedEvent creates a new InvoiceUnconfirmedEvent
func NewInvoiceUnconfirmedEvent(invoice *Invoice) *InvoiceUnconfirmedEvent {
	return &InvoiceUnconfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.unconfirmed", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason,omitempty"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(invoice *Invoice, reason string) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.cancelled", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		Reason:          reason,
	}
}

// InvoicePaidEvent is raised when the invoice balance reaches zero
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.paid", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		TotalAmount:     invoice.TotalAmount,
	}
}

// InvoicePartiallyPaidEvent is raised when a payment leaves a remaining balance
type InvoicePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber   string          `json:"invoice_number"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// NewInvoicePartiallyPaidEvent creates a new InvoicePartiallyPaidEvent
func NewInvoicePartiallyPaidEvent(invoice *Invoice, paymentAmount decimal.Decimal) *InvoicePartiallyPaidEvent {
	return &InvoicePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.partially_paid", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		PaymentAmount:   paymentAmount,
		RemainingAmount: invoice.RemainingAmount,
	}
}

// InvoicePaymentReversedEvent is raised when an applied payment is reversed
type InvoicePaymentReversedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string          `json:"invoice_number"`
	PaymentID      uuid.UUID       `json:"payment_id"`
	ReversedAmount decimal.Decimal `json:"reversed_amount"`
}

// NewInvoicePaymentReversedEvent creates a new InvoicePaymentReversedEvent
func NewInvoicePaymentReversedEvent(invoice *Invoice, paymentID uuid.UUID, amount decimal.Decimal) *InvoicePaymentReversedEvent {
	return &InvoicePaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.payment_reversed", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		PaymentID:       paymentID,
		ReversedAmount:  amount,
	}
}

// InvoiceRefundedEvent is raised when an invoice is refunded in full
type InvoiceRefundedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber  string          `json:"invoice_number"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Reason         string          `json:"reason,omitempty"`
}

// NewInvoiceRefundedEvent creates a new InvoiceRefundedEvent
func NewInvoiceRefundedEvent(invoice *Invoice, refundedAmount decimal.Decimal, reason string) *InvoiceRefundedEvent {
	return &InvoiceRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("invoice.refunded", aggregateTypeInvoice, invoice.ID, invoice.TenantID),
		InvoiceNumber:   invoice.InvoiceNumber,
		RefundedAmount:  refundedAmount,
		Reason:          reason,
	}
}
