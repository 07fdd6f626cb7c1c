package invoicing

import (
	"fmt"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the state of a payment
type PaymentStatus string

const (
	PaymentStatusActive   PaymentStatus = "ACTIVE"
	PaymentStatusReversed PaymentStatus = "REVERSED"
)

// IsValid checks if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusActive || s == PaymentStatusReversed
}

// Payment is an aggregate recording money received from a customer.
// A payment may be applied against an invoice or stand alone as an
// account credit. Payments are never edited after creation; corrections
// go through Reverse.
type Payment struct {
	shared.TenantAggregateRoot
	PaymentNumber  string
	CustomerID     uuid.UUID
	CustomerName   string
	InvoiceID      *uuid.UUID
	InvoiceNumber  string
	Amount         decimal.Decimal
	PaymentDate    time.Time
	Method         PaymentMethod
	Reference      string
	Status         PaymentStatus
	ReversedAt     *time.Time
	ReversalReason string
	Notes          string
}

// NewPayment creates a new active payment
func NewPayment(tenantID uuid.UUID, paymentNumber string, customerID uuid.UUID, customerName string, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, reference string, createdBy *uuid.UUID) (*Payment, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if paymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Payment number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	root := shared.NewTenantAggregateRoot(tenantID)
	root.CreatedBy = createdBy

	payment := &Payment{
		TenantAggregateRoot: root,
		PaymentNumber:       paymentNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Amount:              amount.Round(valueobject.CurrencyScale),
		PaymentDate:         paymentDate,
		Method:              method,
		Reference:           reference,
		Status:              PaymentStatusActive,
	}

	payment.AddDomainEvent(NewPaymentReceivedEvent(payment))
	return payment, nil
}

// AttachToInvoice associates the payment with the invoice it settles
func (p *Payment) AttachToInvoice(invoiceID uuid.UUID, invoiceNumber string) {
	p.InvoiceID = &invoiceID
	p.InvoiceNumber = invoiceNumber
	p.MarkUpdated()
}

// SetNotes updates the free-form notes
func (p *Payment) SetNotes(notes string) {
	p.Notes = notes
	p.MarkUpdated()
}

// Reverse marks the payment as undone. A reversed payment cannot be reversed again.
func (p *Payment) Reverse(reason string) error {
	if p.Status == PaymentStatusReversed {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Payment %s is already reversed", p.PaymentNumber))
	}

	now := time.Now()
	p.Status = PaymentStatusReversed
	p.ReversedAt = &now
	p.ReversalReason = reason
	p.MarkUpdated()
	p.AddDomainEvent(NewPaymentReversedEvent(p, reason))
	return nil
}

// IsActive reports whether the payment is still in effect
func (p *Payment) IsActive() bool {
	return p.Status == PaymentStatusActive
}

// GetAmountMoney returns the payment amount as Money value object
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Amount)
}
