package invoicing

import (
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const aggregateTypePayment = "Payment"

// PaymentReceivedEvent is raised when a payment is recorded
type PaymentReceivedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
}

// NewPaymentReceivedEvent creates a new PaymentReceivedEvent
func NewPaymentReceivedEvent(payment *Payment) *PaymentReceivedEvent {
	return &PaymentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.received", aggregateTypePayment, payment.ID, payment.TenantID),
		PaymentNumber:   payment.PaymentNumber,
		CustomerID:      payment.CustomerID,
		Amount:          payment.Amount,
		Method:          payment.Method,
	}
}

// PaymentReversedEvent is raised when a payment is undone
type PaymentReversedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason,omitempty"`
}

// NewPaymentReversedEvent creates a new PaymentReversedEvent
func NewPaymentReversedEvent(payment *Payment, reason string) *PaymentReversedEvent {
	return &PaymentReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("payment.reversed", aggregateTypePayment, payment.ID, payment.TenantID),
		PaymentNumber:   payment.PaymentNumber,
		Amount:          payment.Amount,
		Reason:          reason,
	}
}
