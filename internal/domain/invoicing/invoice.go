package invoicing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes the three document kinds handled by the billing module
type InvoiceType string

const (
	InvoiceTypeSales       InvoiceType = "SALES"
	InvoiceTypeSalesReturn InvoiceType = "SALES_RETURN"
	InvoiceTypeQuotation   InvoiceType = "QUOTATION"
)

// IsValid checks if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeSales, InvoiceTypeSalesReturn, InvoiceTypeQuotation:
		return true
	}
	return false
}

// NumberPrefix returns the document number prefix for this type
func (t InvoiceType) NumberPrefix() string {
	switch t {
	case InvoiceTypeSalesReturn:
		return "RET"
	case InvoiceTypeQuotation:
		return "QTE"
	default:
		return "INV"
	}
}

// AcceptsPayments reports whether documents of this type can receive payments.
// Quotations are offers, not receivables.
func (t InvoiceType) AcceptsPayments() bool {
	return t != InvoiceTypeQuotation
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft       InvoiceStatus = "DRAFT"
	InvoiceStatusConfirmed   InvoiceStatus = "CONFIRMED"
	InvoiceStatusPartialPaid InvoiceStatus = "PARTIAL_PAID"
	InvoiceStatusPaid        InvoiceStatus = "PAID"
	InvoiceStatusCancelled   InvoiceStatus = "CANCELLED"
	InvoiceStatusRefunded    InvoiceStatus = "REFUNDED"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusConfirmed, InvoiceStatusPartialPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from this status
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled || s == InvoiceStatusRefunded
}

// CanTransitionTo checks if transition to target status is allowed
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	transitions := map[InvoiceStatus][]InvoiceStatus{
		InvoiceStatusDraft:       {InvoiceStatusConfirmed, InvoiceStatusCancelled},
		InvoiceStatusConfirmed:   {InvoiceStatusDraft, InvoiceStatusPartialPaid, InvoiceStatusPaid, InvoiceStatusCancelled},
		InvoiceStatusPartialPaid: {InvoiceStatusConfirmed, InvoiceStatusPaid, InvoiceStatusRefunded},
		InvoiceStatusPaid:        {InvoiceStatusPartialPaid, InvoiceStatusRefunded},
		InvoiceStatusCancelled:   {},
		InvoiceStatusRefunded:    {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck,
		PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentRecordStatus marks whether an applied payment is still in effect
type PaymentRecordStatus string

const (
	PaymentRecordStatusActive   PaymentRecordStatus = "ACTIVE"
	PaymentRecordStatusReversed PaymentRecordStatus = "REVERSED"
)

// PaymentRecord captures one payment applied against the invoice
type PaymentRecord struct {
	ID         uuid.UUID           `json:"id"`
	PaymentID  uuid.UUID           `json:"payment_id"`
	Amount     decimal.Decimal     `json:"amount"`
	Method     PaymentMethod       `json:"method"`
	Reference  string              `json:"reference,omitempty"`
	Status     PaymentRecordStatus `json:"status"`
	AppliedAt  time.Time           `json:"applied_at"`
	ReversedAt *time.Time          `json:"reversed_at,omitempty"`
}

// PaymentRecords is stored as a JSONB column
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for database storage
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentRecords", value)
	}
	if len(data) == 0 {
		*p = PaymentRecords{}
		return nil
	}
	return json.Unmarshal(data, p)
}

// Invoice is the aggregate root of the billing module. It owns its line items
// and the record of payments applied against it. All monetary fields are
// derived by recalculateTotals and must not be set directly.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber   string
	Type            InvoiceType
	Status          InvoiceStatus
	CustomerID      *uuid.UUID
	CustomerName    string
	InvoiceDate     time.Time
	DueDate         *time.Time
	Items           []LineItem
	SubTotal        decimal.Decimal // sum of line totals
	DiscountPercent decimal.Decimal // invoice-level discount, authoritative when nonzero
	DiscountAmount  decimal.Decimal // resolved invoice-level discount
	TaxAmount       decimal.Decimal // sum of line taxes, informational
	TotalAmount     decimal.Decimal // subtotal minus invoice discount
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	PaymentMethod   PaymentMethod // default method for payments on this invoice
	PaymentRecords  PaymentRecords
	Notes           string
	ConfirmedAt     *time.Time
	CancelledAt     *time.Time
	RefundedAt      *time.Time
	PaidAt          *time.Time
	CancelReason    string
	RefundReason    string
}

// NewInvoice creates a new draft invoice
func NewInvoice(tenantID uuid.UUID, invoiceNumber string, invoiceType InvoiceType, customerID *uuid.UUID, customerName string, invoiceDate time.Time, createdBy *uuid.UUID) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid invoice type")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	root := shared.NewTenantAggregateRoot(tenantID)
	root.CreatedBy = createdBy

	invoice := &Invoice{
		TenantAggregateRoot: root,
		InvoiceNumber:       invoiceNumber,
		Type:                invoiceType,
		Status:              InvoiceStatusDraft,
		CustomerID:          customerID,
		CustomerName:        customerName,
		InvoiceDate:         invoiceDate,
		Items:               []LineItem{},
		SubTotal:            decimal.Zero,
		DiscountPercent:     decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
		PaidAmount:          decimal.Zero,
		RemainingAmount:     decimal.Zero,
		PaymentMethod:       PaymentMethodBankTransfer,
		PaymentRecords:      PaymentRecords{},
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))
	return invoice, nil
}

// AddItem adds a line item to a draft invoice
func (i *Invoice) AddItem(productID uuid.UUID, productName, productCode, unit string, quantity, unitPrice, discountPercent, discountAmount, taxPercent decimal.Decimal) (*LineItem, error) {
	if i.Status != InvoiceStatusDraft {
		return nil, shared.ErrInvalidState.WithMessage("Items can only be added to a draft invoice")
	}

	item, err := NewLineItem(i.ID, productID, productName, productCode, unit, quantity, unitPrice, discountPercent, discountAmount, taxPercent)
	if err != nil {
		return nil, err
	}

	i.Items = append(i.Items, *item)
	if err := i.recalculateTotals(); err != nil {
		i.Items = i.Items[:len(i.Items)-1]
		return nil, err
	}
	i.MarkUpdated()
	return item, nil
}

// UpdateItem modifies an existing line item on a draft invoice
func (i *Invoice) UpdateItem(itemID uuid.UUID, quantity, unitPrice, discountPercent, discountAmount, taxPercent decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState.WithMessage("Items can only be updated on a draft invoice")
	}

	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			prev := i.Items[idx]
			if err := i.Items[idx].Recompute(quantity, unitPrice, discountPercent, discountAmount, taxPercent); err != nil {
				return err
			}
			if err := i.recalculateTotals(); err != nil {
				i.Items[idx] = prev
				return err
			}
			i.MarkUpdated()
			return nil
		}
	}
	return shared.ErrNotFound.WithMessage("Line item not found")
}

// RemoveItem removes a line item from a draft invoice
func (i *Invoice) RemoveItem(itemID uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState.WithMessage("Items can only be removed from a draft invoice")
	}

	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			i.Items = append(i.Items[:idx], i.Items[idx+1:]...)
			if err := i.recalculateTotals(); err != nil {
				return err
			}
			i.MarkUpdated()
			return nil
		}
	}
	return shared.ErrNotFound.WithMessage("Line item not found")
}

// SetDiscount sets the invoice-level discount on a draft invoice.
// A nonzero percent takes priority over the amount.
func (i *Invoice) SetDiscount(discountPercent, discountAmount decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState.WithMessage("Discount can only be changed on a draft invoice")
	}
	if _, err := valueobject.NewPercent(discountPercent); err != nil {
		return shared.NewDomainError("INVALID_PERCENT", "Discount percent must be between 0 and 100")
	}
	if discountAmount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	}

	prevPct, prevAmt := i.DiscountPercent, i.DiscountAmount
	i.DiscountPercent = discountPercent
	i.DiscountAmount = discountAmount
	if err := i.recalculateTotals(); err != nil {
		i.DiscountPercent, i.DiscountAmount = prevPct, prevAmt
		return err
	}
	i.MarkUpdated()
	return nil
}

// SetCustomer updates the customer snapshot on a draft invoice
func (i *Invoice) SetCustomer(customerID *uuid.UUID, customerName string) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState.WithMessage("Customer can only be changed on a draft invoice")
	}
	i.CustomerID = customerID
	i.CustomerName = customerName
	i.MarkUpdated()
	return nil
}

// SetDates updates invoice and due dates on a draft invoice
func (i *Invoice) SetDates(invoiceDate time.Time, dueDate *time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.ErrInvalidState.WithMessage("Dates can only be changed on a draft invoice")
	}
	if !invoiceDate.IsZero() {
		i.InvoiceDate = invoiceDate
	}
	if dueDate != nil && dueDate.Before(i.InvoiceDate) {
		return shared.NewDomainError("INVALID_DATE", "Due date cannot be before the invoice date")
	}
	i.DueDate = dueDate
	i.MarkUpdated()
	return nil
}

// SetNotes updates the free-form notes
func (i *Invoice) SetNotes(notes string) {
	i.Notes = notes
	i.MarkUpdated()
}

// SetPaymentMethod sets the default payment method
func (i *Invoice) SetPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}
	i.PaymentMethod = method
	i.MarkUpdated()
	return nil
}

// Confirm finalizes a draft invoice and makes it eligible for payments
func (i *Invoice) Confirm() error {
	if !i.Status.CanTransitionTo(InvoiceStatusConfirmed) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot confirm invoice in %s status", i.Status))
	}
	if len(i.Items) == 0 {
		return shared.ErrEmptyInvoice
	}
	if err := i.recalculateTotals(); err != nil {
		return err
	}

	now := time.Now()
	i.Status = InvoiceStatusConfirmed
	i.ConfirmedAt = &now
	i.MarkUpdated()
	i.AddDomainEvent(NewInvoiceConfirmedEvent(i))
	return nil
}

// Unconfirm returns a confirmed invoice to draft for editing.
// Rejected once any payment has been applied.
func (i *Invoice) Unconfirm() error {
	if i.HasActivePayments() {
		return shared.ErrHasPayments
	}
	if i.Status != InvoiceStatusConfirmed {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot unconfirm invoice in %s status", i.Status))
	}

	i.Status = InvoiceStatusDraft
	i.ConfirmedAt = nil
	i.MarkUpdated()
	i.AddDomainEvent(NewInvoiceUnconfirmedEvent(i))
	return nil
}

// Cancel voids an invoice that has received no payments
func (i *Invoice) Cancel(reason string) error {
	if !i.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot cancel invoice in %s status", i.Status))
	}
	if i.HasActivePayments() {
		return shared.ErrHasPayments.WithMessage("Invoice with payments must be refunded, not cancelled")
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.CancelReason = reason
	i.MarkUpdated()
	i.AddDomainEvent(NewInvoiceCancelledEvent(i, reason))
	return nil
}

// ApplyPayment records a payment against the invoice and updates its balance.
// The amount must be positive and must not exceed the remaining balance.
func (i *Invoice) ApplyPayment(paymentID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string) (*PaymentRecord, error) {
	if !i.Type.AcceptsPayments() {
		return nil, shared.ErrInvalidState.WithMessage("Quotations cannot receive payments")
	}
	// PAID stays payable so that an excess payment reports OVERPAYMENT
	// rather than a generic state error.
	if i.Status != InvoiceStatusConfirmed && i.Status != InvoiceStatusPartialPaid && i.Status != InvoiceStatusPaid {
		return nil, shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot apply payment to invoice in %s status", i.Status))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	amount = amount.Round(valueobject.CurrencyScale)
	if amount.GreaterThan(i.RemainingAmount) {
		return nil, shared.ErrOverpayment
	}

	now := time.Now()
	record := PaymentRecord{
		ID:        uuid.New(),
		PaymentID: paymentID,
		Amount:    amount,
		Method:    method,
		Reference: reference,
		Status:    PaymentRecordStatusActive,
		AppliedAt: now,
	}
	i.PaymentRecords = append(i.PaymentRecords, record)
	i.PaidAmount = i.PaidAmount.Add(amount)
	i.RemainingAmount = i.TotalAmount.Sub(i.PaidAmount)

	if i.RemainingAmount.IsZero() {
		i.Status = InvoiceStatusPaid
		i.PaidAt = &now
		i.AddDomainEvent(NewInvoicePaidEvent(i))
	} else {
		i.Status = InvoiceStatusPartialPaid
		i.AddDomainEvent(NewInvoicePartiallyPaidEvent(i, amount))
	}
	i.MarkUpdated()
	return &record, nil
}

// ReversePayment undoes a previously applied payment and restores the balance.
// Returns the reversed amount.
func (i *Invoice) ReversePayment(paymentID uuid.UUID) (decimal.Decimal, error) {
	if i.Status != InvoiceStatusPartialPaid && i.Status != InvoiceStatusPaid {
		return decimal.Zero, shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot reverse payment on invoice in %s status", i.Status))
	}

	for idx := range i.PaymentRecords {
		rec := &i.PaymentRecords[idx]
		if rec.PaymentID == paymentID && rec.Status == PaymentRecordStatusActive {
			now := time.Now()
			rec.Status = PaymentRecordStatusReversed
			rec.ReversedAt = &now

			i.PaidAmount = i.PaidAmount.Sub(rec.Amount)
			i.RemainingAmount = i.TotalAmount.Sub(i.PaidAmount)

			if i.PaidAmount.IsZero() {
				i.Status = InvoiceStatusConfirmed
				i.PaidAt = nil
			} else {
				i.Status = InvoiceStatusPartialPaid
				i.PaidAt = nil
			}
			i.MarkUpdated()
			i.AddDomainEvent(NewInvoicePaymentReversedEvent(i, paymentID, rec.Amount))
			return rec.Amount, nil
		}
	}
	return decimal.Zero, shared.ErrNotFound.WithMessage("Active payment record not found on invoice")
}

// Refund reverses all active payments and moves the invoice to REFUNDED.
// Returns the total refunded amount.
func (i *Invoice) Refund(reason string) (decimal.Decimal, error) {
	if !i.Status.CanTransitionTo(InvoiceStatusRefunded) {
		return decimal.Zero, shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot refund invoice in %s status", i.Status))
	}
	if !i.HasActivePayments() {
		return decimal.Zero, shared.ErrInvalidState.WithMessage("Invoice has no payments to refund")
	}

	now := time.Now()
	refunded := decimal.Zero
	for idx := range i.PaymentRecords {
		rec := &i.PaymentRecords[idx]
		if rec.Status == PaymentRecordStatusActive {
			rec.Status = PaymentRecordStatusReversed
			rec.ReversedAt = &now
			refunded = refunded.Add(rec.Amount)
		}
	}

	i.PaidAmount = decimal.Zero
	i.RemainingAmount = decimal.Zero
	i.Status = InvoiceStatusRefunded
	i.RefundedAt = &now
	i.RefundReason = reason
	i.PaidAt = nil
	i.MarkUpdated()
	i.AddDomainEvent(NewInvoiceRefundedEvent(i, refunded, reason))
	return refunded, nil
}

// HasActivePayments reports whether any applied payment is still in effect
func (i *Invoice) HasActivePayments() bool {
	for _, rec := range i.PaymentRecords {
		if rec.Status == PaymentRecordStatusActive {
			return true
		}
	}
	return false
}

// ActivePaymentTotal sums the amounts of all active payment records
func (i *Invoice) ActivePaymentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range i.PaymentRecords {
		if rec.Status == PaymentRecordStatusActive {
			total = total.Add(rec.Amount)
		}
	}
	return total
}

// IsFullyPaid reports whether the invoice balance has reached zero
func (i *Invoice) IsFullyPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// IsEditable reports whether the invoice contents can still be changed
func (i *Invoice) IsEditable() bool {
	return i.Status == InvoiceStatusDraft
}

// GetTotalMoney returns the invoice total as Money value object
func (i *Invoice) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.TotalAmount)
}

// GetRemainingMoney returns the remaining balance as Money value object
func (i *Invoice) GetRemainingMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.RemainingAmount)
}

// recalculateTotals rederives every monetary aggregate from the line items.
// The subtotal is the sum of tax-inclusive line totals; the tax amount is
// carried separately for reporting and is not added again. A nonzero invoice
// discount percent takes priority over a fixed discount amount.
func (i *Invoice) recalculateTotals() error {
	subTotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, item := range i.Items {
		subTotal = subTotal.Add(item.LineTotal)
		taxTotal = taxTotal.Add(item.TaxAmount)
	}

	discount := i.DiscountAmount.Round(valueobject.CurrencyScale)
	if !i.DiscountPercent.IsZero() {
		pct, err := valueobject.NewPercent(i.DiscountPercent)
		if err != nil {
			return shared.NewDomainError("INVALID_PERCENT", "Discount percent must be between 0 and 100")
		}
		discount = pct.Of(subTotal)
	}
	if discount.GreaterThan(subTotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the invoice subtotal")
	}

	i.SubTotal = subTotal
	i.TaxAmount = taxTotal
	i.DiscountAmount = discount
	i.TotalAmount = subTotal.Sub(discount)
	i.RemainingAmount = i.TotalAmount.Sub(i.PaidAmount)
	return nil
}
