package invoicing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceFilter carries the query options for listing invoices
type InvoiceFilter struct {
	shared.Filter
	Type       *InvoiceType
	Status     *InvoiceStatus
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Overdue    bool
}

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	// Save persists the invoice and its line items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock persists with an optimistic version check. Returns
	// shared.ErrConcurrencyConflict when a concurrent write won.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// FindByID loads an invoice within the tenant scope
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindByNumber loads an invoice by its document number
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)

	// FindAll lists invoices matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (shared.Paginated[Invoice], error)

	// Delete removes a draft invoice
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// GenerateNumber produces the next document number for the given type,
	// e.g. INV-20260901-00042
	GenerateNumber(ctx context.Context, tenantID uuid.UUID, invoiceType InvoiceType) (string, error)

	// CountByStatus returns invoice counts grouped by status
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[InvoiceStatus]int64, error)

	// SumOutstanding returns the total remaining balance of confirmed and
	// partially paid invoices
	SumOutstanding(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
}

// PaymentFilter carries the query options for listing payments
type PaymentFilter struct {
	shared.Filter
	Status     *PaymentStatus
	Method     *PaymentMethod
	CustomerID *uuid.UUID
	InvoiceID  *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error

	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	FindAll(ctx context.Context, tenantID uuid.UUID, filter PaymentFilter) (shared.Paginated[Payment], error)

	// FindByInvoice lists payments recorded against an invoice
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)

	// GenerateNumber produces the next payment number, e.g. PAY-20260901-00007
	GenerateNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
