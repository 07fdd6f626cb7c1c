package invoicing

import (
	"time"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	Type            string                   `json:"type" binding:"required,oneof=SALES SALES_RETURN QUOTATION"`
	CustomerID      *uuid.UUID               `json:"customer_id"`
	CustomerName    string                   `json:"customer_name" binding:"max=200"`
	InvoiceDate     *time.Time               `json:"invoice_date"`
	DueDate         *time.Time               `json:"due_date"`
	Items           []CreateInvoiceItemInput `json:"items"`
	DiscountPercent *decimal.Decimal         `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal         `json:"discount_amount"`
	PaymentMethod   string                   `json:"payment_method"`
	Notes           string                   `json:"notes"`
}

// CreateInvoiceItemInput represents a line item in the create request.
// Product name, code, unit, price and tax default to the catalog values
// when omitted.
type CreateInvoiceItemInput struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	CustomerID      *uuid.UUID       `json:"customer_id"`
	CustomerName    *string          `json:"customer_name"`
	InvoiceDate     *time.Time       `json:"invoice_date"`
	DueDate         *time.Time       `json:"due_date"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	PaymentMethod   *string          `json:"payment_method"`
	Notes           *string          `json:"notes"`
}

// AddInvoiceItemRequest represents a request to add a line item
type AddInvoiceItemRequest struct {
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// UpdateInvoiceItemRequest represents a request to update a line item
type UpdateInvoiceItemRequest struct {
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	DiscountPercent *decimal.Decimal `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal `json:"discount_amount"`
	TaxPercent      *decimal.Decimal `json:"tax_percent"`
}

// CancelInvoiceRequest represents a request to cancel an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RefundInvoiceRequest represents a request to refund a paid invoice
type RefundInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RecordPaymentRequest represents a request to apply a payment to an invoice
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHECK CARD OTHER"`
	Reference   string          `json:"reference" binding:"max=100"`
	PaymentDate *time.Time      `json:"payment_date"`
	Notes       string          `json:"notes"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Search     string     `form:"search"`
	Type       string     `form:"type"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Overdue    bool       `form:"overdue"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// InvoiceItemResponse represents a line item in API responses
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductCode     string          `json:"product_code"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// PaymentRecordResponse represents an applied payment in API responses
type PaymentRecordResponse struct {
	ID         uuid.UUID       `json:"id"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	Status     string          `json:"status"`
	AppliedAt  time.Time       `json:"applied_at"`
	ReversedAt *time.Time      `json:"reversed_at,omitempty"`
}

// InvoiceResponse represents a full invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID               `json:"id"`
	TenantID        uuid.UUID               `json:"tenant_id"`
	InvoiceNumber   string                  `json:"invoice_number"`
	Type            string                  `json:"type"`
	Status          string                  `json:"status"`
	CustomerID      *uuid.UUID              `json:"customer_id,omitempty"`
	CustomerName    string                  `json:"customer_name,omitempty"`
	InvoiceDate     time.Time               `json:"invoice_date"`
	DueDate         *time.Time              `json:"due_date,omitempty"`
	Items           []InvoiceItemResponse   `json:"items"`
	SubTotal        decimal.Decimal         `json:"sub_total"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	DiscountAmount  decimal.Decimal         `json:"discount_amount"`
	TaxAmount       decimal.Decimal         `json:"tax_amount"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	PaidAmount      decimal.Decimal         `json:"paid_amount"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
	PaymentMethod   string                  `json:"payment_method"`
	PaymentRecords  []PaymentRecordResponse `json:"payment_records,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	ConfirmedAt     *time.Time              `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time              `json:"refunded_at,omitempty"`
	PaidAt          *time.Time              `json:"paid_at,omitempty"`
	CancelReason    string                  `json:"cancel_reason,omitempty"`
	RefundReason    string                  `json:"refund_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Version         int                     `json:"version"`
}

// InvoiceListItemResponse is the compact form used in list endpoints
type InvoiceListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	InvoiceDate     time.Time       `json:"invoice_date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	ItemCount       int             `json:"item_count"`
	CreatedAt       time.Time       `json:"created_at"`
}

// InvoiceSummaryResponse aggregates invoice counts and outstanding balance
type InvoiceSummaryResponse struct {
	TotalOutstanding decimal.Decimal  `json:"total_outstanding"`
	CountByStatus    map[string]int64 `json:"count_by_status"`
}

// ToInvoiceResponse maps an invoice aggregate to its API representation
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductCode:     item.ProductCode,
			Unit:            item.Unit,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			DiscountAmount:  item.DiscountAmount,
			TaxPercent:      item.TaxPercent,
			TaxAmount:       item.TaxAmount,
			LineTotal:       item.LineTotal,
		}
	}

	var records []PaymentRecordResponse
	for _, rec := range inv.PaymentRecords {
		records = append(records, PaymentRecordResponse{
			ID:         rec.ID,
			PaymentID:  rec.PaymentID,
			Amount:     rec.Amount,
			Method:     string(rec.Method),
			Reference:  rec.Reference,
			Status:     string(rec.Status),
			AppliedAt:  rec.AppliedAt,
			ReversedAt: rec.ReversedAt,
		})
	}

	return InvoiceResponse{
		ID:              inv.ID,
		TenantID:        inv.TenantID,
		InvoiceNumber:   inv.InvoiceNumber,
		Type:            string(inv.Type),
		Status:          string(inv.Status),
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Items:           items,
		SubTotal:        inv.SubTotal,
		DiscountPercent: inv.DiscountPercent,
		DiscountAmount:  inv.DiscountAmount,
		TaxAmount:       inv.TaxAmount,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount,
		PaymentMethod:   string(inv.PaymentMethod),
		PaymentRecords:  records,
		Notes:           inv.Notes,
		ConfirmedAt:     inv.ConfirmedAt,
		CancelledAt:     inv.CancelledAt,
		RefundedAt:      inv.RefundedAt,
		PaidAt:          inv.PaidAt,
		CancelReason:    inv.CancelReason,
		RefundReason:    inv.RefundReason,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Version:         inv.Version,
	}
}

// ToInvoiceListItemResponse maps an invoice to its compact list representation
func ToInvoiceListItemResponse(inv *invoicing.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Type:            string(inv.Type),
		Status:          string(inv.Status),
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		RemainingAmount: inv.RemainingAmount,
		ItemCount:       len(inv.Items),
		CreatedAt:       inv.CreatedAt,
	}
}

// ==================== Payment DTOs ====================

// CreatePaymentRequest represents a request to record a standalone payment
type CreatePaymentRequest struct {
	CustomerID   uuid.UUID       `json:"customer_id" binding:"required"`
	CustomerName string          `json:"customer_name" binding:"max=200"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Method       string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CHECK CARD OTHER"`
	Reference    string          `json:"reference" binding:"max=100"`
	PaymentDate  *time.Time      `json:"payment_date"`
	Notes        string          `json:"notes"`
}

// ReversePaymentRequest represents a request to reverse a payment
type ReversePaymentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PaymentListFilter defines filtering options for payment list queries
type PaymentListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	Method     string     `form:"method"`
	CustomerID *uuid.UUID `form:"customer_id"`
	InvoiceID  *uuid.UUID `form:"invoice_id"`
	FromDate   *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	PaymentNumber  string          `json:"payment_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	InvoiceNumber  string          `json:"invoice_number,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDate    time.Time       `json:"payment_date"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	Status         string          `json:"status"`
	ReversedAt     *time.Time      `json:"reversed_at,omitempty"`
	ReversalReason string          `json:"reversal_reason,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToPaymentResponse maps a payment aggregate to its API representation
func ToPaymentResponse(p *invoicing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		PaymentNumber:  p.PaymentNumber,
		CustomerID:     p.CustomerID,
		CustomerName:   p.CustomerName,
		InvoiceID:      p.InvoiceID,
		InvoiceNumber:  p.InvoiceNumber,
		Amount:         p.Amount,
		PaymentDate:    p.PaymentDate,
		Method:         string(p.Method),
		Reference:      p.Reference,
		Status:         string(p.Status),
		ReversedAt:     p.ReversedAt,
		ReversalReason: p.ReversalReason,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}
