package invoicing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/partner"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo    invoicing.InvoiceRepository
	paymentRepo    invoicing.PaymentRepository
	customerRepo   partner.CustomerRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	paymentRepo invoicing.PaymentRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new draft invoice
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	invoiceType := invoicing.InvoiceType(req.Type)

	customerName := req.CustomerName
	if req.CustomerID != nil {
		customer, err := s.resolveCustomer(ctx, tenantID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customerName == "" {
			customerName = customer.Name
		}
	}

	number, err := s.invoiceRepo.GenerateNumber(ctx, tenantID, invoiceType)
	if err != nil {
		return nil, err
	}

	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	invoice, err := invoicing.NewInvoice(tenantID, number, invoiceType, req.CustomerID, customerName, invoiceDate, userID)
	if err != nil {
		return nil, err
	}

	if req.DueDate != nil {
		if err := invoice.SetDates(invoiceDate, req.DueDate); err != nil {
			return nil, err
		}
	}

	for _, item := range req.Items {
		if err := s.addItemFromCatalog(ctx, tenantID, invoice, item.ProductID, item.Quantity,
			item.UnitPrice, item.DiscountPercent, item.DiscountAmount, item.TaxPercent); err != nil {
			return nil, err
		}
	}

	if req.DiscountPercent != nil || req.DiscountAmount != nil {
		if err := invoice.SetDiscount(valueOrZero(req.DiscountPercent), valueOrZero(req.DiscountAmount)); err != nil {
			return nil, err
		}
	}

	if req.PaymentMethod != "" {
		if err := invoice.SetPaymentMethod(invoicing.PaymentMethod(req.PaymentMethod)); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		invoice.SetNotes(req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("type", string(invoice.Type)))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its document number
func (s *InvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := invoicing.InvoiceFilter{
		Filter:     shared.DefaultFilter(),
		CustomerID: filter.CustomerID,
		DateFrom:   filter.FromDate,
		DateTo:     filter.ToDate,
		Overdue:    filter.Overdue,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		invoiceType := invoicing.InvoiceType(filter.Type)
		domainFilter.Type = &invoiceType
	}
	if filter.Status != "" {
		status := invoicing.InvoiceStatus(filter.Status)
		domainFilter.Status = &status
	}

	page, err := s.invoiceRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceListItemResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToInvoiceListItemResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// Update updates a draft invoice's header fields
func (s *InvoiceService) Update(ctx context.Context, tenantID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil || req.CustomerName != nil {
		customerID := invoice.CustomerID
		customerName := invoice.CustomerName
		if req.CustomerID != nil {
			customer, err := s.resolveCustomer(ctx, tenantID, *req.CustomerID)
			if err != nil {
				return nil, err
			}
			customerID = req.CustomerID
			customerName = customer.Name
		}
		if req.CustomerName != nil {
			customerName = *req.CustomerName
		}
		if err := invoice.SetCustomer(customerID, customerName); err != nil {
			return nil, err
		}
	}

	if req.InvoiceDate != nil || req.DueDate != nil {
		invoiceDate := invoice.InvoiceDate
		if req.InvoiceDate != nil {
			invoiceDate = *req.InvoiceDate
		}
		dueDate := invoice.DueDate
		if req.DueDate != nil {
			dueDate = req.DueDate
		}
		if err := invoice.SetDates(invoiceDate, dueDate); err != nil {
			return nil, err
		}
	}

	if req.DiscountPercent != nil || req.DiscountAmount != nil {
		if err := invoice.SetDiscount(valueOrZero(req.DiscountPercent), valueOrZero(req.DiscountAmount)); err != nil {
			return nil, err
		}
	}

	if req.PaymentMethod != nil {
		if err := invoice.SetPaymentMethod(invoicing.PaymentMethod(*req.PaymentMethod)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		invoice.SetNotes(*req.Notes)
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != invoicing.InvoiceStatusDraft && invoice.Status != invoicing.InvoiceStatusCancelled {
		return shared.ErrInvalidState.WithMessage("Only draft or cancelled invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, tenantID, invoiceID)
}

// AddItem adds a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req AddInvoiceItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.addItemFromCatalog(ctx, tenantID, invoice, req.ProductID, req.Quantity,
		req.UnitPrice, req.DiscountPercent, req.DiscountAmount, req.TaxPercent); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateItem updates a line item on a draft invoice
func (s *InvoiceService) UpdateItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID, req UpdateInvoiceItemRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	var current *invoicing.LineItem
	for idx := range invoice.Items {
		if invoice.Items[idx].ID == itemID {
			current = &invoice.Items[idx]
			break
		}
	}
	if current == nil {
		return nil, shared.ErrNotFound.WithMessage("Line item not found")
	}

	quantity := current.Quantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	unitPrice := current.UnitPrice
	if req.UnitPrice != nil {
		unitPrice = *req.UnitPrice
	}
	discountPercent := current.DiscountPercent
	if req.DiscountPercent != nil {
		discountPercent = *req.DiscountPercent
	}
	discountAmount := current.DiscountAmount
	if req.DiscountAmount != nil {
		discountAmount = *req.DiscountAmount
	}
	taxPercent := current.TaxPercent
	if req.TaxPercent != nil {
		taxPercent = *req.TaxPercent
	}

	if err := invoice.UpdateItem(itemID, quantity, unitPrice, discountPercent, discountAmount, taxPercent); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RemoveItem removes a line item from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, invoiceID, itemID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Confirm finalizes a draft invoice
func (s *InvoiceService) Confirm(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.Confirm()
	})
}

// Unconfirm returns a confirmed invoice to draft
func (s *InvoiceService) Unconfirm(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.Unconfirm()
	})
}

// Cancel voids an invoice that has no payments
func (s *InvoiceService) Cancel(ctx context.Context, tenantID, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoicing.Invoice) error {
		return inv.Cancel(req.Reason)
	})
}

// RecordPayment applies a payment to a confirmed invoice. The payment is
// persisted as its own aggregate and recorded on the invoice; the version
// check on save serializes concurrent payments against the same invoice.
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, invoiceID uuid.UUID, userID *uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	customerID := uuid.Nil
	if invoice.CustomerID != nil {
		customerID = *invoice.CustomerID
	}
	if customerID == uuid.Nil {
		return nil, shared.ErrInvalidState.WithMessage("Invoice has no customer to receive a payment from")
	}

	paymentNumber, err := s.paymentRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment, err := invoicing.NewPayment(tenantID, paymentNumber, customerID, invoice.CustomerName,
		req.Amount, paymentDate, invoicing.PaymentMethod(req.Method), req.Reference, userID)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		payment.SetNotes(req.Notes)
	}

	if _, err := invoice.ApplyPayment(payment.ID, payment.Amount, payment.Method, payment.Reference); err != nil {
		return nil, err
	}
	payment.AttachToInvoice(invoice.ID, invoice.InvoiceNumber)

	// The invoice is saved first; a version conflict aborts before the
	// payment row exists.
	// TODO: run both writes in one transaction once the repositories
	// share a unit of work.
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	s.publishEvents(ctx, payment)

	s.logger.Info("payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("amount", payment.Amount.String()))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ReversePayment undoes a payment previously applied to the invoice
func (s *InvoiceService) ReversePayment(ctx context.Context, tenantID, invoiceID, paymentID uuid.UUID, req ReversePaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.FindByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	if _, err := invoice.ReversePayment(paymentID); err != nil {
		return nil, err
	}
	if err := payment.Reverse(req.Reason); err != nil {
		return nil, err
	}

	// Same two-step write ordering as RecordPayment; the lock conflict
	// surfaces before the payment row changes.
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	s.publishEvents(ctx, payment)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Refund reverses all payments on an invoice and marks it refunded
func (s *InvoiceService) Refund(ctx context.Context, tenantID, invoiceID uuid.UUID, req RefundInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	refunded, err := invoice.Refund(req.Reason)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	for idx := range payments {
		if payments[idx].IsActive() {
			if err := payments[idx].Reverse(req.Reason); err != nil {
				return nil, err
			}
		}
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	for idx := range payments {
		if err := s.paymentRepo.Save(ctx, &payments[idx]); err != nil {
			return nil, err
		}
	}
	s.publishEvents(ctx, invoice)

	s.logger.Info("invoice refunded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("refunded_amount", refunded.String()))

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetSummary aggregates invoice counts and the outstanding balance
func (s *InvoiceService) GetSummary(ctx context.Context, tenantID uuid.UUID) (*InvoiceSummaryResponse, error) {
	counts, err := s.invoiceRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.invoiceRepo.SumOutstanding(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	for status, count := range counts {
		byStatus[string(status)] = count
	}
	return &InvoiceSummaryResponse{
		TotalOutstanding: outstanding,
		CountByStatus:    byStatus,
	}, nil
}

// addItemFromCatalog resolves the product and adds a line with catalog
// defaults where the request left fields unset.
func (s *InvoiceService) addItemFromCatalog(ctx context.Context, tenantID uuid.UUID, invoice *invoicing.Invoice, productID uuid.UUID, quantity decimal.Decimal, unitPrice, discountPercent, discountAmount, taxPercent *decimal.Decimal) error {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		return shared.ErrInvalidState.WithMessage("Product is not active")
	}

	price := product.UnitPrice
	if unitPrice != nil {
		price = *unitPrice
	}
	tax := product.DefaultTaxRate
	if taxPercent != nil {
		tax = *taxPercent
	}

	_, err = invoice.AddItem(product.ID, product.Name, product.Code, product.Unit,
		quantity, price, valueOrZero(discountPercent), valueOrZero(discountAmount), tax)
	return err
}

// resolveCustomer loads the customer and verifies it can be billed
func (s *InvoiceService) resolveCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.ErrInvalidState.WithMessage("Customer is not active")
	}
	return customer, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	aggregate.ClearDomainEvents()
}

func (s *InvoiceService) transition(ctx context.Context, tenantID, invoiceID uuid.UUID, apply func(*invoicing.Invoice) error) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := apply(invoice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
