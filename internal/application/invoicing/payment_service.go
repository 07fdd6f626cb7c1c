package invoicing

import (
	"context"
	"time"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/partner"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService handles standalone payment operations. Payments tied to an
// invoice go through InvoiceService.RecordPayment instead.
type PaymentService struct {
	paymentRepo    invoicing.PaymentRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo invoicing.PaymentRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a standalone payment as an account credit
func (s *PaymentService) Create(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	customerName := req.CustomerName
	if customerName == "" {
		customerName = customer.Name
	}

	number, err := s.paymentRepo.GenerateNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment, err := invoicing.NewPayment(tenantID, number, customer.ID, customerName,
		req.Amount, paymentDate, invoicing.PaymentMethod(req.Method), req.Reference, userID)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		payment.SetNotes(req.Notes)
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, payment)

	s.logger.Info("standalone payment recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("amount", payment.Amount.String()))

	response := ToPaymentResponse(payment)
	return &response, nil
}

// GetByID retrieves a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, tenantID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := invoicing.PaymentFilter{
		Filter:     shared.DefaultFilter(),
		CustomerID: filter.CustomerID,
		InvoiceID:  filter.InvoiceID,
		DateFrom:   filter.FromDate,
		DateTo:     filter.ToDate,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := invoicing.PaymentStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Method != "" {
		method := invoicing.PaymentMethod(filter.Method)
		domainFilter.Method = &method
	}

	page, err := s.paymentRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToPaymentResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// Reverse undoes a standalone payment. Payments applied to an invoice must
// be reversed through the invoice so the balance stays consistent.
func (s *PaymentService) Reverse(ctx context.Context, tenantID, paymentID uuid.UUID, req ReversePaymentRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.InvoiceID != nil {
		return nil, shared.ErrInvalidState.WithMessage("Payment is applied to an invoice; reverse it through the invoice")
	}

	if err := payment.Reverse(req.Reason); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, payment)

	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
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
