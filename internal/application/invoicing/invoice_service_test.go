package invoicing

import (
	"context"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/partner"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	invoiceRepo  *MockInvoiceRepository
	paymentRepo  *MockPaymentRepository
	customerRepo *MockCustomerRepository
	productRepo  *MockProductRepository
	service      *InvoiceService
	tenantID     uuid.UUID
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		invoiceRepo:  new(MockInvoiceRepository),
		paymentRepo:  new(MockPaymentRepository),
		customerRepo: new(MockCustomerRepository),
		productRepo:  new(MockProductRepository),
		tenantID:     uuid.New(),
	}
	f.service = NewInvoiceService(f.invoiceRepo, f.paymentRepo, f.customerRepo, f.productRepo, nil)
	return f
}

func (f *serviceFixture) newCustomer(t *testing.T) *partner.Customer {
	c, err := partner.NewCustomer(f.tenantID, "CUST-1", "Acme Corp", partner.CustomerTypeOrganization)
	require.NoError(t, err)
	return c
}

func (f *serviceFixture) newProduct(t *testing.T, price float64) *catalog.Product {
	p, err := catalog.NewProduct(f.tenantID, "SKU-1", "Widget", "pcs", decimal.NewFromFloat(price))
	require.NoError(t, err)
	return p
}

func (f *serviceFixture) confirmedInvoice(t *testing.T, customerID uuid.UUID, total float64) *invoicing.Invoice {
	inv, err := invoicing.NewInvoice(f.tenantID, "INV-20260901-00001", invoicing.InvoiceTypeSales,
		&customerID, "Acme Corp", time.Now(), nil)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "Widget", "SKU-1", "pcs",
		decimal.NewFromInt(1), decimal.NewFromFloat(total), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, inv.Confirm())
	inv.ClearDomainEvents()
	return inv
}

func TestInvoiceService_Create(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customer := f.newCustomer(t)
	product := f.newProduct(t, 100)

	f.customerRepo.On("FindByID", ctx, f.tenantID, customer.ID).Return(customer, nil)
	f.invoiceRepo.On("GenerateNumber", ctx, f.tenantID, invoicing.InvoiceTypeSales).Return("INV-20260901-00001", nil)
	f.productRepo.On("FindByID", ctx, f.tenantID, product.ID).Return(product, nil)
	f.invoiceRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Invoice")).Return(nil)

	resp, err := f.service.Create(ctx, f.tenantID, nil, CreateInvoiceRequest{
		Type:       "SALES",
		CustomerID: &customer.ID,
		Items: []CreateInvoiceItemInput{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-20260901-00001", resp.InvoiceNumber)
	assert.Equal(t, "DRAFT", resp.Status)
	assert.Equal(t, "Acme Corp", resp.CustomerName)
	assert.Len(t, resp.Items, 1)
	// catalog price snapshot: 2 x 100
	assert.True(t, decimal.NewFromInt(200).Equal(resp.TotalAmount))
	f.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_InactiveCustomer(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customer := f.newCustomer(t)
	require.NoError(t, customer.Deactivate())

	f.customerRepo.On("FindByID", ctx, f.tenantID, customer.ID).Return(customer, nil)

	_, err := f.service.Create(ctx, f.tenantID, nil, CreateInvoiceRequest{
		Type:       "SALES",
		CustomerID: &customer.ID,
	})
	require.Error(t, err)
	domainErr := err.(*shared.DomainError)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	f.invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_ProductNotFound(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	productID := uuid.New()

	f.invoiceRepo.On("GenerateNumber", ctx, f.tenantID, invoicing.InvoiceTypeSales).Return("INV-20260901-00001", nil)
	f.productRepo.On("FindByID", ctx, f.tenantID, productID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(ctx, f.tenantID, nil, CreateInvoiceRequest{
		Type:  "SALES",
		Items: []CreateInvoiceItemInput{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", err.(*shared.DomainError).Code)
}

func TestInvoiceService_Confirm(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv, err := invoicing.NewInvoice(f.tenantID, "INV-1", invoicing.InvoiceTypeSales, &customerID, "Acme", time.Now(), nil)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "Widget", "SKU-1", "pcs",
		decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)

	resp, err := f.service.Confirm(ctx, f.tenantID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	f.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Confirm_ConcurrencyConflict(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv, err := invoicing.NewInvoice(f.tenantID, "INV-1", invoicing.InvoiceTypeSales, &customerID, "Acme", time.Now(), nil)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "Widget", "SKU-1", "pcs",
		decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.invoiceRepo.On("SaveWithLock", ctx, inv).Return(shared.ErrConcurrencyConflict)

	_, err = f.service.Confirm(ctx, f.tenantID, inv.ID)
	require.Error(t, err)
	assert.Equal(t, "CONCURRENCY_CONFLICT", err.(*shared.DomainError).Code)
}

func TestInvoiceService_RecordPayment(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv := f.confirmedInvoice(t, customerID, 100)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.paymentRepo.On("GenerateNumber", ctx, f.tenantID).Return("PAY-20260901-00001", nil)
	f.invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)
	f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Payment")).Return(nil)

	resp, err := f.service.RecordPayment(ctx, f.tenantID, inv.ID, nil, RecordPaymentRequest{
		Amount: decimal.NewFromInt(40),
		Method: "BANK_TRANSFER",
	})
	require.NoError(t, err)

	assert.Equal(t, "PARTIAL_PAID", resp.Status)
	assert.True(t, decimal.NewFromInt(40).Equal(resp.PaidAmount))
	assert.True(t, decimal.NewFromInt(60).Equal(resp.RemainingAmount))
	require.Len(t, resp.PaymentRecords, 1)
	f.paymentRepo.AssertExpectations(t)
}

func TestInvoiceService_RecordPayment_Overpayment(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv := f.confirmedInvoice(t, customerID, 100)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.paymentRepo.On("GenerateNumber", ctx, f.tenantID).Return("PAY-20260901-00001", nil)

	_, err := f.service.RecordPayment(ctx, f.tenantID, inv.ID, nil, RecordPaymentRequest{
		Amount: decimal.NewFromFloat(100.01),
		Method: "CASH",
	})
	require.Error(t, err)
	assert.Equal(t, "OVERPAYMENT", err.(*shared.DomainError).Code)
	f.invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	f.paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordPayment_NoCustomer(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	inv, err := invoicing.NewInvoice(f.tenantID, "INV-1", invoicing.InvoiceTypeSales, nil, "", time.Now(), nil)
	require.NoError(t, err)
	_, err = inv.AddItem(uuid.New(), "Widget", "SKU-1", "pcs",
		decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, inv.Confirm())

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)

	_, err = f.service.RecordPayment(ctx, f.tenantID, inv.ID, nil, RecordPaymentRequest{
		Amount: decimal.NewFromInt(10),
		Method: "CASH",
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
}

func TestInvoiceService_ReversePayment(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv := f.confirmedInvoice(t, customerID, 100)

	payment, err := invoicing.NewPayment(f.tenantID, "PAY-1", customerID, "Acme",
		decimal.NewFromInt(100), time.Now(), invoicing.PaymentMethodCash, "", nil)
	require.NoError(t, err)
	_, err = inv.ApplyPayment(payment.ID, payment.Amount, payment.Method, "")
	require.NoError(t, err)
	payment.AttachToInvoice(inv.ID, inv.InvoiceNumber)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.paymentRepo.On("FindByID", ctx, f.tenantID, payment.ID).Return(payment, nil)
	f.invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)
	f.paymentRepo.On("Save", ctx, payment).Return(nil)

	resp, err := f.service.ReversePayment(ctx, f.tenantID, inv.ID, payment.ID, ReversePaymentRequest{Reason: "typo"})
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.True(t, resp.PaidAmount.IsZero())
	assert.Equal(t, invoicing.PaymentStatusReversed, payment.Status)
}

func TestInvoiceService_Refund(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv := f.confirmedInvoice(t, customerID, 100)

	payment, err := invoicing.NewPayment(f.tenantID, "PAY-1", customerID, "Acme",
		decimal.NewFromInt(100), time.Now(), invoicing.PaymentMethodCash, "", nil)
	require.NoError(t, err)
	_, err = inv.ApplyPayment(payment.ID, payment.Amount, payment.Method, "")
	require.NoError(t, err)
	payment.AttachToInvoice(inv.ID, inv.InvoiceNumber)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.paymentRepo.On("FindByInvoice", ctx, f.tenantID, inv.ID).Return([]invoicing.Payment{*payment}, nil)
	f.invoiceRepo.On("SaveWithLock", ctx, inv).Return(nil)
	f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*invoicing.Payment")).Return(nil)

	resp, err := f.service.Refund(ctx, f.tenantID, inv.ID, RefundInvoiceRequest{Reason: "returned goods"})
	require.NoError(t, err)

	assert.Equal(t, "REFUNDED", resp.Status)
	assert.True(t, resp.PaidAmount.IsZero())
	assert.Equal(t, "returned goods", resp.RefundReason)
}

func TestInvoiceService_Delete_NonDraftRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv := f.confirmedInvoice(t, customerID, 100)

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)

	err := f.service.Delete(ctx, f.tenantID, inv.ID)
	require.Error(t, err)
	assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
	f.invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Delete_CancelledAllowed(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	customerID := uuid.New()
	inv := f.confirmedInvoice(t, customerID, 100)
	require.NoError(t, inv.Cancel("duplicate"))

	f.invoiceRepo.On("FindByID", ctx, f.tenantID, inv.ID).Return(inv, nil)
	f.invoiceRepo.On("Delete", ctx, f.tenantID, inv.ID).Return(nil)

	require.NoError(t, f.service.Delete(ctx, f.tenantID, inv.ID))
	f.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_GetSummary(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.invoiceRepo.On("CountByStatus", ctx, f.tenantID).Return(map[invoicing.InvoiceStatus]int64{
		invoicing.InvoiceStatusConfirmed:   3,
		invoicing.InvoiceStatusPartialPaid: 1,
	}, nil)
	f.invoiceRepo.On("SumOutstanding", ctx, f.tenantID).Return(decimal.NewFromInt(450), nil)

	summary, err := f.service.GetSummary(ctx, f.tenantID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450).Equal(summary.TotalOutstanding))
	assert.Equal(t, int64(3), summary.CountByStatus["CONFIRMED"])
}
