package invoicing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestInvoice(t *testing.T) *Invoice {
	tenantID := uuid.New()
	customerID := uuid.New()

	inv, err := NewInvoice(
		tenantID,
		"INV-20260901-00001",
		InvoiceTypeSales,
		&customerID,
		"Test Customer",
		time.Now(),
		nil,
	)
	require.NoError(t, err)
	return inv
}

func addTestItem(t *testing.T, inv *Invoice, qty, price float64) *LineItem {
	item, err := inv.AddItem(
		uuid.New(),
		"Test Product",
		"SKU-001",
		"pcs",
		decimal.NewFromFloat(qty),
		decimal.NewFromFloat(price),
		decimal.Zero,
		decimal.Zero,
		decimal.Zero,
	)
	require.NoError(t, err)
	return item
}

func confirmedTestInvoice(t *testing.T, qty, price float64) *Invoice {
	inv := createTestInvoice(t)
	addTestItem(t, inv, qty, price)
	require.NoError(t, inv.Confirm())
	return inv
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// ============================================
// ComputeLine Tests
// ============================================

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name            string
		quantity        string
		unitPrice       string
		discountPercent string
		discountAmount  string
		taxPercent      string
		wantDiscount    string
		wantTax         string
		wantTotal       string
	}{
		{
			name:     "plain line without discount or tax",
			quantity: "2", unitPrice: "50",
			discountPercent: "0", discountAmount: "0", taxPercent: "0",
			wantDiscount: "0", wantTax: "0", wantTotal: "100",
		},
		{
			name:     "percent discount",
			quantity: "3", unitPrice: "100",
			discountPercent: "10", discountAmount: "0", taxPercent: "0",
			wantDiscount: "30", wantTax: "0", wantTotal: "270",
		},
		{
			name:     "fixed discount",
			quantity: "2", unitPrice: "100",
			discountPercent: "0", discountAmount: "25", taxPercent: "0",
			wantDiscount: "25", wantTax: "0", wantTotal: "175",
		},
		{
			name:     "percent takes priority over fixed amount",
			quantity: "2", unitPrice: "100",
			discountPercent: "10", discountAmount: "55", taxPercent: "0",
			wantDiscount: "20", wantTax: "0", wantTotal: "180",
		},
		{
			name:     "tax applied after discount",
			quantity: "1", unitPrice: "200",
			discountPercent: "25", discountAmount: "0", taxPercent: "10",
			wantDiscount: "50", wantTax: "15", wantTotal: "165",
		},
		{
			name:     "rounding half away from zero",
			quantity: "3", unitPrice: "3.335",
			discountPercent: "0", discountAmount: "0", taxPercent: "0",
			wantDiscount: "0", wantTax: "0", wantTotal: "10.01",
		},
		{
			name:     "zero quantity yields zero totals",
			quantity: "0", unitPrice: "100",
			discountPercent: "0", discountAmount: "0", taxPercent: "10",
			wantDiscount: "0", wantTax: "0", wantTotal: "0",
		},
		{
			name:     "fractional quantity",
			quantity: "1.5", unitPrice: "99.99",
			discountPercent: "0", discountAmount: "0", taxPercent: "0",
			wantDiscount: "0", wantTax: "0", wantTotal: "149.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(d(tt.quantity), d(tt.unitPrice), d(tt.discountPercent), d(tt.discountAmount), d(tt.taxPercent))
			require.NoError(t, err)
			assert.True(t, d(tt.wantDiscount).Equal(got.DiscountAmount), "discount: want %s got %s", tt.wantDiscount, got.DiscountAmount)
			assert.True(t, d(tt.wantTax).Equal(got.TaxAmount), "tax: want %s got %s", tt.wantTax, got.TaxAmount)
			assert.True(t, d(tt.wantTotal).Equal(got.LineTotal), "total: want %s got %s", tt.wantTotal, got.LineTotal)
		})
	}
}

func TestComputeLine_InvalidInputs(t *testing.T) {
	tests := []struct {
		name            string
		quantity        string
		unitPrice       string
		discountPercent string
		discountAmount  string
		taxPercent      string
		wantCode        string
	}{
		{"negative quantity", "-1", "100", "0", "0", "0", "INVALID_QUANTITY"},
		{"negative price", "1", "-100", "0", "0", "0", "INVALID_PRICE"},
		{"discount percent over 100", "1", "100", "101", "0", "0", "INVALID_PERCENT"},
		{"negative discount percent", "1", "100", "-5", "0", "0", "INVALID_PERCENT"},
		{"tax percent over 100", "1", "100", "0", "0", "120", "INVALID_PERCENT"},
		{"negative discount amount", "1", "100", "0", "-10", "0", "INVALID_DISCOUNT"},
		{"discount exceeds gross", "1", "100", "0", "150", "0", "INVALID_DISCOUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(d(tt.quantity), d(tt.unitPrice), d(tt.discountPercent), d(tt.discountAmount), d(tt.taxPercent))
			require.Error(t, err)
			assertDomainErrorCode(t, err, tt.wantCode)
		})
	}
}

// ============================================
// InvoiceStatus Tests
// ============================================

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  InvoiceStatus
		isValid bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusConfirmed, true},
		{InvoiceStatusPartialPaid, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusCancelled, true},
		{InvoiceStatusRefunded, true},
		{InvoiceStatus("INVALID"), false},
		{InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusConfirmed, true},
		{InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusConfirmed, InvoiceStatusDraft, true},
		{InvoiceStatusConfirmed, InvoiceStatusPartialPaid, true},
		{InvoiceStatusConfirmed, InvoiceStatusPaid, true},
		{InvoiceStatusConfirmed, InvoiceStatusCancelled, true},
		{InvoiceStatusConfirmed, InvoiceStatusRefunded, false},
		{InvoiceStatusPartialPaid, InvoiceStatusPaid, true},
		{InvoiceStatusPartialPaid, InvoiceStatusConfirmed, true},
		{InvoiceStatusPartialPaid, InvoiceStatusRefunded, true},
		{InvoiceStatusPartialPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusPaid, InvoiceStatusRefunded, true},
		{InvoiceStatusPaid, InvoiceStatusPartialPaid, true},
		{InvoiceStatusPaid, InvoiceStatusCancelled, false},
		{InvoiceStatusCancelled, InvoiceStatusDraft, false},
		{InvoiceStatusRefunded, InvoiceStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoiceType_NumberPrefix(t *testing.T) {
	assert.Equal(t, "INV", InvoiceTypeSales.NumberPrefix())
	assert.Equal(t, "RET", InvoiceTypeSalesReturn.NumberPrefix())
	assert.Equal(t, "QTE", InvoiceTypeQuotation.NumberPrefix())
}

// ============================================
// Invoice Creation Tests
// ============================================

func TestNewInvoice(t *testing.T) {
	inv := createTestInvoice(t)

	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.Equal(t, InvoiceTypeSales, inv.Type)
	assert.True(t, inv.SubTotal.IsZero())
	assert.True(t, inv.TotalAmount.IsZero())
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Empty(t, inv.Items)
	assert.Equal(t, 1, inv.GetVersion())
	assert.Len(t, inv.GetDomainEvents(), 1)
	assert.Equal(t, "invoice.created", inv.GetDomainEvents()[0].EventType())
}

func TestNewInvoice_Validation(t *testing.T) {
	_, err := NewInvoice(uuid.Nil, "INV-1", InvoiceTypeSales, nil, "", time.Now(), nil)
	assertDomainErrorCode(t, err, "INVALID_TENANT")

	_, err = NewInvoice(uuid.New(), "", InvoiceTypeSales, nil, "", time.Now(), nil)
	assertDomainErrorCode(t, err, "INVALID_NUMBER")

	_, err = NewInvoice(uuid.New(), "INV-1", InvoiceType("BOGUS"), nil, "", time.Now(), nil)
	assertDomainErrorCode(t, err, "INVALID_TYPE")
}

// ============================================
// Line Item and Totals Tests
// ============================================

func TestInvoice_AddItem_RecalculatesTotals(t *testing.T) {
	inv := createTestInvoice(t)

	addTestItem(t, inv, 2, 100) // 200
	addTestItem(t, inv, 1, 50)  // 50

	assert.True(t, d("250").Equal(inv.SubTotal), "got %s", inv.SubTotal)
	assert.True(t, d("250").Equal(inv.TotalAmount))
	assert.True(t, d("250").Equal(inv.RemainingAmount))
	assert.Len(t, inv.Items, 2)
}

// Mirrors a mixed invoice: one discounted taxed line, one plain line,
// plus an invoice-level discount.
func TestInvoice_MixedLinesWithInvoiceDiscount(t *testing.T) {
	inv := createTestInvoice(t)

	// line 1: 3 x 200, 10% discount, 15% tax -> net 540, tax 81, total 621
	_, err := inv.AddItem(uuid.New(), "Widget", "W-1", "pcs",
		d("3"), d("200"), d("10"), decimal.Zero, d("15"))
	require.NoError(t, err)

	// line 2: 2 x 50 plain -> 100
	_, err = inv.AddItem(uuid.New(), "Gadget", "G-1", "pcs",
		d("2"), d("50"), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, d("721").Equal(inv.SubTotal), "subtotal: got %s", inv.SubTotal)
	assert.True(t, d("81").Equal(inv.TaxAmount), "tax: got %s", inv.TaxAmount)

	// invoice-level fixed discount of 21
	require.NoError(t, inv.SetDiscount(decimal.Zero, d("21")))
	assert.True(t, d("21").Equal(inv.DiscountAmount))
	assert.True(t, d("700").Equal(inv.TotalAmount), "total: got %s", inv.TotalAmount)
	assert.True(t, d("700").Equal(inv.RemainingAmount))
}

func TestInvoice_InvoicePercentDiscountPriority(t *testing.T) {
	inv := createTestInvoice(t)
	addTestItem(t, inv, 1, 1000)

	// percent wins over the fixed amount
	require.NoError(t, inv.SetDiscount(d("5"), d("999")))
	assert.True(t, d("50").Equal(inv.DiscountAmount), "got %s", inv.DiscountAmount)
	assert.True(t, d("950").Equal(inv.TotalAmount))
}

func TestInvoice_SetDiscount_ExceedsSubtotal(t *testing.T) {
	inv := createTestInvoice(t)
	addTestItem(t, inv, 1, 100)

	err := inv.SetDiscount(decimal.Zero, d("150"))
	assertDomainErrorCode(t, err, "INVALID_DISCOUNT")

	// invoice left unchanged after the rejected discount
	assert.True(t, inv.DiscountAmount.IsZero())
	assert.True(t, d("100").Equal(inv.TotalAmount))
}

func TestInvoice_UpdateItem(t *testing.T) {
	inv := createTestInvoice(t)
	item := addTestItem(t, inv, 2, 100)

	err := inv.UpdateItem(item.ID, d("4"), d("100"), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, d("400").Equal(inv.SubTotal))

	err = inv.UpdateItem(uuid.New(), d("1"), d("1"), decimal.Zero, decimal.Zero, decimal.Zero)
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

func TestInvoice_RemoveItem(t *testing.T) {
	inv := createTestInvoice(t)
	item := addTestItem(t, inv, 2, 100)
	addTestItem(t, inv, 1, 50)

	require.NoError(t, inv.RemoveItem(item.ID))
	assert.Len(t, inv.Items, 1)
	assert.True(t, d("50").Equal(inv.SubTotal))

	err := inv.RemoveItem(uuid.New())
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

func TestInvoice_ItemMutationRequiresDraft(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	itemID := inv.Items[0].ID

	_, err := inv.AddItem(uuid.New(), "P", "C", "pcs", d("1"), d("1"), decimal.Zero, decimal.Zero, decimal.Zero)
	assertDomainErrorCode(t, err, "INVALID_STATE")

	err = inv.UpdateItem(itemID, d("2"), d("100"), decimal.Zero, decimal.Zero, decimal.Zero)
	assertDomainErrorCode(t, err, "INVALID_STATE")

	err = inv.RemoveItem(itemID)
	assertDomainErrorCode(t, err, "INVALID_STATE")

	err = inv.SetDiscount(d("5"), decimal.Zero)
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

// ============================================
// Lifecycle Tests
// ============================================

func TestInvoice_Confirm(t *testing.T) {
	inv := createTestInvoice(t)
	addTestItem(t, inv, 1, 100)

	require.NoError(t, inv.Confirm())
	assert.Equal(t, InvoiceStatusConfirmed, inv.Status)
	assert.NotNil(t, inv.ConfirmedAt)
}

func TestInvoice_Confirm_EmptyInvoice(t *testing.T) {
	inv := createTestInvoice(t)

	err := inv.Confirm()
	assertDomainErrorCode(t, err, "EMPTY_INVOICE")
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
}

func TestInvoice_Confirm_AlreadyConfirmed(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	err := inv.Confirm()
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestInvoice_Unconfirm(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	require.NoError(t, inv.Unconfirm())
	assert.Equal(t, InvoiceStatusDraft, inv.Status)
	assert.Nil(t, inv.ConfirmedAt)
	assert.True(t, inv.IsEditable())
}

func TestInvoice_Unconfirm_WithPayments(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	_, err := inv.ApplyPayment(uuid.New(), d("40"), PaymentMethodCash, "")
	require.NoError(t, err)

	err = inv.Unconfirm()
	assertDomainErrorCode(t, err, "HAS_PAYMENTS")
}

func TestInvoice_Unconfirm_FullyPaid(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	_, err := inv.ApplyPayment(uuid.New(), d("100"), PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	err = inv.Unconfirm()
	assertDomainErrorCode(t, err, "HAS_PAYMENTS")
}

func TestInvoice_Cancel(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	require.NoError(t, inv.Cancel("customer withdrew"))
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	assert.Equal(t, "customer withdrew", inv.CancelReason)
	assert.NotNil(t, inv.CancelledAt)
}

func TestInvoice_Cancel_Draft(t *testing.T) {
	inv := createTestInvoice(t)
	require.NoError(t, inv.Cancel(""))
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
}

func TestInvoice_Cancel_WithPayments(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	_, err := inv.ApplyPayment(uuid.New(), d("100"), PaymentMethodCash, "")
	require.NoError(t, err)

	err = inv.Cancel("")
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

// ============================================
// Payment Application Tests
// ============================================

func TestInvoice_ApplyPayment_Partial(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	rec, err := inv.ApplyPayment(uuid.New(), d("40"), PaymentMethodBankTransfer, "wire-1")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartialPaid, inv.Status)
	assert.True(t, d("40").Equal(inv.PaidAmount))
	assert.True(t, d("60").Equal(inv.RemainingAmount))
	assert.Equal(t, PaymentRecordStatusActive, rec.Status)
	assert.Equal(t, "wire-1", rec.Reference)
}

func TestInvoice_ApplyPayment_Full(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	_, err := inv.ApplyPayment(uuid.New(), d("100"), PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.RemainingAmount.IsZero())
	assert.NotNil(t, inv.PaidAt)
	assert.True(t, inv.IsFullyPaid())
}

func TestInvoice_ApplyPayment_TwoInstallments(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	_, err := inv.ApplyPayment(uuid.New(), d("60"), PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartialPaid, inv.Status)

	_, err = inv.ApplyPayment(uuid.New(), d("40"), PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Len(t, inv.PaymentRecords, 2)
	assert.True(t, d("100").Equal(inv.ActivePaymentTotal()))
}

func TestInvoice_ApplyPayment_Overpayment(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	_, err := inv.ApplyPayment(uuid.New(), d("100.01"), PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "OVERPAYMENT")

	_, err = inv.ApplyPayment(uuid.New(), d("60"), PaymentMethodCash, "")
	require.NoError(t, err)
	_, err = inv.ApplyPayment(uuid.New(), d("40.01"), PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "OVERPAYMENT")
}

func TestInvoice_ApplyPayment_AfterFullyPaid(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 500)

	_, err := inv.ApplyPayment(uuid.New(), d("200"), PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartialPaid, inv.Status)

	_, err = inv.ApplyPayment(uuid.New(), d("300"), PaymentMethodCash, "")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.True(t, inv.RemainingAmount.IsZero())

	_, err = inv.ApplyPayment(uuid.New(), d("1"), PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "OVERPAYMENT")
}

func TestInvoice_ApplyPayment_InvalidInputs(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	_, err := inv.ApplyPayment(uuid.New(), decimal.Zero, PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "INVALID_AMOUNT")

	_, err = inv.ApplyPayment(uuid.New(), d("-5"), PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "INVALID_AMOUNT")

	_, err = inv.ApplyPayment(uuid.New(), d("10"), PaymentMethod("BARTER"), "")
	assertDomainErrorCode(t, err, "INVALID_PAYMENT_METHOD")
}

func TestInvoice_ApplyPayment_WrongState(t *testing.T) {
	inv := createTestInvoice(t)
	addTestItem(t, inv, 1, 100)

	_, err := inv.ApplyPayment(uuid.New(), d("10"), PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestInvoice_ApplyPayment_QuotationRejected(t *testing.T) {
	tenantID := uuid.New()
	inv, err := NewInvoice(tenantID, "QTE-20260901-00001", InvoiceTypeQuotation, nil, "", time.Now(), nil)
	require.NoError(t, err)
	addTestItem(t, inv, 1, 100)
	require.NoError(t, inv.Confirm())

	_, err = inv.ApplyPayment(uuid.New(), d("10"), PaymentMethodCash, "")
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

// ============================================
// Payment Reversal and Refund Tests
// ============================================

func TestInvoice_ReversePayment(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	paymentID := uuid.New()
	_, err := inv.ApplyPayment(paymentID, d("100"), PaymentMethodCash, "")
	require.NoError(t, err)
	require.Equal(t, InvoiceStatusPaid, inv.Status)

	amount, err := inv.ReversePayment(paymentID)
	require.NoError(t, err)
	assert.True(t, d("100").Equal(amount))
	assert.Equal(t, InvoiceStatusConfirmed, inv.Status)
	assert.True(t, inv.PaidAmount.IsZero())
	assert.True(t, d("100").Equal(inv.RemainingAmount))
	assert.Nil(t, inv.PaidAt)
	assert.False(t, inv.HasActivePayments())
}

func TestInvoice_ReversePayment_OneOfTwo(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	first := uuid.New()
	second := uuid.New()
	_, err := inv.ApplyPayment(first, d("60"), PaymentMethodCash, "")
	require.NoError(t, err)
	_, err = inv.ApplyPayment(second, d("40"), PaymentMethodCash, "")
	require.NoError(t, err)

	_, err = inv.ReversePayment(first)
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartialPaid, inv.Status)
	assert.True(t, d("40").Equal(inv.PaidAmount))
	assert.True(t, d("60").Equal(inv.RemainingAmount))
}

func TestInvoice_ReversePayment_NotFound(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	paymentID := uuid.New()
	_, err := inv.ApplyPayment(paymentID, d("50"), PaymentMethodCash, "")
	require.NoError(t, err)

	_, err = inv.ReversePayment(uuid.New())
	assertDomainErrorCode(t, err, "NOT_FOUND")

	// already reversed records are not reversible again
	_, err = inv.ReversePayment(paymentID)
	require.NoError(t, err)
	_, err = inv.ReversePayment(paymentID)
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

func TestInvoice_Refund(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	_, err := inv.ApplyPayment(uuid.New(), d("60"), PaymentMethodCash, "")
	require.NoError(t, err)
	_, err = inv.ApplyPayment(uuid.New(), d("40"), PaymentMethodCard, "")
	require.NoError(t, err)

	refunded, err := inv.Refund("defective goods")
	require.NoError(t, err)
	assert.True(t, d("100").Equal(refunded))
	assert.Equal(t, InvoiceStatusRefunded, inv.Status)
	assert.Equal(t, "defective goods", inv.RefundReason)
	assert.True(t, inv.PaidAmount.IsZero())
	assert.True(t, inv.RemainingAmount.IsZero())
	assert.NotNil(t, inv.RefundedAt)
	for _, rec := range inv.PaymentRecords {
		assert.Equal(t, PaymentRecordStatusReversed, rec.Status)
	}
}

func TestInvoice_Refund_WrongState(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)

	_, err := inv.Refund("")
	assertDomainErrorCode(t, err, "INVALID_STATE")
}

// ============================================
// PaymentRecords Serialization Tests
// ============================================

func TestPaymentRecords_ScanAndValue(t *testing.T) {
	inv := confirmedTestInvoice(t, 1, 100)
	_, err := inv.ApplyPayment(uuid.New(), d("40"), PaymentMethodCash, "ref-1")
	require.NoError(t, err)

	value, err := inv.PaymentRecords.Value()
	require.NoError(t, err)

	var restored PaymentRecords
	require.NoError(t, restored.Scan(value))
	require.Len(t, restored, 1)
	assert.True(t, d("40").Equal(restored[0].Amount))
	assert.Equal(t, PaymentMethodCash, restored[0].Method)
	assert.Equal(t, "ref-1", restored[0].Reference)
}

func TestPaymentRecords_ScanNil(t *testing.T) {
	var records PaymentRecords
	require.NoError(t, records.Scan(nil))
	assert.Empty(t, records)
}
