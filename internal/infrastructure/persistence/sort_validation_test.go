package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("sideways"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "invoice_number", ValidateSortField("invoice_number", InvoiceSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", InvoiceSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password; DROP TABLE invoices", InvoiceSortFields, "created_at"))
	assert.Equal(t, "amount", ValidateSortField("amount", PaymentSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("remaining_amount", PaymentSortFields, "created_at"))
}

func TestNextSequence(t *testing.T) {
	assert.Equal(t, int64(1), nextSequence(""))
	assert.Equal(t, int64(43), nextSequence("INV-20260901-00042"))
	assert.Equal(t, int64(8), nextSequence("PAY-20260901-00007"))
	assert.Equal(t, int64(1), nextSequence("garbage"))
}
