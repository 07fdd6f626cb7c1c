package partner

import (
	"testing"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCustomer(t *testing.T) *Customer {
	c, err := NewCustomer(uuid.New(), "cust-001", "Acme Corp", CustomerTypeOrganization)
	require.NoError(t, err)
	return c
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected DomainError, got %T", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestNewCustomer(t *testing.T) {
	c := createTestCustomer(t)

	assert.Equal(t, "CUST-001", c.Code) // uppercased
	assert.Equal(t, "Acme Corp", c.Name)
	assert.Equal(t, CustomerStatusActive, c.Status)
	assert.True(t, c.IsActive())
	assert.True(t, c.IsOrganization())
	assert.Len(t, c.GetDomainEvents(), 1)
}

func TestNewCustomer_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewCustomer(tenantID, "", "Acme", CustomerTypeIndividual)
	assertErrorCode(t, err, "INVALID_CODE")

	_, err = NewCustomer(tenantID, "bad code!", "Acme", CustomerTypeIndividual)
	assertErrorCode(t, err, "INVALID_CODE")

	_, err = NewCustomer(tenantID, "C-1", "", CustomerTypeIndividual)
	assertErrorCode(t, err, "INVALID_NAME")

	_, err = NewCustomer(tenantID, "C-1", "Acme", CustomerType("partnership"))
	assertErrorCode(t, err, "INVALID_TYPE")
}

func TestCustomer_SetContact(t *testing.T) {
	c := createTestCustomer(t)

	require.NoError(t, c.SetContact("Jane Doe", "+1 (555) 123-4567", "jane@acme.test"))
	assert.Equal(t, "Jane Doe", c.ContactName)

	err := c.SetContact("", "not-a-phone!", "")
	assertErrorCode(t, err, "INVALID_PHONE")

	err = c.SetContact("", "", "not-an-email")
	assertErrorCode(t, err, "INVALID_EMAIL")
}

func TestCustomer_SetPaymentTerms(t *testing.T) {
	c := createTestCustomer(t)

	require.NoError(t, c.SetPaymentTerms(30))
	assert.Equal(t, 30, c.PaymentTermsDays)

	err := c.SetPaymentTerms(-1)
	assertErrorCode(t, err, "INVALID_PAYMENT_TERMS")

	err = c.SetPaymentTerms(400)
	assertErrorCode(t, err, "INVALID_PAYMENT_TERMS")
}

func TestCustomer_SetCreditLimit(t *testing.T) {
	c := createTestCustomer(t)

	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(5000)))
	assert.True(t, decimal.NewFromInt(5000).Equal(c.CreditLimit))

	err := c.SetCreditLimit(decimal.NewFromInt(-1))
	assertErrorCode(t, err, "INVALID_CREDIT_LIMIT")
}

func TestCustomer_ActivateDeactivate(t *testing.T) {
	c := createTestCustomer(t)

	err := c.Activate()
	assertErrorCode(t, err, "ALREADY_ACTIVE")

	require.NoError(t, c.Deactivate())
	assert.False(t, c.IsActive())

	err = c.Deactivate()
	assertErrorCode(t, err, "ALREADY_INACTIVE")

	require.NoError(t, c.Activate())
	assert.True(t, c.IsActive())
}

func TestCustomer_GetFullAddress(t *testing.T) {
	c := createTestCustomer(t)
	require.NoError(t, c.SetAddress("1 Main St", "Springfield", "12345", "USA"))
	assert.Equal(t, "1 Main St, Springfield, 12345, USA", c.GetFullAddress())
}
