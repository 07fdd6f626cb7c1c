package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
)

func TestGormPaymentRepository_FindByID(t *testing.T) {
	t.Run("finds existing payment", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(db)

		paymentID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "version", "payment_number", "customer_id", "amount", "method", "status"}).
			AddRow(paymentID, tenantID, 1, "PAY-20260901-00007", uuid.New(), "150.00", "BANK_TRANSFER", "ACTIVE")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE \(tenant_id = \$1 AND id = \$2\) AND "payments"\."deleted_at" IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, paymentID, 1).
			WillReturnRows(rows)

		payment, err := repo.FindByID(context.Background(), tenantID, paymentID)

		require.NoError(t, err)
		assert.Equal(t, "PAY-20260901-00007", payment.PaymentNumber)
		assert.Equal(t, invoicing.PaymentStatusActive, payment.Status)
		assert.Equal(t, "150", payment.Amount.String())
	})

	t.Run("returns ErrNotFound for missing payment", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "payments"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindByID(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPaymentRepository_FindByInvoice(t *testing.T) {
	t.Run("lists payments ordered by date", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(db)

		tenantID := uuid.New()
		invoiceID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "version", "payment_number", "customer_id", "invoice_id", "amount", "method", "status"}).
			AddRow(uuid.New(), tenantID, 1, "PAY-20260901-00001", uuid.New(), invoiceID, "100", "CASH", "ACTIVE").
			AddRow(uuid.New(), tenantID, 1, "PAY-20260901-00002", uuid.New(), invoiceID, "50", "CASH", "ACTIVE")

		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE \(tenant_id = \$1 AND invoice_id = \$2\) AND "payments"\."deleted_at" IS NULL ORDER BY payment_date ASC`).
			WithArgs(tenantID, invoiceID).
			WillReturnRows(rows)

		payments, err := repo.FindByInvoice(context.Background(), tenantID, invoiceID)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "PAY-20260901-00001", payments[0].PaymentNumber)
	})
}

func TestGormPaymentRepository_GenerateNumber(t *testing.T) {
	t.Run("increments the last sequence", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPaymentRepository(db)

		mock.ExpectQuery(`SELECT "payment_number" FROM "payments"`).
			WillReturnRows(sqlmock.NewRows([]string{"payment_number"}).AddRow("PAY-20260901-00006"))

		number, err := repo.GenerateNumber(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Regexp(t, `^PAY-\d{8}-00007$`, number)
	})
}
