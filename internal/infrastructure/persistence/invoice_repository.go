package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/billing/backend/internal/domain/invoicing"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository.
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice and replaces its line items.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(&model).Error; err != nil {
			return err
		}
		return r.saveItems(tx, model)
	})
}

// SaveWithLock updates an invoice with an optimistic version check.
// Returns shared.ErrConcurrencyConflict when the stored version no
// longer matches the aggregate's version.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := invoice.Version
		invoice.Version++
		invoice.UpdatedAt = time.Now()

		model := models.InvoiceModelFromDomain(invoice)
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND tenant_id = ? AND version = ?", invoice.ID, invoice.TenantID, currentVersion).
			Updates(map[string]interface{}{
				"status":           model.Status,
				"customer_id":      model.CustomerID,
				"customer_name":    model.CustomerName,
				"invoice_date":     model.InvoiceDate,
				"due_date":         model.DueDate,
				"sub_total":        model.SubTotal,
				"discount_percent": model.DiscountPercent,
				"discount_amount":  model.DiscountAmount,
				"tax_amount":       model.TaxAmount,
				"total_amount":     model.TotalAmount,
				"paid_amount":      model.PaidAmount,
				"remaining_amount": model.RemainingAmount,
				"payment_method":   model.PaymentMethod,
				"payment_records":  model.PaymentRecords,
				"notes":            model.Notes,
				"confirmed_at":     model.ConfirmedAt,
				"cancelled_at":     model.CancelledAt,
				"refunded_at":      model.RefundedAt,
				"paid_at":          model.PaidAt,
				"cancel_reason":    model.CancelReason,
				"refund_reason":    model.RefundReason,
				"version":          model.Version,
				"updated_at":       model.UpdatedAt,
			})
		if result.Error != nil {
			invoice.Version = currentVersion
			return result.Error
		}
		if result.RowsAffected == 0 {
			invoice.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		if err := r.saveItems(tx, model); err != nil {
			return err
		}
		return nil
	})
}

// saveItems replaces the stored line items with the aggregate's
// current set.
func (r *GormInvoiceRepository) saveItems(tx *gorm.DB, model *models.InvoiceModel) error {
	itemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		itemIDs[i] = item.ID
	}

	if len(itemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", model.ID, itemIDs).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", model.ID).
			Delete(&models.LineItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Items {
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads an invoice with its line items.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber loads an invoice by its document number.
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND invoice_number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices matching the filter with pagination.
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter invoicing.InvoiceFilter) (shared.Paginated[invoicing.Invoice], error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return shared.Paginated[invoicing.Invoice]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var invoiceModels []models.InvoiceModel
	if err := query.
		Preload("Items").
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&invoiceModels).Error; err != nil {
		return shared.Paginated[invoicing.Invoice]{}, err
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return shared.NewPaginated(invoices, total, filter.Page, filter.PageSize), nil
}

// Delete soft-deletes an invoice. Line items are kept so the
// document can be restored or audited later.
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.InvoiceModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HasOpenInvoices reports whether the customer has any invoice that
// is confirmed but not yet fully settled.
func (r *GormInvoiceRepository) HasOpenInvoices(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND customer_id = ? AND status IN ?", tenantID, customerID,
			[]invoicing.InvoiceStatus{invoicing.InvoiceStatusConfirmed, invoicing.InvoiceStatusPartialPaid}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateNumber produces the next sequential document number for
// the invoice type, scoped to the tenant and the current day,
// e.g. INV-20260901-00042.
func (r *GormInvoiceRepository) GenerateNumber(ctx context.Context, tenantID uuid.UUID, invoiceType invoicing.InvoiceType) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", invoiceType.NumberPrefix(), time.Now().Format("20060102"))

	var lastNumber string
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("tenant_id = ? AND invoice_number LIKE ?", tenantID, prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, nextSequence(lastNumber)), nil
}

// CountByStatus returns invoice counts grouped by status.
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[invoicing.InvoiceStatus]int64, error) {
	type statusCount struct {
		Status invoicing.InvoiceStatus
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[invoicing.InvoiceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumOutstanding returns the total remaining balance of confirmed and
// partially paid invoices.
func (r *GormInvoiceRepository) SumOutstanding(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]invoicing.InvoiceStatus{invoicing.InvoiceStatusConfirmed, invoicing.InvoiceStatusPartialPaid}).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		query = query.Where("invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("invoice_date <= ?", *filter.DateTo)
	}
	if filter.Overdue {
		query = query.Where("due_date < ? AND status IN ?", time.Now(),
			[]invoicing.InvoiceStatus{invoicing.InvoiceStatusConfirmed, invoicing.InvoiceStatusPartialPaid})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	return query
}

// nextSequence parses the trailing sequence of a document number and
// returns its successor, starting at 1 when there is no predecessor.
func nextSequence(lastNumber string) int64 {
	if lastNumber == "" {
		return 1
	}
	parts := strings.Split(lastNumber, "-")
	var num int64
	if _, err := fmt.Sscanf(parts[len(parts)-1], "%d", &num); err != nil {
		return 1
	}
	return num + 1
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
