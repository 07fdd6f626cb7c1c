package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC,
// defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist and
// returns defaultField when it is empty or not allowed.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// InvoiceSortFields contains allowed sort fields for invoices.
var InvoiceSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"invoice_number":   true,
	"type":             true,
	"status":           true,
	"customer_name":    true,
	"invoice_date":     true,
	"due_date":         true,
	"total_amount":     true,
	"paid_amount":      true,
	"remaining_amount": true,
}

// PaymentSortFields contains allowed sort fields for payments.
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"customer_name":  true,
	"payment_date":   true,
	"amount":         true,
	"method":         true,
	"status":         true,
}

// CustomerSortFields contains allowed sort fields for customers.
var CustomerSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"type":         true,
	"status":       true,
	"credit_limit": true,
}

// ProductSortFields contains allowed sort fields for products.
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"unit_price": true,
	"status":     true,
}
