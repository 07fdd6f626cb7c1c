package catalog

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter carries query options for listing products
type ProductFilter struct {
	shared.Filter
	Status *ProductStatus
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error

	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Product, error)

	FindAll(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) (shared.Paginated[Product], error)

	// FindByIDs loads multiple products in one query, used when building invoices
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
