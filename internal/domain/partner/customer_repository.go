package partner

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerFilter carries query options for listing customers
type CustomerFilter struct {
	shared.Filter
	Status *CustomerStatus
	Type   *CustomerType
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Customer, error)

	FindAll(ctx context.Context, tenantID uuid.UUID, filter CustomerFilter) (shared.Paginated[Customer], error)

	// ExistsByCode reports whether a customer with the code already exists
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)

	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
