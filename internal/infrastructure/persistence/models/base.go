package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/billing/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields mapped to the domain's
// BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TenantAggregateModel provides the persistence fields shared by all
// tenant-scoped aggregate roots, including the optimistic lock
// version.
type TenantAggregateModel struct {
	BaseModel
	Version   int            `gorm:"not null;default:1"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// FromDomainRoot populates the model from a domain aggregate root.
func (m *TenantAggregateModel) FromDomainRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.Version = t.Version
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// ToDomainRoot builds a domain aggregate root from the model fields.
func (m *TenantAggregateModel) ToDomainRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}
