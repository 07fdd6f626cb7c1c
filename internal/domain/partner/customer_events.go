package partner

import (
	"github.com/billing/backend/internal/domain/shared"
)

const aggregateTypeCustomer = "Customer"

// CustomerCreatedEvent is raised when a customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Code string       `json:"code"`
	Name string       `json:"name"`
	Type CustomerType `json:"customer_type"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.created", aggregateTypeCustomer, customer.ID, customer.TenantID),
		Code:            customer.Code,
		Name:            customer.Name,
		Type:            customer.Type,
	}
}

// CustomerUpdatedEvent is raised when customer details change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.updated", aggregateTypeCustomer, customer.ID, customer.TenantID),
		Code:            customer.Code,
		Name:            customer.Name,
	}
}

// CustomerStatusChangedEvent is raised when a customer is activated or deactivated
type CustomerStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string         `json:"code"`
	NewStatus CustomerStatus `json:"new_status"`
}

// NewCustomerStatusChangedEvent creates a new CustomerStatusChangedEvent
func NewCustomerStatusChangedEvent(customer *Customer, newStatus CustomerStatus) *CustomerStatusChangedEvent {
	return &CustomerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.status_changed", aggregateTypeCustomer, customer.ID, customer.TenantID),
		Code:            customer.Code,
		NewStatus:       newStatus,
	}
}
