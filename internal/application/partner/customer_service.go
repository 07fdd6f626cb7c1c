package partner

import (
	"context"

	"github.com/billing/backend/internal/domain/partner"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpenInvoiceChecker reports whether a customer still has invoices
// that carry an outstanding balance. Implemented by the invoicing
// persistence layer.
type OpenInvoiceChecker interface {
	HasOpenInvoices(ctx context.Context, tenantID, customerID uuid.UUID) (bool, error)
}

// CustomerService handles customer management operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	invoiceChecker OpenInvoiceChecker
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// SetInvoiceChecker wires the open-invoice guard used by Delete.
// Without it, deletion only requires the customer to exist.
func (s *CustomerService) SetInvoiceChecker(checker OpenInvoiceChecker) {
	s.invoiceChecker = checker
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Customer code is already in use")
	}

	customer, err := partner.NewCustomer(tenantID, req.Code, req.Name, partner.CustomerType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.ContactName != "" || req.Phone != "" || req.Email != "" {
		if err := customer.SetContact(req.ContactName, req.Phone, req.Email); err != nil {
			return nil, err
		}
	}
	if req.Address != "" || req.City != "" || req.PostalCode != "" || req.Country != "" {
		if err := customer.SetAddress(req.Address, req.City, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}
	if req.TaxID != "" {
		if err := customer.SetTaxID(req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil {
		if err := customer.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		customer.SetNotes(req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", customer.Code))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := partner.CustomerFilter{Filter: shared.DefaultFilter()}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		status := partner.CustomerStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.Type != "" {
		customerType := partner.CustomerType(filter.Type)
		domainFilter.Type = &customerType
	}

	page, err := s.customerRepo.FindAll(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToCustomerResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// Update updates a customer
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != customer.Code {
		exists, err := s.customerRepo.ExistsByCode(ctx, tenantID, *req.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.ErrAlreadyExists.WithMessage("Customer code is already in use")
		}
		if err := customer.UpdateCode(*req.Code); err != nil {
			return nil, err
		}
	}
	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil || req.Email != nil {
		contactName := customer.ContactName
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		phone := customer.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		email := customer.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.SetContact(contactName, phone, email); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.City != nil || req.PostalCode != nil || req.Country != nil {
		address := customer.Address
		if req.Address != nil {
			address = *req.Address
		}
		city := customer.City
		if req.City != nil {
			city = *req.City
		}
		postalCode := customer.PostalCode
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		country := customer.Country
		if req.Country != nil {
			country = *req.Country
		}
		if err := customer.SetAddress(address, city, postalCode, country); err != nil {
			return nil, err
		}
	}
	if req.TaxID != nil {
		if err := customer.SetTaxID(*req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.CreditLimit != nil {
		if err := customer.SetCreditLimit(*req.CreditLimit); err != nil {
			return nil, err
		}
	}
	if req.PaymentTermsDays != nil {
		if err := customer.SetPaymentTerms(*req.PaymentTermsDays); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.SetNotes(*req.Notes)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Activate activates a customer
func (s *CustomerService) Activate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Activate(); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer. A customer with open invoices cannot be
// deleted; deactivate it instead.
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, tenantID, customerID); err != nil {
		return err
	}
	if s.invoiceChecker != nil {
		open, err := s.invoiceChecker.HasOpenInvoices(ctx, tenantID, customerID)
		if err != nil {
			return err
		}
		if open {
			return shared.ErrInvalidState.WithMessage("Customer has open invoices and cannot be deleted")
		}
	}
	return s.customerRepo.Delete(ctx, tenantID, customerID)
}
