package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	infraRepo "github.com/tilldesk/tilldesk-api/internal/infrastructure/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name  string
	Email *string
	Phone *string
	Tier  string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Organization context required")
	}

	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}

	tier := input.Tier
	switch tier {
	case "":
		tier = entity.CustomerTierStandard
	case entity.CustomerTierStandard, entity.CustomerTierSilver, entity.CustomerTierGold:
	default:
		return nil, apperror.NewBadRequestError("Invalid customer tier")
	}

	customer := &entity.Customer{
		OrganizationID: orgID,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Tier:           tier,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, params, search)
}
