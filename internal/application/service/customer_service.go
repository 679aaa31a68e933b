package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, now: time.Now}
}

// CustomerInput holds the writable customer fields.
type CustomerInput struct {
	LegacyID    *string          `json:"legacy_id" validate:"omitempty,max=128"`
	Salutation  string           `json:"salutation"`
	Name        string           `json:"name" validate:"required,max=255"`
	Email       string           `json:"email" validate:"omitempty,email"`
	Phone       string           `json:"phone" validate:"max=50"`
	Street      string           `json:"street" validate:"max=255"`
	Zip         string           `json:"zip" validate:"max=10"`
	City        string           `json:"city" validate:"max=100"`
	FromAddress string           `json:"from_address"`
	ToAddress   string           `json:"to_address"`
	MovingDate  *time.Time       `json:"moving_date"`
	Apartment   entity.Apartment `json:"apartment"`
	Notes       *string          `json:"notes"`
}

// UpdateCustomerInput changes only the non-nil fields.
type UpdateCustomerInput struct {
	Salutation  *string           `json:"salutation"`
	Name        *string           `json:"name" validate:"omitempty,min=1,max=255"`
	Email       *string           `json:"email" validate:"omitempty,email"`
	Phone       *string           `json:"phone" validate:"omitempty,max=50"`
	Street      *string           `json:"street" validate:"omitempty,max=255"`
	Zip         *string           `json:"zip" validate:"omitempty,max=10"`
	City        *string           `json:"city" validate:"omitempty,max=100"`
	FromAddress *string           `json:"from_address"`
	ToAddress   *string           `json:"to_address"`
	MovingDate  *time.Time        `json:"moving_date"`
	Apartment   *entity.Apartment `json:"apartment"`
	Notes       *string           `json:"notes"`
}

func validateApartment(a entity.Apartment) error {
	if a.Area < 0 || a.Floor < 0 || a.Rooms < 0 {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "apartment", Message: "Rooms, area and floor must not be negative"},
		})
	}
	return nil
}

// CreateCustomer creates a customer with the next free customer number.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if err := validateApartment(input.Apartment); err != nil {
		return nil, err
	}

	number, err := s.nextCustomerNumber(ctx)
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		CustomerNumber: number,
		LegacyID:       input.LegacyID,
		Salutation:     enum.ParseSalutation(input.Salutation),
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.TrimSpace(input.Email),
		Phone:          input.Phone,
		Street:         input.Street,
		Zip:            input.Zip,
		City:           input.City,
		FromAddress:    input.FromAddress,
		ToAddress:      input.ToAddress,
		MovingDate:     input.MovingDate,
		Apartment:      input.Apartment,
		Notes:          input.Notes,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, apperror.NewPersistenceError("create customer", err)
	}
	return customer, nil
}

func (s *CustomerService) nextCustomerNumber(ctx context.Context) (string, error) {
	year := s.now().Year()
	count, err := s.customerRepo.CountNumbersWithPrefix(ctx, fmt.Sprintf("K%04d-", year))
	if err != nil {
		return "", apperror.NewPersistenceError("allocate customer number", err)
	}
	return utils.GenerateCustomerNumber(year, int(count)+1), nil
}

// ResolveCustomer finds a customer by row id, customer number or legacy id.
func (s *CustomerService) ResolveCustomer(ctx context.Context, identifier string) (*entity.Customer, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperror.NewCustomerNotFoundError(identifier)
	}
	customer, err := s.customerRepo.Resolve(ctx, identifier)
	if err != nil {
		return nil, apperror.NewPersistenceError("load customer", err)
	}
	if customer == nil {
		return nil, apperror.NewCustomerNotFoundError(identifier)
	}
	return customer, nil
}

// ListCustomers returns one page of customers matching search.
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, &repository.CustomerFilterParams{
		Pagination: params,
		Search:     search,
	})
	if err != nil {
		return nil, apperror.NewPersistenceError("list customers", err)
	}
	return pagination.NewPaginatedResult(customers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateCustomer applies the non-nil fields of input.
func (s *CustomerService) UpdateCustomer(ctx context.Context, identifier string, input *UpdateCustomerInput) (*entity.Customer, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Apartment != nil {
		if err := validateApartment(*input.Apartment); err != nil {
			return nil, err
		}
	}

	customer, err := s.ResolveCustomer(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if input.Salutation != nil {
		customer.Salutation = enum.ParseSalutation(*input.Salutation)
	}
	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Street != nil {
		customer.Street = *input.Street
	}
	if input.Zip != nil {
		customer.Zip = *input.Zip
	}
	if input.City != nil {
		customer.City = *input.City
	}
	if input.FromAddress != nil {
		customer.FromAddress = *input.FromAddress
	}
	if input.ToAddress != nil {
		customer.ToAddress = *input.ToAddress
	}
	if input.MovingDate != nil {
		customer.MovingDate = input.MovingDate
	}
	if input.Apartment != nil {
		customer.Apartment = *input.Apartment
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, apperror.NewPersistenceError("update customer", err)
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer; its quotes stay untouched.
func (s *CustomerService) DeleteCustomer(ctx context.Context, identifier string) error {
	customer, err := s.ResolveCustomer(ctx, identifier)
	if err != nil {
		return err
	}
	if err := s.customerRepo.SoftDelete(ctx, customer.ID); err != nil {
		return apperror.NewPersistenceError("delete customer", err)
	}
	return nil
}
