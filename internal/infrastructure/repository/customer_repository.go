package repository

import (
	"context"
	"errors"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	domainRepo "github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Resolve(ctx context.Context, identifier string) (*entity.Customer, error) {
	if id, err := uuid.Parse(identifier); err == nil && utils.IsUUID(identifier) {
		customer, err := r.GetByID(ctx, id)
		if err != nil || customer != nil {
			return customer, err
		}
		// Imported legacy ids may themselves look like UUIDs.
	}

	var customer entity.Customer
	err := r.db.WithContext(ctx).
		Scopes(NotDeleted).
		Where("firebase_id = ? OR customer_number = ?", identifier, identifier).
		Order("created_at ASC").
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Customer{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *customerRepository) List(ctx context.Context, params *domainRepo.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(NotDeleted, Search(params.Search, "name", "email", "phone", "customer_number"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("created_at DESC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) CountNumbersWithPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Customer{}).
		Where("customer_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}
