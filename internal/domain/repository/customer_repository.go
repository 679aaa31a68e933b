package repository

import (
	"context"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data operations.
// Soft-deleted customers are invisible to every read.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// Resolve finds a customer by any of its identifiers: the row id, the
	// customer number or the legacy id.
	Resolve(ctx context.Context, identifier string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
	// CountNumbersWithPrefix counts customer numbers starting with prefix,
	// deleted rows included, so numbers are never reused.
	CountNumbersWithPrefix(ctx context.Context, prefix string) (int64, error)
}

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}
