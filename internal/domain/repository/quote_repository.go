package repository

import (
	"context"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/enum"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/google/uuid"
)

// QuoteRepository defines the interface for quote data operations.
// Soft-deleted quotes are invisible to every read.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	// GetByIDOrLegacy matches the opaque id or the legacy id.
	GetByIDOrLegacy(ctx context.Context, id string) (*entity.Quote, error)
	GetByToken(ctx context.Context, token string) (*entity.Quote, error)
	// Updates writes only the given columns of the quote with the
	// canonical id.
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, id string) error
	// List returns one page of quotes, or all matches when Pagination is nil.
	List(ctx context.Context, params *QuoteFilterParams) ([]entity.Quote, int64, error)
}

// QuoteFilterParams contains filtering parameters for quote queries
type QuoteFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CustomerID *uuid.UUID
	Status     *enum.QuoteStatus
	Company    *enum.Company
}
