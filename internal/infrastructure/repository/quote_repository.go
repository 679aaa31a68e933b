package repository

import (
	"context"
	"errors"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	domainRepo "github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"gorm.io/gorm"
)

type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) domainRepo.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(quote).Error
}

func (r *quoteRepository) GetByIDOrLegacy(ctx context.Context, id string) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Scopes(NotDeleted).
		Where("id = ? OR firebase_id = ?", id, id).
		Order("created_at ASC").
		First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) GetByToken(ctx context.Context, token string) (*entity.Quote, error) {
	if token == "" {
		return nil, nil
	}
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Scopes(NotDeleted).
		First(&quote, "confirmation_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &quote, err
}

func (r *quoteRepository) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entity.Quote{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *quoteRepository) SoftDelete(ctx context.Context, id string) error {
	return r.Updates(ctx, id, map[string]interface{}{"is_deleted": true})
}

func (r *quoteRepository) List(ctx context.Context, params *domainRepo.QuoteFilterParams) ([]entity.Quote, int64, error) {
	var quotes []entity.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quote{}).
		Scopes(NotDeleted, Search(params.Search, "customer_name", "id", "move_from", "move_to"))

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Company != nil {
		query = query.Where("company = ?", *params.Company)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Order("created_at DESC").
		Find(&quotes).Error

	return quotes, total, err
}
