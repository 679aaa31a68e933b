package repository

import (
	"context"
	"errors"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	domainRepo "github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentCounterRepository struct {
	db *gorm.DB
}

// NewDocumentCounterRepository creates a new document counter repository
func NewDocumentCounterRepository(db *gorm.DB) domainRepo.DocumentCounterRepository {
	return &documentCounterRepository{db: db}
}

func (r *documentCounterRepository) Next(ctx context.Context, day string) (int, error) {
	var counter entity.DocumentCounter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.DocumentCounter{Day: day}).Error; err != nil {
			return err
		}
		// The row lock taken here serializes concurrent reservations.
		if err := tx.Model(&entity.DocumentCounter{}).
			Where("day = ?", day).
			UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Where("day = ?", day).First(&counter).Error
	})
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}

func (r *documentCounterRepository) Current(ctx context.Context, day string) (int, error) {
	var counter entity.DocumentCounter
	err := r.db.WithContext(ctx).Where("day = ?", day).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return counter.Value, nil
}
