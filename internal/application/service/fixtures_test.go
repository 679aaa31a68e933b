package service

import (
	"context"
	"testing"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type serviceSet struct {
	db        *gorm.DB
	customers *CustomerService
	quotes    *QuoteService
}

func newServiceSet(t *testing.T) *serviceSet {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&entity.Customer{}, &entity.Quote{}, &entity.DocumentCounter{}))

	customerRepo := repository.NewCustomerRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)

	customers := NewCustomerService(customerRepo)
	customers.now = func() time.Time { return fixedNow }

	quotes := NewQuoteService(quoteRepo, customerRepo, NewPricingService(),
		NewCompanyService(config.CompanyConfig{Default: "relocato"}), zap.NewNop())
	quotes.now = func() time.Time { return fixedNow }

	return &serviceSet{db: db, customers: customers, quotes: quotes}
}

func (s *serviceSet) customer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	c, err := s.customers.CreateCustomer(context.Background(), &CustomerInput{
		Name:        name,
		Email:       "kunde@example.de",
		Street:      "Hauptstraße 12",
		Zip:         "33602",
		City:        "Bielefeld",
		FromAddress: "Hauptstraße 12, 33602 Bielefeld",
		ToAddress:   "Ringstraße 4, 32052 Herford",
		Apartment:   entity.Apartment{Rooms: 3, Area: 80, Floor: 2},
	})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }
