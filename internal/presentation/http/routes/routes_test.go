package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/database"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/handler"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/middleware"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/email"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []*email.Message
}

func (s *recordingSender) Send(_ context.Context, msg *email.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return "<test@relocato.de>", nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	sender *recordingSender
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	log := zap.NewNop()
	require.NoError(t, database.AutoMigrate(db, log))
	require.NoError(t, database.SeedDefaultData(db, database.AdminSeed{
		Email:    "admin@relocato.de",
		Password: "geheim123",
		Name:     "Sergej Schulz",
	}, log))

	cfg := &config.Config{
		App:       config.AppConfig{Name: "test", FrontendURL: "https://crm.relocato.de"},
		Company:   config.CompanyConfig{Default: "relocato", IBAN: "DE89370400440532013000"},
		Quote:     config.QuoteConfig{OfferValidityDays: 30, PaymentTermDays: 14},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 60, PublicRequests: 1000},
	}
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	sender := &recordingSender{}

	customers := service.NewCustomerService(customerRepo)
	companies := service.NewCompanyService(cfg.Company)
	pricing := service.NewPricingService()
	quotes := service.NewQuoteService(quoteRepo, customerRepo, pricing, companies, log)
	dispatch := service.NewDispatchService(quotes, service.NewDocumentService(cfg.Quote),
		repository.NewDocumentCounterRepository(db), companies, sender, cfg.App.FrontendURL, log)

	userLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Requests: 1000, Per: time.Minute})
	publicLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Requests: 1000, Per: time.Minute})
	t.Cleanup(userLimiter.Stop)
	t.Cleanup(publicLimiter.Stop)

	router := Setup(&Handlers{
		Health:   handler.NewHealthHandler(db, "test"),
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, jwt, log)),
		User:     handler.NewUserHandler(service.NewUserService(userRepo, log)),
		Customer: handler.NewCustomerHandler(customers),
		Company:  handler.NewCompanyHandler(companies),
		Pricing:  handler.NewPricingHandler(pricing, customers),
		Quote:    handler.NewQuoteHandler(quotes, dispatch, service.NewExportService(quotes, companies)),
		Public:   handler.NewPublicQuoteHandler(quotes, companies),
	}, &Deps{
		JWTManager:      jwt,
		Cfg:             cfg,
		Logger:          log,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		UserLimiter:     userLimiter,
		PublicLimiter:   publicLimiter,
	})

	s := &testServer{router: router, db: db, sender: sender}

	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "admin@relocato.de",
		"password": "geheim123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	s.token = login.Data.AccessToken
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

func (s *testServer) createCustomer(t *testing.T) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/customers", map[string]interface{}{
		"salutation":   "frau",
		"name":         "Anna Becker",
		"email":        "anna@example.de",
		"street":       "Hauptstraße 12",
		"zip":          "33602",
		"city":         "Bielefeld",
		"from_address": "Hauptstraße 12, 33602 Bielefeld",
		"to_address":   "Ringstraße 4, 32052 Herford",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData(t, w)
}

func (s *testServer) createQuote(t *testing.T, customerRef string, header map[string]string) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/quotes", map[string]interface{}{
		"customer_id": customerRef,
		"details": map[string]interface{}{
			"volume":   20,
			"distance": 50,
			"services": []map[string]interface{}{{"kind": "cleaning", "quantity": 3}},
		},
	}, header)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData(t, w)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	w := s.do(t, http.MethodGet, "/api/v1/quotes", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQuoteLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	customer := s.createCustomer(t)
	number := customer["customer_number"].(string)

	quote := s.createQuote(t, number, nil)
	assert.Equal(t, customer["id"], quote["customer_id"])
	assert.Equal(t, "draft", quote["status"])
	assert.Equal(t, "1194.76", quote["price"])
	assert.Equal(t, "admin@relocato.de", quote["created_by"])
	id := quote["id"].(string)

	w := s.do(t, http.MethodGet, "/api/v1/quotes/"+id+"/pdf?mode=invoice", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = s.do(t, http.MethodPost, "/api/v1/quotes/"+id+"/send", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decodeData(t, w)["sent"])
	require.Len(t, s.sender.sent, 1)
	assert.Equal(t, "anna@example.de", s.sender.sent[0].To)

	var stored entity.Quote
	require.NoError(t, s.db.First(&stored, "id = ?", id).Error)
	require.NotNil(t, stored.ConfirmationToken)
	token := *stored.ConfirmationToken

	// The public page needs no login.
	s.token = ""
	w = s.do(t, http.MethodGet, "/api/v1/public/quotes/"+token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sent", decodeData(t, w)["status"])

	w = s.do(t, http.MethodPost, "/api/v1/public/quotes/"+token+"/accept", map[string]string{"name": "Anna Becker"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decodeData(t, w)["status"])

	w = s.do(t, http.MethodPost, "/api/v1/public/quotes/"+token+"/reject", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/public/quotes/unknown-token", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateQuoteUnknownCustomer(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/quotes", map[string]interface{}{
		"customer_id": "K1999-0042",
		"volume":      10,
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&entity.Quote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateQuoteIdempotencyKeyReplays(t *testing.T) {
	s := newTestServer(t)
	customer := s.createCustomer(t)

	header := map[string]string{middleware.IdempotencyKeyHeader: "angebot-anna-1"}
	first := s.createQuote(t, customer["id"].(string), header)
	second := s.createQuote(t, customer["id"].(string), header)
	assert.Equal(t, first["id"], second["id"])

	var count int64
	require.NoError(t, s.db.Model(&entity.Quote{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInvalidStatusTransitionConflicts(t *testing.T) {
	s := newTestServer(t)
	customer := s.createCustomer(t)
	id := s.createQuote(t, customer["id"].(string), nil)["id"].(string)

	w := s.do(t, http.MethodPut, "/api/v1/quotes/"+id+"/status", map[string]string{"status": "invoiced"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/quotes/"+id+"/status", map[string]string{"status": "foo"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPricingAndCompanyRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/pricing/calculate", map[string]interface{}{
		"volume":   20,
		"distance": 50,
		"service_flags": map[string]interface{}{
			"cleaning_service": false,
			"cleaning_hours":   5,
		},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	calc := decodeData(t, w)
	assert.Empty(t, calc["add_ons"])

	w = s.do(t, http.MethodGet, "/api/v1/companies/wertvoll", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wertvoll", decodeData(t, w)["key"])

	w = s.do(t, http.MethodGet, "/api/v1/companies/acme", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserManagementRequiresPermission(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/users", map[string]interface{}{
		"first_name": "Mia",
		"last_name":  "Kraus",
		"email":      "mia@relocato.de",
		"password":   "umzug2026",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []interface{}{"staff"}, decodeData(t, w)["roles"])

	// Staff may work on quotes but not manage accounts.
	s.token = ""
	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "mia@relocato.de",
		"password": "umzug2026",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	s.token = decodeData(t, w)["access_token"].(string)

	w = s.do(t, http.MethodGet, "/api/v1/users", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/quotes", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
