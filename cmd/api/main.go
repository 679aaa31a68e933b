package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/database"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/logger"
	infraRepo "github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/handler"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/middleware"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/routes"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/email"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.NewForEnvironment(cfg.App.Env, cfg.Log)
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(db, database.AdminSeed{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, log); err != nil {
		log.Warn("Failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	userRepo := infraRepo.NewUserRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	quoteRepo := infraRepo.NewQuoteRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	counterRepo := infraRepo.NewDocumentCounterRepository(db)

	sender := newEmailSender(cfg, log)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, log)
	userService := service.NewUserService(userRepo, log)
	customerService := service.NewCustomerService(customerRepo)
	companyService := service.NewCompanyService(cfg.Company)
	pricingService := service.NewPricingService()
	documentService := service.NewDocumentService(cfg.Quote)
	quoteService := service.NewQuoteService(quoteRepo, customerRepo, pricingService, companyService, log)
	dispatchService := service.NewDispatchService(quoteService, documentService, counterRepo, companyService, sender, cfg.App.FrontendURL, log)
	exportService := service.NewExportService(quoteService, companyService)

	handlers := &routes.Handlers{
		Health:   handler.NewHealthHandler(db, cfg.App.Version),
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Customer: handler.NewCustomerHandler(customerService),
		Company:  handler.NewCompanyHandler(companyService),
		Pricing:  handler.NewPricingHandler(pricingService, customerService),
		Quote:    handler.NewQuoteHandler(quoteService, dispatchService, exportService),
		Public:   handler.NewPublicQuoteHandler(quoteService, companyService),
	}

	window := time.Duration(cfg.RateLimit.Duration) * time.Second
	userLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Per:      window,
	})
	defer userLimiter.Stop()
	publicLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.PublicRequests,
		Per:      window,
	})
	defer publicLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          log,
		IdempotencyRepo: idempotencyRepo,
		UserLimiter:     userLimiter,
		PublicLimiter:   publicLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, time.Hour, log)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server exited")
}

// newEmailSender delivers through SMTP when a relay is configured and
// otherwise only logs outgoing mail, which keeps local setups working.
func newEmailSender(cfg *config.Config, log *zap.Logger) email.Sender {
	if cfg.Email.SMTPHost == "" || cfg.Email.SMTPUsername == "" {
		log.Warn("SMTP not configured, emails are logged instead of sent")
		return email.NewLogSender(log)
	}
	return email.NewSMTPSender(email.Config{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})
}

func purgeIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.DeleteExpired(ctx, now)
			if err != nil {
				log.Warn("Failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("Purged idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
