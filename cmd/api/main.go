package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/smtp"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/internal/application/service"
	"github.com/sangkips/receiptflow/internal/config"
	"github.com/sangkips/receiptflow/internal/domain/repository"
	"github.com/sangkips/receiptflow/internal/infrastructure/cache"
	"github.com/sangkips/receiptflow/internal/infrastructure/database"
	"github.com/sangkips/receiptflow/internal/infrastructure/events"
	"github.com/sangkips/receiptflow/internal/infrastructure/memory"
	"github.com/sangkips/receiptflow/internal/infrastructure/pdf"
	infraRepo "github.com/sangkips/receiptflow/internal/infrastructure/repository"
	"github.com/sangkips/receiptflow/internal/infrastructure/storage"
	"github.com/sangkips/receiptflow/internal/logging"
	"github.com/sangkips/receiptflow/internal/presentation/http/handler"
	"github.com/sangkips/receiptflow/internal/presentation/http/middleware"
	"github.com/sangkips/receiptflow/internal/presentation/http/routes"
	"github.com/sangkips/receiptflow/pkg/email"
	"github.com/sangkips/receiptflow/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	receiptRepo, settingsRepo, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize repositories", zap.Error(err))
	}

	if cfg.Cache.Enabled {
		rdb := cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		defer rdb.Close()
		receiptRepo = cache.NewReceiptRepository(receiptRepo, rdb, cfg.Cache.TTL, logger)
		logger.Info("Receipt cache enabled", zap.String("addr", cfg.Cache.Addr))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		logger.Info("Publishing receipt events", zap.Strings("brokers", cfg.Events.Brokers), zap.String("topic", cfg.Events.Topic))
	}
	defer publisher.Close()

	// Receipt PDFs
	publicURL := cfg.Storage.PublicURL
	if publicURL == "" {
		publicURL = cfg.App.BaseURL
	}
	store, err := storage.New(ctx, cfg.Storage.Driver, cfg.Storage.Path, publicURL, cfg.Storage.DriveFolderID, cfg.Storage.CredentialsFile)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	var filesDir string
	if local, ok := store.(*storage.LocalStorage); ok {
		filesDir = local.Dir()
	}

	renderer := pdf.NewChromeRenderer(cfg.PDF.ChromePath, cfg.PDF.Timeout, logger)

	// Initialize email service
	mailer := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.Host,
		SMTPPort:     cfg.Email.Port,
		SMTPUsername: cfg.Email.Username,
		SMTPPassword: cfg.Email.Password,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.From,
	})
	if !cfg.Email.Enabled {
		logger.Warn("SMTP disabled; receipt emails are logged, not sent")
		mailer.WithSendFunc(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			logger.Info("Email not sent (SMTP disabled)", zap.Strings("to", to), zap.Int("bytes", len(msg)))
			return nil
		})
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	passwordHash := cfg.Admin.PasswordHash
	if passwordHash == "" && cfg.Admin.Password != "" {
		if passwordHash, err = service.HashPassword(cfg.Admin.Password); err != nil {
			logger.Fatal("Failed to hash admin password", zap.Error(err))
		}
	}
	if passwordHash == "" {
		logger.Warn("No admin password configured; dashboard login is disabled")
	}

	// Initialize services
	receiptService := service.NewReceiptService(receiptRepo, settingsRepo, renderer, store, mailer, publisher,
		service.ReceiptOptions{
			TaxPercent:     cfg.Receipt.TaxPercent,
			CurrencySymbol: cfg.Receipt.CurrencySymbol,
		}, logger)
	dashboardService := service.NewDashboardService(receiptRepo)
	settingsService := service.NewSettingsService(settingsRepo, mailer, logger)
	authService := service.NewAuthService(cfg.Admin.Email, passwordHash, jwtManager, logger)

	rateLimiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := &routes.Handlers{
		Receipt:      handler.NewReceiptHandler(receiptService),
		AdminReceipt: handler.NewAdminReceiptHandler(receiptService, dashboardService, logger),
		Auth:         handler.NewAuthHandler(authService),
		Settings:     handler.NewSettingsHandler(settingsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  jwtManager,
		Cfg:         cfg,
		Logger:      logger,
		RateLimiter: rateLimiter,
		FilesDir:    filesDir,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("name", cfg.App.Name), zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// openRepositories picks PostgreSQL or the in-memory store by DB_DRIVER
func openRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ReceiptRepository, repository.SettingsRepository, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("Using in-memory repositories; data is lost on restart")
		return memory.NewReceiptRepository(), memory.NewSettingsRepository(), nil
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		return nil, nil, err
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, logger); err != nil {
		return nil, nil, err
	}

	// Seed default data
	if err := database.SeedDefaultData(ctx, db, logger); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	return infraRepo.NewReceiptRepository(db), infraRepo.NewSettingsRepository(db), nil
}
