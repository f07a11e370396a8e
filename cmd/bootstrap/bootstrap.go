package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-manager/config"
	deliveryHttp "patient-manager/internal/delivery/http"
	"patient-manager/internal/delivery/http/handler"
	"patient-manager/internal/delivery/http/middleware"
	"patient-manager/internal/infrastructure/cache"
	"patient-manager/internal/infrastructure/database"
	"patient-manager/internal/infrastructure/storage"
	"patient-manager/internal/migration"
	"patient-manager/internal/provider"
	"patient-manager/internal/repository"
	"patient-manager/internal/usecase"
	"patient-manager/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	verificationUsecase usecase.VerificationUsecase
	cleanupStop         chan struct{}
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{cleanupStop: make(chan struct{})}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Run database migrations
	migrator := migration.NewMigrator(cfg.DB.URL(), cfg.DB.MigrationsPath)
	if err := migrator.Up(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logrus.Info("Database migrations applied")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize object storage
	objectStorage, err := storage.NewMinioStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}
	logrus.Info("Object storage connected successfully")

	// Initialize all layers
	server := app.initializeServer(cfg, db, redisClient, objectStorage)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, objectStorage storage.ObjectStorage) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	patientRepo := repository.NewPatientRepository(db)
	tokenRepo := repository.NewVerificationTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	fileRepo := repository.NewFileRepository(db)
	patientFileRepo := repository.NewPatientFileRepository(db)

	// Initialize notification providers
	mailDialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password)
	emailProvider := provider.NewEmailProvider(mailDialer, cfg.SMTP.From, log)
	smsProvider := provider.NewSMSProvider(cfg.SMS, log)

	// Initialize usecases
	notificationUsecase := usecase.NewNotificationUsecase(log, notificationRepo,
		[]provider.Provider{emailProvider, smsProvider}, cfg.App.BaseURL, cfg.SMS.Enabled)
	verificationUsecase := usecase.NewVerificationUsecase(log, patientRepo, tokenRepo,
		notificationUsecase, cfg.Verification.TokenTTL)
	fileUsecase := usecase.NewFileUsecase(log, fileRepo, patientFileRepo,
		objectStorage, cache.NewRedisURLCache(redisClient))
	patientUsecase := usecase.NewPatientUsecase(log, patientRepo, fileUsecase, verificationUsecase)

	app.verificationUsecase = verificationUsecase

	// Initialize handlers
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	verificationHandler := handler.NewVerificationHandler(verificationUsecase, customValidator)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase)
	fileHandler := handler.NewFileHandler(patientUsecase, fileUsecase)

	// Initialize middleware
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(patientHandler, verificationHandler, notificationHandler,
		fileHandler, corsMiddleware, loggingMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Purge expired verification tokens in the background
	go app.runTokenCleanup()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// runTokenCleanup deletes expired verification tokens on a fixed interval
// until shutdown.
func (app *App) runTokenCleanup() {
	ticker := time.NewTicker(app.Config.Verification.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := app.verificationUsecase.CleanupExpiredTokens(ctx); err != nil {
				logrus.Errorf("Failed to clean up expired tokens: %v", err)
			}
			cancel()
		case <-app.cleanupStop:
			return
		}
	}
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	close(app.cleanupStop)

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
