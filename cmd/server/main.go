package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountapp "github.com/crm/backend/internal/application/account"
	customerapp "github.com/crm/backend/internal/application/customer"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/notify"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/crm/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to MongoDB
	db, err := persistence.NewDatabase(&cfg.Mongo)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
		if err := db.EnsureIndexes(ctx); err != nil {
			cancel()
			log.Fatal("Failed to create indexes", zap.Error(err))
		}
		cancel()
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	customerRepo := persistence.NewMongoCustomerRepository(db)
	accountRepo := persistence.NewMongoAccountRepository(db)

	// Initialize customer cache
	customerCache := cache.NewCustomerCache(cfg, log)
	if closer, ok := customerCache.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Error("Error closing customer cache", zap.Error(err))
			}
		}()
	}

	// Initialize the mail channel and the breaker-guarded mailer
	var channel notify.Channel
	switch cfg.Mail.Channel {
	case "smtp":
		channel = notify.NewSMTPChannel(&cfg.SMTP)
	default:
		natsChannel, err := notify.NewNATSChannel(&cfg.NATS)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer natsChannel.Close()
		channel = natsChannel
	}
	mailer := notify.NewMailer(channel, cfg, log)

	// Initialize services
	accountService := accountapp.NewService(accountRepo, log)
	customerService := customerapp.NewService(
		customerRepo,
		accountService,
		customerCache,
		mailer,
		log,
		customerapp.WithTimeouts(cfg.Timeouts.Short, cfg.Timeouts.Long),
	)

	// Initialize JWT service
	jwtService := auth.NewJWTService(&cfg.JWT)

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	authHandler := handler.NewAuthHandler(accountService, jwtService)
	systemHandler := handler.NewSystemHandler(db, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Principal(jwtService),
	)

	systemHandler.RegisterRoutes(engine)

	r := router.NewRouter(engine)
	r.Register(customerHandler)
	r.Register(authHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
