package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/ligna-erp/ligna-api/internal/config"
	"github.com/ligna-erp/ligna-api/internal/database"
	"github.com/ligna-erp/ligna-api/internal/handlers"
	"github.com/ligna-erp/ligna-api/internal/jobs"
	"github.com/ligna-erp/ligna-api/internal/middleware"
	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/internal/services"
	"github.com/ligna-erp/ligna-api/internal/storage"
	"github.com/ligna-erp/ligna-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Warn if Resend email is not configured
	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Set them in .env and ensure the From domain is verified in Resend dashboard.")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run migrations
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Product{},
		&models.ProductionUnit{},
		&models.Customer{},
		&models.Supplier{},
		&models.JournalEntry{},
		&models.Posting{},
		&models.StockPosition{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.Settlement{},
		&models.Sequence{},
		&models.User{},
		&models.RefreshToken{},
		&models.Notification{},
		&models.MetricsCache{},
	); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed reference data
	if cfg.SeedOnBoot {
		if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("Failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.GET("/users", h.User.Index)
				admin.POST("/users", h.User.Create)
				admin.GET("/users/:user_id", h.User.Show)
				admin.PUT("/users/:user_id", h.User.Update)
				admin.DELETE("/users/:user_id", h.User.Delete)
				admin.POST("/users/:user_id/restore", h.User.Restore)

				// Chart of accounts changes
				admin.POST("/accounts", h.Catalog.CreateAccount)
			}

			// Accountant + admin routes (journal, catalog and invoicing writes)
			accountant := protected.Group("")
			accountant.Use(middleware.RequireAccountant())
			{
				// Catalog management
				accountant.POST("/products", h.Catalog.CreateProduct)
				accountant.PUT("/products/:product_id", h.Catalog.UpdateProduct)
				accountant.POST("/customers", h.Catalog.CreateCustomer)
				accountant.PUT("/customers/:customer_id", h.Catalog.UpdateCustomer)
				accountant.POST("/suppliers", h.Catalog.CreateSupplier)
				accountant.PUT("/suppliers/:supplier_id", h.Catalog.UpdateSupplier)
				accountant.POST("/production_units", h.Catalog.CreateProductionUnit)

				// Journal writes
				accountant.POST("/journal", h.Journal.Create)
				accountant.POST("/journal/:entry_id/post", h.Journal.Post)

				// Invoicing
				accountant.POST("/invoices/generate", h.Invoice.Generate)
				accountant.POST("/invoices/:invoice_id/settle", h.Invoice.Settle)
			}

			// Read access for every authenticated role
			protected.GET("/accounts", h.Catalog.ListAccounts)
			protected.GET("/accounts/:code", h.Catalog.ShowAccount)
			protected.GET("/accounts/:code/balance", h.Journal.Balance)
			protected.GET("/products", h.Catalog.ListProducts)
			protected.GET("/products/:product_id", h.Catalog.ShowProduct)
			protected.GET("/products/:product_id/stock", h.Stock.ByProduct)
			protected.GET("/customers", h.Catalog.ListCustomers)
			protected.GET("/customers/:customer_id", h.Catalog.ShowCustomer)
			protected.GET("/suppliers", h.Catalog.ListSuppliers)
			protected.GET("/suppliers/:supplier_id", h.Catalog.ShowSupplier)
			protected.GET("/production_units", h.Catalog.ListProductionUnits)

			protected.GET("/journal", h.Journal.Index)
			protected.GET("/journal/:entry_id", h.Journal.Show)
			protected.GET("/journal/:entry_id/postings", h.Journal.Postings)
			protected.GET("/ledger", h.Journal.Ledger)

			protected.GET("/stock", h.Stock.Index)
			protected.GET("/stock/valuation", h.Stock.Valuation)

			protected.GET("/invoices", h.Invoice.Index)
			protected.GET("/invoices/:invoice_id", h.Invoice.Show)
			protected.GET("/invoices/:invoice_id/settlements/:settlement_id/receipt", h.Invoice.Receipt)

			protected.GET("/metrics/dashboard", h.Metrics.Dashboard)

			// Password change for the authenticated user
			protected.PATCH("/users/change_password", h.User.ChangePassword)

			// Notifications (users manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.GET("/unread_count", h.Notification.UnreadCount)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Refresh the dashboard cache every 15 minutes
	worker.ScheduleEveryImmediate(15*time.Minute, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing dashboard metrics...")
		return svcs.Metrics.Refresh(ctx)
	})

	// Flag overdue invoices daily
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue invoices...")
		return svcs.Invoice.NotifyOverdueInvoices(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
