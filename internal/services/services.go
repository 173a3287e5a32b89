package services

import (
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/config"
	"github.com/ligna-erp/ligna-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Catalog      *CatalogService
	Journal      *JournalService
	Posting      *PostingService
	Stock        *StockService
	Costing      *CostingService
	Invoice      *InvoiceService
	Metrics      *MetricsService
	Notification *NotificationService
	Email        *EmailService
	Taxes        *TaxCalculator
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, cfg *config.Config, db *gorm.DB) *Services {
	taxes := NewTaxCalculator()
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg)

	txManager := repository.NewTxManager(db)
	// read-side stock service; the poster builds its own inside each transaction
	stockSvc := NewStockService(repos.Stock)
	costingSvc := NewCostingService(repos.Product, stockSvc, DefaultRecipeBook)
	posterSvc := NewPostingService(txManager, taxes, DefaultRecipeBook)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, emailSvc, notificationSvc),
		Catalog:      NewCatalogService(repos.Account, repos.Product, repos.Customer, repos.Supplier, repos.ProductionUnit),
		Journal:      NewJournalService(repos.Journal, repos.Posting, posterSvc, taxes),
		Posting:      posterSvc,
		Stock:        stockSvc,
		Costing:      costingSvc,
		Invoice:      NewInvoiceService(txManager, repos.Invoice, repos.Customer, taxes, notificationSvc, emailSvc, repos.User, cfg),
		Metrics:      NewMetricsService(repos.Metrics, repos.Posting, repos.Stock),
		Notification: notificationSvc,
		Email:        emailSvc,
		Taxes:        taxes,
	}
}
