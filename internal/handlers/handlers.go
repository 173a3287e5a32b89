package handlers

import (
	"github.com/ligna-erp/ligna-api/internal/services"
	"github.com/ligna-erp/ligna-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Catalog      *CatalogHandler
	Journal      *JournalHandler
	Stock        *StockHandler
	Invoice      *InvoiceHandler
	Metrics      *MetricsHandler
	Notification *NotificationHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth),
		User:         NewUserHandler(svcs.User),
		Catalog:      NewCatalogHandler(svcs.Catalog),
		Journal:      NewJournalHandler(svcs.Journal),
		Stock:        NewStockHandler(svcs.Stock),
		Invoice:      NewInvoiceHandler(svcs.Invoice, store),
		Metrics:      NewMetricsHandler(svcs.Metrics),
		Notification: NewNotificationHandler(svcs.Notification),
	}
}
