package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Account        AccountRepository
	Product        ProductRepository
	Customer       CustomerRepository
	Supplier       SupplierRepository
	ProductionUnit ProductionUnitRepository
	Journal        JournalRepository
	Posting        PostingRepository
	Stock          StockRepository
	Invoice        InvoiceRepository
	Sequence       SequenceRepository
	User           UserRepository
	RefreshToken   RefreshTokenRepository
	Notification   NotificationRepository
	Metrics        MetricsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Account:        NewAccountRepository(db),
		Product:        NewProductRepository(db),
		Customer:       NewCustomerRepository(db),
		Supplier:       NewSupplierRepository(db),
		ProductionUnit: NewProductionUnitRepository(db),
		Journal:        NewJournalRepository(db),
		Posting:        NewPostingRepository(db),
		Stock:          NewStockRepository(db),
		Invoice:        NewInvoiceRepository(db),
		Sequence:       NewSequenceRepository(db),
		User:           NewUserRepository(db),
		RefreshToken:   NewRefreshTokenRepository(db),
		Notification:   NewNotificationRepository(db),
		Metrics:        NewMetricsRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
