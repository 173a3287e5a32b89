package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork exposes repositories bound to a single transaction. Every
// repository obtained from the same UnitOfWork shares the transaction, so a
// posting run either lands completely or not at all.
type UnitOfWork interface {
	Accounts() AccountRepository
	Products() ProductRepository
	Customers() CustomerRepository
	Suppliers() SupplierRepository
	Journal() JournalRepository
	Postings() PostingRepository
	Stock() StockRepository
	Invoices() InvoiceRepository
	Sequences() SequenceRepository
	Notifications() NotificationRepository
}

// TxManager runs a function inside a database transaction
type TxManager interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
}

type gormUnitOfWork struct {
	tx *gorm.DB
}

func (u *gormUnitOfWork) Accounts() AccountRepository   { return NewAccountRepository(u.tx) }
func (u *gormUnitOfWork) Products() ProductRepository   { return NewProductRepository(u.tx) }
func (u *gormUnitOfWork) Customers() CustomerRepository { return NewCustomerRepository(u.tx) }
func (u *gormUnitOfWork) Suppliers() SupplierRepository { return NewSupplierRepository(u.tx) }
func (u *gormUnitOfWork) Journal() JournalRepository    { return NewJournalRepository(u.tx) }
func (u *gormUnitOfWork) Postings() PostingRepository   { return NewPostingRepository(u.tx) }
func (u *gormUnitOfWork) Stock() StockRepository        { return NewStockRepository(u.tx) }
func (u *gormUnitOfWork) Invoices() InvoiceRepository   { return NewInvoiceRepository(u.tx) }
func (u *gormUnitOfWork) Sequences() SequenceRepository { return NewSequenceRepository(u.tx) }
func (u *gormUnitOfWork) Notifications() NotificationRepository {
	return NewNotificationRepository(u.tx)
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by gorm transactions
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormUnitOfWork{tx: tx})
	})
}
