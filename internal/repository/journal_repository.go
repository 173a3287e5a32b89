package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
)

// JournalRepository defines the interface for journal entry data access
type JournalRepository interface {
	FindByID(ctx context.Context, id uint) (*models.JournalEntry, error)
	Create(ctx context.Context, entry *models.JournalEntry) error
	Update(ctx context.Context, entry *models.JournalEntry) error
	List(ctx context.Context, query *ListQuery) ([]models.JournalEntry, int64, error)
	FindUnbilledDeliveryNotes(ctx context.Context, customerID uint, from, to time.Time) ([]models.JournalEntry, error)
	FindPostedBetween(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error)
}

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new journal entry repository
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func (r *journalRepository) FindByID(ctx context.Context, id uint) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Customer").
		Preload("Supplier").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journalRepository) Update(ctx context.Context, entry *models.JournalEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *journalRepository) List(ctx context.Context, query *ListQuery) ([]models.JournalEntry, int64, error) {
	var entries []models.JournalEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.JournalEntry{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("piece_number ILIKE ? OR label ILIKE ?", search, search)
	}

	if query.Filters["type"] != "" {
		db = db.Where("type = ?", query.Filters["type"])
	}

	if query.Filters["posted"] != "" {
		db = db.Where("posted = ?", query.Filters["posted"] == "true")
	}

	if query.Filters["from"] != "" {
		db = db.Where("operation_date >= ?", query.Filters["from"])
	}

	if query.Filters["to"] != "" {
		db = db.Where("operation_date <= ?", query.Filters["to"])
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("operation_date DESC, id DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Product").Preload("Customer").Preload("Supplier").Find(&entries).Error
	return entries, total, err
}

// FindUnbilledDeliveryNotes returns delivery-note sales for a customer
// that have not been attached to an invoice yet. Posting status does not
// matter; an unposted note in the period still gets billed.
func (r *journalRepository) FindUnbilledDeliveryNotes(ctx context.Context, customerID uint, from, to time.Time) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("type = ? AND document_type = ? AND customer_id = ? AND invoice_id IS NULL",
			models.JournalTypeSale, models.DocumentDeliveryNote, customerID).
		Where("operation_date >= ? AND operation_date <= ?", from, to).
		Order("operation_date ASC, id ASC").
		Preload("Product").
		Find(&entries).Error
	return entries, err
}

func (r *journalRepository) FindPostedBetween(ctx context.Context, from, to time.Time) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	err := r.db.WithContext(ctx).
		Where("posted = ? AND operation_date >= ? AND operation_date < ?", true, from, to).
		Order("operation_date ASC").
		Find(&entries).Error
	return entries, err
}

// PostingRepository defines the interface for ledger posting data access.
// Postings are append-only; there is no update or delete.
type PostingRepository interface {
	Create(ctx context.Context, posting *models.Posting) error
	CreateBatch(ctx context.Context, postings []models.Posting) error
	FindByJournalID(ctx context.Context, journalID uint) ([]models.Posting, error)
	List(ctx context.Context, query *ListQuery) ([]models.Posting, int64, error)
	AccountBalance(ctx context.Context, accountCode string) (float64, error)
	SumDebitBetween(ctx context.Context, accountCode string, from, to time.Time) (float64, error)
	SumCreditBetween(ctx context.Context, accountCode string, from, to time.Time) (float64, error)
}

type postingRepository struct {
	db *gorm.DB
}

// NewPostingRepository creates a new posting repository
func NewPostingRepository(db *gorm.DB) PostingRepository {
	return &postingRepository{db: db}
}

func (r *postingRepository) Create(ctx context.Context, posting *models.Posting) error {
	return r.db.WithContext(ctx).Create(posting).Error
}

func (r *postingRepository) CreateBatch(ctx context.Context, postings []models.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&postings).Error
}

func (r *postingRepository) FindByJournalID(ctx context.Context, journalID uint) ([]models.Posting, error) {
	var postings []models.Posting
	err := r.db.WithContext(ctx).
		Where("journal_id = ?", journalID).
		Order("id ASC").
		Find(&postings).Error
	return postings, err
}

func (r *postingRepository) List(ctx context.Context, query *ListQuery) ([]models.Posting, int64, error) {
	var postings []models.Posting
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Posting{})

	if query.Filters["account"] != "" {
		account := query.Filters["account"]
		db = db.Where("debit_account = ? OR credit_account = ?", account, account)
	}

	if query.Filters["book"] != "" {
		db = db.Where("book = ?", query.Filters["book"])
	}

	if query.Filters["from"] != "" {
		db = db.Where("accounting_date >= ?", query.Filters["from"])
	}

	if query.Filters["to"] != "" {
		db = db.Where("accounting_date <= ?", query.Filters["to"])
	}

	db.Count(&total)

	db = db.Order("accounting_date ASC, id ASC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&postings).Error
	return postings, total, err
}

// AccountBalance returns total debits minus total credits for an account.
func (r *postingRepository) AccountBalance(ctx context.Context, accountCode string) (float64, error) {
	var debit, credit float64
	err := r.db.WithContext(ctx).Model(&models.Posting{}).
		Where("debit_account = ?", accountCode).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&debit).Error
	if err != nil {
		return 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Posting{}).
		Where("credit_account = ?", accountCode).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&credit).Error
	if err != nil {
		return 0, err
	}
	return debit - credit, nil
}

func (r *postingRepository) SumDebitBetween(ctx context.Context, accountCode string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Posting{}).
		Where("debit_account = ? AND accounting_date >= ? AND accounting_date < ?", accountCode, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *postingRepository) SumCreditBetween(ctx context.Context, accountCode string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Posting{}).
		Where("credit_account = ? AND accounting_date >= ? AND accounting_date < ?", accountCode, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// StockRepository defines the interface for stock position data access
type StockRepository interface {
	FindByProductAndUnit(ctx context.Context, productID uint, unit string) (*models.StockPosition, error)
	Save(ctx context.Context, position *models.StockPosition) error
	List(ctx context.Context, query *ListQuery) ([]models.StockPosition, int64, error)
	FindByProduct(ctx context.Context, productID uint) ([]models.StockPosition, error)
	TotalValue(ctx context.Context) (float64, error)
}

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository creates a new stock position repository
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) FindByProductAndUnit(ctx context.Context, productID uint, unit string) (*models.StockPosition, error) {
	var position models.StockPosition
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND production_unit = ?", productID, unit).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *stockRepository) Save(ctx context.Context, position *models.StockPosition) error {
	return r.db.WithContext(ctx).Save(position).Error
}

func (r *stockRepository) List(ctx context.Context, query *ListQuery) ([]models.StockPosition, int64, error) {
	var positions []models.StockPosition
	var total int64

	db := r.db.WithContext(ctx).Model(&models.StockPosition{})

	if query.Filters["unit"] != "" {
		db = db.Where("production_unit = ?", query.Filters["unit"])
	}

	if query.Filters["product_id"] != "" {
		db = db.Where("product_id = ?", query.Filters["product_id"])
	}

	db.Count(&total)

	db = db.Order("product_id ASC, production_unit ASC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Product").Find(&positions).Error
	return positions, total, err
}

func (r *stockRepository) FindByProduct(ctx context.Context, productID uint) ([]models.StockPosition, error) {
	var positions []models.StockPosition
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("production_unit ASC").
		Find(&positions).Error
	return positions, err
}

// TotalValue returns the valuation of everything currently in stock.
func (r *stockRepository) TotalValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.StockPosition{}).
		Select("COALESCE(SUM(total_value), 0)").
		Scan(&total).Error
	return total, err
}
