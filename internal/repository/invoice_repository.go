package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ligna-erp/ligna-api/internal/models"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error)
	AddSettlement(ctx context.Context, settlement *models.Settlement) error
	UpdateSettlement(ctx context.Context, settlement *models.Settlement) error
	FindOverdue(ctx context.Context, asOf time.Time) ([]models.Invoice, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Settlements").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines").
		Preload("Settlements").
		Where("number = ?", number).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).
		Omit("Lines", "Settlements", "Customer").
		Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, query *ListQuery) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("number ILIKE ?", search)
	}

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	if query.Filters["customer_id"] != "" {
		db = db.Where("customer_id = ?", query.Filters["customer_id"])
	}

	db.Count(&total)

	db = db.Order("invoice_date DESC, id DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Customer").Preload("Settlements").Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepository) AddSettlement(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

func (r *invoiceRepository) UpdateSettlement(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Save(settlement).Error
}

func (r *invoiceRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status != ? AND due_date IS NOT NULL AND due_date < ?", models.InvoiceStatusPaid, asOf).
		Preload("Customer").
		Preload("Settlements").
		Find(&invoices).Error
	return invoices, err
}

// SequenceRepository hands out per-year invoice numbers
type SequenceRepository interface {
	NextNumber(ctx context.Context, year int) (int, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// NextNumber increments and returns the counter for the given year. The
// row is locked for the duration of the surrounding transaction so two
// concurrent invoice runs can never draw the same number.
func (r *sequenceRepository) NextNumber(ctx context.Context, year int) (int, error) {
	var seq models.Sequence
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("year = ?", year).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.Sequence{Year: year, LastNumber: 0}
		if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	seq.LastNumber++
	if err := r.db.WithContext(ctx).Save(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastNumber, nil
}
