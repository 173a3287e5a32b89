package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
)

// AccountRepository defines the interface for chart of accounts data access
type AccountRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByCode(ctx context.Context, code string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error)
	FindByClass(ctx context.Context, class int) ([]models.Account, error)
	Count(ctx context.Context) (int64, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicateKeyError(err, "idx_accounts_code") {
			return errors.New("an account with this code already exists")
		}
		return err
	}
	return nil
}

func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepository) List(ctx context.Context, query *ListQuery) ([]models.Account, int64, error) {
	var accounts []models.Account
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Account{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("code ILIKE ? OR label ILIKE ?", search, search)
	}

	if query.Filters["class"] != "" {
		db = db.Where("class = ?", query.Filters["class"])
	}

	if query.Filters["type"] != "" {
		db = db.Where("type = ?", query.Filters["type"])
	}

	db.Count(&total)

	db = db.Order("code ASC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&accounts).Error
	return accounts, total, err
}

func (r *accountRepository) FindByClass(ctx context.Context, class int) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("class = ?", class).
		Order("code ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, err
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	List(ctx context.Context, query *ListQuery) ([]models.Product, int64, error)
	FindByFamily(ctx context.Context, family string) ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isDuplicateKeyError(err, "idx_products_code") {
			return errors.New("a product with this code already exists")
		}
		return err
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) List(ctx context.Context, query *ListQuery) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Product{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("code ILIKE ? OR designation ILIKE ?", search, search)
	}

	if query.Filters["family"] != "" {
		db = db.Where("family = ?", query.Filters["family"])
	}

	if query.Filters["active"] != "" {
		db = db.Where("active = ?", query.Filters["active"] == "true")
	}

	db.Count(&total)

	db = db.Order("code ASC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&products).Error
	return products, total, err
}

func (r *productRepository) FindByFamily(ctx context.Context, family string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("family = ? AND active = ?", family, true).
		Order("code ASC").
		Find(&products).Error
	return products, err
}

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByCode(ctx context.Context, code string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, query *ListQuery) ([]models.Customer, int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByCode(ctx context.Context, code string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		if isDuplicateKeyError(err, "idx_customers_code") {
			return errors.New("a customer with this code already exists")
		}
		return err
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) List(ctx context.Context, query *ListQuery) ([]models.Customer, int64, error) {
	var customers []models.Customer
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Customer{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("code ILIKE ? OR name ILIKE ?", search, search)
	}

	db.Count(&total)

	db = db.Order("name ASC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&customers).Error
	return customers, total, err
}

// SupplierRepository defines the interface for supplier data access
type SupplierRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Supplier, error)
	FindByCode(ctx context.Context, code string) (*models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	List(ctx context.Context, query *ListQuery) ([]models.Supplier, int64, error)
}

type supplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) FindByCode(ctx context.Context, code string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&supplier).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		if isDuplicateKeyError(err, "idx_suppliers_code") {
			return errors.New("a supplier with this code already exists")
		}
		return err
	}
	return nil
}

func (r *supplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

func (r *supplierRepository) List(ctx context.Context, query *ListQuery) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Supplier{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("code ILIKE ? OR name ILIKE ?", search, search)
	}

	db.Count(&total)

	db = db.Order("name ASC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&suppliers).Error
	return suppliers, total, err
}

// ProductionUnitRepository defines the interface for production unit data access
type ProductionUnitRepository interface {
	FindByCode(ctx context.Context, code string) (*models.ProductionUnit, error)
	Create(ctx context.Context, unit *models.ProductionUnit) error
	FindAll(ctx context.Context) ([]models.ProductionUnit, error)
}

type productionUnitRepository struct {
	db *gorm.DB
}

// NewProductionUnitRepository creates a new production unit repository
func NewProductionUnitRepository(db *gorm.DB) ProductionUnitRepository {
	return &productionUnitRepository{db: db}
}

func (r *productionUnitRepository) FindByCode(ctx context.Context, code string) (*models.ProductionUnit, error) {
	var unit models.ProductionUnit
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *productionUnitRepository) Create(ctx context.Context, unit *models.ProductionUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *productionUnitRepository) FindAll(ctx context.Context) ([]models.ProductionUnit, error) {
	var units []models.ProductionUnit
	err := r.db.WithContext(ctx).Order("code ASC").Find(&units).Error
	return units, err
}
