package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
)

// CatalogService manages the reference data the journal posts against:
// chart of accounts, products, customers, suppliers and production
// units.
type CatalogService struct {
	accountRepo        repository.AccountRepository
	productRepo        repository.ProductRepository
	customerRepo       repository.CustomerRepository
	supplierRepo       repository.SupplierRepository
	productionUnitRepo repository.ProductionUnitRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	accountRepo repository.AccountRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	productionUnitRepo repository.ProductionUnitRepository,
) *CatalogService {
	return &CatalogService{
		accountRepo:        accountRepo,
		productRepo:        productRepo,
		customerRepo:       customerRepo,
		supplierRepo:       supplierRepo,
		productionUnitRepo: productionUnitRepo,
	}
}

func (s *CatalogService) ListAccounts(ctx context.Context, query *repository.ListQuery) ([]models.Account, int64, error) {
	return s.accountRepo.List(ctx, query)
}

func (s *CatalogService) GetAccountByCode(ctx context.Context, code string) (*models.Account, error) {
	account, err := s.accountRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return account, err
}

func (s *CatalogService) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.accountRepo.Create(ctx, account)
}

func (s *CatalogService) ListProducts(ctx context.Context, query *repository.ListQuery) ([]models.Product, int64, error) {
	return s.productRepo.List(ctx, query)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return product, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.productRepo.Create(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	return s.productRepo.Update(ctx, product)
}

func (s *CatalogService) ListCustomers(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.customerRepo.List(ctx, query)
}

func (s *CatalogService) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return customer, err
}

func (s *CatalogService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.AccountCode == "" {
		customer.AccountCode = models.AccountCustomersDefault
	}
	return s.customerRepo.Create(ctx, customer)
}

func (s *CatalogService) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return s.customerRepo.Update(ctx, customer)
}

func (s *CatalogService) ListSuppliers(ctx context.Context, query *repository.ListQuery) ([]models.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, query)
}

func (s *CatalogService) GetSupplier(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return supplier, err
}

func (s *CatalogService) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	if supplier.AccountCode == "" {
		supplier.AccountCode = models.AccountSuppliersDefault
	}
	return s.supplierRepo.Create(ctx, supplier)
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, supplier *models.Supplier) error {
	return s.supplierRepo.Update(ctx, supplier)
}

func (s *CatalogService) ListProductionUnits(ctx context.Context) ([]models.ProductionUnit, error) {
	return s.productionUnitRepo.FindAll(ctx)
}

func (s *CatalogService) CreateProductionUnit(ctx context.Context, unit *models.ProductionUnit) error {
	return s.productionUnitRepo.Create(ctx, unit)
}
