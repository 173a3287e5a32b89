package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
)

// memStore is the shared backing state of the in-memory repositories.
// memTxManager snapshots it before each Do and restores it on error, so
// the all-or-nothing behavior of a real transaction holds in tests.
type memStore struct {
	entries   map[uint]*models.JournalEntry
	postings  []models.Posting
	stock     map[string]*models.StockPosition
	products  map[uint]*models.Product
	customers map[uint]*models.Customer
	suppliers map[uint]*models.Supplier
	invoices  map[uint]*models.Invoice
	sequences map[int]int

	nextEntryID      uint
	nextInvoiceID    uint
	nextSettlementID uint
}

func newMemStore() *memStore {
	return &memStore{
		entries:   make(map[uint]*models.JournalEntry),
		postings:  nil,
		stock:     make(map[string]*models.StockPosition),
		products:  make(map[uint]*models.Product),
		customers: make(map[uint]*models.Customer),
		suppliers: make(map[uint]*models.Supplier),
		invoices:  make(map[uint]*models.Invoice),
		sequences: make(map[int]int),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, e := range s.entries {
		copied := *e
		c.entries[id] = &copied
	}
	c.postings = append(c.postings, s.postings...)
	for key, p := range s.stock {
		copied := *p
		c.stock[key] = &copied
	}
	for id, p := range s.products {
		copied := *p
		c.products[id] = &copied
	}
	for id, cu := range s.customers {
		copied := *cu
		c.customers[id] = &copied
	}
	for id, su := range s.suppliers {
		copied := *su
		c.suppliers[id] = &copied
	}
	for id, inv := range s.invoices {
		copied := *inv
		copied.Lines = append([]models.InvoiceLine(nil), inv.Lines...)
		copied.Settlements = append([]models.Settlement(nil), inv.Settlements...)
		c.invoices[id] = &copied
	}
	for year, n := range s.sequences {
		c.sequences[year] = n
	}
	c.nextEntryID = s.nextEntryID
	c.nextInvoiceID = s.nextInvoiceID
	c.nextSettlementID = s.nextSettlementID
	return c
}

func (s *memStore) replaceWith(other *memStore) {
	*s = *other
}

func (s *memStore) addEntry(e *models.JournalEntry) *models.JournalEntry {
	s.nextEntryID++
	e.ID = s.nextEntryID
	s.entries[e.ID] = e
	return e
}

func (s *memStore) addProduct(p *models.Product) *models.Product {
	s.products[p.ID] = p
	return p
}

func (s *memStore) addCustomer(c *models.Customer) *models.Customer {
	s.customers[c.ID] = c
	return c
}

func (s *memStore) addSupplier(su *models.Supplier) *models.Supplier {
	s.suppliers[su.ID] = su
	return su
}

func (s *memStore) setStock(productID uint, unit string, qty, avgCost, totalValue float64) {
	key := stockKey(productID, unit)
	s.stock[key] = &models.StockPosition{
		ProductID:      productID,
		ProductionUnit: unit,
		Quantity:       qty,
		AvgUnitCost:    avgCost,
		TotalValue:     totalValue,
	}
}

func (s *memStore) position(productID uint, unit string) *models.StockPosition {
	return s.stock[stockKey(productID, unit)]
}

func stockKey(productID uint, unit string) string {
	return fmt.Sprintf("%d|%s", productID, unit)
}

// memJournalRepository

type memJournalRepository struct {
	repository.JournalRepository
	store *memStore
}

func (r *memJournalRepository) FindByID(ctx context.Context, id uint) (*models.JournalEntry, error) {
	entry, ok := r.store.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (r *memJournalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	r.store.addEntry(entry)
	return nil
}

func (r *memJournalRepository) Update(ctx context.Context, entry *models.JournalEntry) error {
	if _, ok := r.store.entries[entry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.entries[entry.ID] = entry
	return nil
}

func (r *memJournalRepository) FindUnbilledDeliveryNotes(ctx context.Context, customerID uint, from, to time.Time) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for _, e := range r.store.entries {
		if e.Type != models.JournalTypeSale || e.DocumentType != models.DocumentDeliveryNote {
			continue
		}
		if e.InvoiceID != nil {
			continue
		}
		if e.CustomerID == nil || *e.CustomerID != customerID {
			continue
		}
		if e.OperationDate.Before(from) || e.OperationDate.After(to) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

// memPostingRepository

type memPostingRepository struct {
	repository.PostingRepository
	store *memStore
}

func (r *memPostingRepository) CreateBatch(ctx context.Context, postings []models.Posting) error {
	r.store.postings = append(r.store.postings, postings...)
	return nil
}

func (r *memPostingRepository) FindByJournalID(ctx context.Context, journalID uint) ([]models.Posting, error) {
	var out []models.Posting
	for _, p := range r.store.postings {
		if p.JournalID != nil && *p.JournalID == journalID {
			out = append(out, p)
		}
	}
	return out, nil
}

// memStockRepository

type memStockRepository struct {
	repository.StockRepository
	store *memStore
}

func (r *memStockRepository) FindByProductAndUnit(ctx context.Context, productID uint, unit string) (*models.StockPosition, error) {
	position, ok := r.store.stock[stockKey(productID, unit)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return position, nil
}

func (r *memStockRepository) Save(ctx context.Context, position *models.StockPosition) error {
	r.store.stock[stockKey(position.ProductID, position.ProductionUnit)] = position
	return nil
}

// memProductRepository

type memProductRepository struct {
	repository.ProductRepository
	store *memStore
}

func (r *memProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (r *memProductRepository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	for _, p := range r.store.products {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// memCustomerRepository

type memCustomerRepository struct {
	repository.CustomerRepository
	store *memStore
}

func (r *memCustomerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, ok := r.store.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

// memSupplierRepository

type memSupplierRepository struct {
	repository.SupplierRepository
	store *memStore
}

func (r *memSupplierRepository) FindByID(ctx context.Context, id uint) (*models.Supplier, error) {
	supplier, ok := r.store.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

// memInvoiceRepository

type memInvoiceRepository struct {
	repository.InvoiceRepository
	store *memStore
}

func (r *memInvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, ok := r.store.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return invoice, nil
}

func (r *memInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	r.store.nextInvoiceID++
	invoice.ID = r.store.nextInvoiceID
	r.store.invoices[invoice.ID] = invoice
	return nil
}

func (r *memInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	if _, ok := r.store.invoices[invoice.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.invoices[invoice.ID] = invoice
	return nil
}

func (r *memInvoiceRepository) AddSettlement(ctx context.Context, settlement *models.Settlement) error {
	r.store.nextSettlementID++
	settlement.ID = r.store.nextSettlementID
	return nil
}

// memSequenceRepository

type memSequenceRepository struct {
	repository.SequenceRepository
	store *memStore
}

func (r *memSequenceRepository) NextNumber(ctx context.Context, year int) (int, error) {
	r.store.sequences[year]++
	return r.store.sequences[year], nil
}

// memNotificationRepository

type memNotificationRepository struct {
	repository.NotificationRepository
	notifications []models.Notification
}

func (r *memNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.notifications = append(r.notifications, *notification)
	return nil
}

// memUnitOfWork

type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Accounts() repository.AccountRepository { return nil }
func (u *memUnitOfWork) Products() repository.ProductRepository {
	return &memProductRepository{store: u.store}
}
func (u *memUnitOfWork) Customers() repository.CustomerRepository {
	return &memCustomerRepository{store: u.store}
}
func (u *memUnitOfWork) Suppliers() repository.SupplierRepository {
	return &memSupplierRepository{store: u.store}
}
func (u *memUnitOfWork) Journal() repository.JournalRepository {
	return &memJournalRepository{store: u.store}
}
func (u *memUnitOfWork) Postings() repository.PostingRepository {
	return &memPostingRepository{store: u.store}
}
func (u *memUnitOfWork) Stock() repository.StockRepository {
	return &memStockRepository{store: u.store}
}
func (u *memUnitOfWork) Invoices() repository.InvoiceRepository {
	return &memInvoiceRepository{store: u.store}
}
func (u *memUnitOfWork) Sequences() repository.SequenceRepository {
	return &memSequenceRepository{store: u.store}
}
func (u *memUnitOfWork) Notifications() repository.NotificationRepository {
	return &memNotificationRepository{}
}

// memTxManager runs the function against a copy of the store and only
// commits the copy back on success.
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	working := m.store.clone()
	if err := fn(&memUnitOfWork{store: working}); err != nil {
		return err
	}
	m.store.replaceWith(working)
	return nil
}
