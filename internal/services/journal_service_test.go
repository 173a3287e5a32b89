package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ligna-erp/ligna-api/internal/models"
)

func newJournalFixture() (*JournalService, *memStore) {
	store := newMemStore()
	taxes := NewTaxCalculator()
	poster := NewPostingService(&memTxManager{store: store}, taxes, DefaultRecipeBook)
	svc := NewJournalService(
		&memJournalRepository{store: store},
		&memPostingRepository{store: store},
		poster,
		taxes,
	)
	return svc, store
}

func TestCreateEntryDerivesSaleAmounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournalFixture()

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate:   time.Now(),
		Type:            models.JournalTypeSale,
		DocumentType:    models.DocumentDeliveryNote,
		PieceNumber:     "BL-001",
		Label:           "Table sale",
		ProductID:       uintPtr(1),
		CustomerID:      uintPtr(1),
		Quantity:        4,
		UnitPrice:       1200,
		VATRate:         19,
		VATApplicable:   true,
		StampApplicable: true,
	})
	assert.NoError(t, err)

	assert.Equal(t, 4800.0, entry.BaseAmount)
	assert.Equal(t, 912.0, entry.VATAmount)
	assert.Equal(t, 5712.0, entry.GrossAmount)

	// stamp on the gross: 58 started blocks of 100
	assert.Equal(t, 58.0, entry.StampDuty)
	assert.False(t, entry.Posted)
}

func TestCreateEntryPurchaseWithoutVAT(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournalFixture()

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          models.JournalTypePurchase,
		PieceNumber:   "BA-001",
		Label:         "Oak delivery",
		ProductID:     uintPtr(1),
		SupplierID:    uintPtr(1),
		Quantity:      10,
		UnitPrice:     500,
		VATRate:       19,
		VATApplicable: false,
	})
	assert.NoError(t, err)

	assert.Equal(t, 5000.0, entry.BaseAmount)
	assert.Equal(t, 0.0, entry.VATAmount)
	assert.Equal(t, 5000.0, entry.GrossAmount)
	assert.Equal(t, 0.0, entry.StampDuty)
}

func TestCreateEntryCashCarriesGross(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournalFixture()

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          models.JournalTypeCash,
		PieceNumber:   "DC-001",
		Label:         "Fuel",
		GrossAmount:   -300,
	})
	assert.NoError(t, err)
	assert.Equal(t, -300.0, entry.GrossAmount)
}

func TestCreateEntryProductionLeavesAmountsToPoster(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournalFixture()

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          models.JournalTypeProduction,
		PieceNumber:   "OF-001",
		Label:         "Table run",
		ProductID:     uintPtr(2),
		Quantity:      5,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, entry.BaseAmount)
	assert.Equal(t, 0.0, entry.GrossAmount)
}

func TestCreateEntryUnknownType(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournalFixture()

	_, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          "TRANSFER",
		PieceNumber:   "X-001",
		Label:         "Nope",
	})
	assert.ErrorIs(t, err, ErrUnknownJournalType)
}

func TestCreateEntryValidationFailures(t *testing.T) {
	ctx := context.Background()
	svc, store := newJournalFixture()

	// sale without a customer
	_, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          models.JournalTypeSale,
		PieceNumber:   "BL-002",
		Label:         "No customer",
		ProductID:     uintPtr(1),
		Quantity:      1,
		UnitPrice:     100,
	})
	assert.Error(t, err)

	// zero quantity purchase
	_, err = svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          models.JournalTypePurchase,
		PieceNumber:   "BA-002",
		Label:         "Empty truck",
		ProductID:     uintPtr(1),
		SupplierID:    uintPtr(1),
	})
	assert.Error(t, err)

	assert.Empty(t, store.entries)
}

func TestPostEntryEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, store := newJournalFixture()

	store.addProduct(&models.Product{
		ID: 1, Code: "MP001", Designation: "Oak wood", Family: models.FamilyRawMaterial,
		StockAccount: "311001",
	})
	store.addSupplier(&models.Supplier{ID: 1, AccountCode: "401000"})

	entry, err := svc.CreateEntry(ctx, CreateEntryInput{
		OperationDate: time.Now(),
		Type:          models.JournalTypePurchase,
		PieceNumber:   "BA-003",
		Label:         "Oak delivery",
		ProductID:     uintPtr(1),
		SupplierID:    uintPtr(1),
		Quantity:      10,
		UnitPrice:     500,
		VATRate:       19,
		VATApplicable: true,
	})
	assert.NoError(t, err)

	postings, err := svc.PostEntry(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 2)

	fromRepo, err := svc.EntryPostings(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, fromRepo, 2)
}
