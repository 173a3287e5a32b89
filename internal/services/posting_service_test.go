package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ligna-erp/ligna-api/internal/models"
)

func newPostingFixture() (*PostingService, *memStore) {
	store := newMemStore()
	poster := NewPostingService(&memTxManager{store: store}, NewTaxCalculator(), DefaultRecipeBook)
	return poster, store
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(v string) *string { return &v }

func opDate() time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestPostPurchase(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{
		ID: 1, Code: "MP001", Designation: "Oak wood", Family: models.FamilyRawMaterial,
		MeasureUnit: "m³", PurchasePrice: 500,
		StockAccount: "311001", PurchaseAccount: "601001",
	})
	store.addSupplier(&models.Supplier{ID: 1, Name: "Scierie du Nord", AccountCode: "401000"})

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypePurchase,
		PieceNumber: "BA-001", Label: "Oak delivery",
		ProductID: uintPtr(1), SupplierID: uintPtr(1),
		Quantity: 10, UnitPrice: 500,
		BaseAmount: 5000, VATRate: 19, VATAmount: 950, GrossAmount: 5950,
		VATApplicable: true,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 2)

	// goods receipt to the product stock account against the supplier
	assert.Equal(t, "311001", postings[0].DebitAccount)
	assert.Equal(t, "401000", postings[0].CreditAccount)
	assert.Equal(t, 5000.0, postings[0].Amount)

	// deductible VAT
	assert.Equal(t, models.AccountVATDeductible, postings[1].DebitAccount)
	assert.Equal(t, "401000", postings[1].CreditAccount)
	assert.Equal(t, 950.0, postings[1].Amount)

	// stock entered at the purchase price
	position := store.position(1, models.DefaultProductionUnit)
	assert.Equal(t, 10.0, position.Quantity)
	assert.Equal(t, 500.0, position.AvgUnitCost)

	// the entry is now posted
	assert.True(t, store.entries[entry.ID].Posted)
	assert.NotNil(t, store.entries[entry.ID].PostedAt)
}

func TestPostPurchaseRoutesFinishedGoods(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{
		ID: 2, Code: "PF001", Designation: "Oak table", Family: models.FamilyFinished,
		StockAccount: "351002",
	})
	store.addSupplier(&models.Supplier{ID: 1, AccountCode: "401000"})

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypePurchase,
		PieceNumber: "BA-002", Label: "Resale tables",
		ProductID: uintPtr(2), SupplierID: uintPtr(1),
		Quantity: 5, UnitPrice: 900, BaseAmount: 4500, GrossAmount: 4500,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)

	// finished goods route to the family stock account, not the product's
	assert.Equal(t, models.AccountFinishedGoodsStock, postings[0].DebitAccount)
}

func TestPostSaleWithCOGS(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{
		ID: 2, Code: "PF001", Designation: "Oak table", Family: models.FamilyFinished,
		MeasureUnit: "pieces", StockAccount: "351002", PurchaseAccount: "601002", SalesAccount: "701002",
	})
	store.addCustomer(&models.Customer{ID: 1, Name: "Menuiserie Pro", AccountCode: "411000"})
	store.setStock(2, models.DefaultProductionUnit, 10, 800, 8000)

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeSale,
		DocumentType: models.DocumentDeliveryNote,
		PieceNumber:  "BL-010", Label: "Table sale",
		ProductID: uintPtr(2), CustomerID: uintPtr(1),
		Quantity: 4, UnitPrice: 1200,
		BaseAmount: 4800, VATRate: 19, VATAmount: 912, GrossAmount: 5712,
		VATApplicable: true, StampApplicable: true, StampDuty: 58,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 4)

	// revenue
	assert.Equal(t, "411000", postings[0].DebitAccount)
	assert.Equal(t, "701002", postings[0].CreditAccount)
	assert.Equal(t, 4800.0, postings[0].Amount)

	// collected VAT
	assert.Equal(t, models.AccountVATCollected, postings[1].CreditAccount)
	assert.Equal(t, 912.0, postings[1].Amount)

	// stamp duty
	assert.Equal(t, models.AccountStampDuty, postings[2].CreditAccount)
	assert.Equal(t, 58.0, postings[2].Amount)

	// cost of goods at the average cost
	assert.Equal(t, "601002", postings[3].DebitAccount)
	assert.Equal(t, "351002", postings[3].CreditAccount)
	assert.Equal(t, 3200.0, postings[3].Amount)

	position := store.position(2, models.DefaultProductionUnit)
	assert.Equal(t, 6.0, position.Quantity)
	assert.Equal(t, 4800.0, position.TotalValue)
}

func TestPostSaleWithoutCoverageSkipsCOGS(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{
		ID: 2, Code: "PF001", Designation: "Oak table", Family: models.FamilyFinished,
		StockAccount: "351002", PurchaseAccount: "601002", SalesAccount: "701002",
	})
	store.addCustomer(&models.Customer{ID: 1, AccountCode: "411000"})
	store.setStock(2, models.DefaultProductionUnit, 2, 800, 1600)

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeSale,
		PieceNumber: "BL-011", Label: "Oversold tables",
		ProductID: uintPtr(2), CustomerID: uintPtr(1),
		Quantity: 4, UnitPrice: 1200, BaseAmount: 4800, GrossAmount: 4800,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)

	// revenue only; no cost posting when the position cannot cover the sale
	assert.Len(t, postings, 1)

	// the position is clamped to zero instead of going negative
	position := store.position(2, models.DefaultProductionUnit)
	assert.Equal(t, 0.0, position.Quantity)
	assert.Equal(t, 0.0, position.TotalValue)
}

func TestPostCashInflow(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addCustomer(&models.Customer{ID: 1, AccountCode: "411000"})

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeCash,
		PieceNumber: "RC-001", Label: "Customer payment",
		CustomerID:  uintPtr(1),
		GrossAmount: 2500,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 1)

	assert.Equal(t, models.AccountCash, postings[0].DebitAccount)
	assert.Equal(t, "411000", postings[0].CreditAccount)
	assert.Equal(t, 2500.0, postings[0].Amount)
}

func TestPostCashOutflowDefaultsToMiscExpense(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeCash,
		PieceNumber: "DC-001", Label: "Fuel",
		GrossAmount: -300,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 1)

	// a negative gross amount is a payment out of the cash register
	assert.Equal(t, models.AccountMiscExpense, postings[0].DebitAccount)
	assert.Equal(t, models.AccountCash, postings[0].CreditAccount)
	assert.Equal(t, 300.0, postings[0].Amount)
}

func TestPostProduction(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{ID: 1, Code: "MP001", Family: models.FamilyRawMaterial, PurchasePrice: 500})
	store.addProduct(&models.Product{
		ID: 2, Code: "PF001", Designation: "Oak table", Family: models.FamilyFinished,
		MeasureUnit: "pieces", StockAccount: "351002",
	})
	store.setStock(1, "SCIERIE", 100, 480, 48000)

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeProduction,
		PieceNumber: "OF-001", Label: "Table run",
		ProductID:      uintPtr(2),
		ProductionUnit: "SCIERIE",
		Quantity:       5,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 1)

	// 5 * (2.5 * 480 * 1.2) = 7200
	assert.Equal(t, "351002", postings[0].DebitAccount)
	assert.Equal(t, models.AccountStockedProduction, postings[0].CreditAccount)
	assert.Equal(t, 7200.0, postings[0].Amount)

	// the entry amounts are overwritten with the computed cost
	assert.Equal(t, 7200.0, store.entries[entry.ID].BaseAmount)
	assert.Equal(t, 7200.0, store.entries[entry.ID].GrossAmount)
	assert.Equal(t, 0.0, store.entries[entry.ID].VATAmount)

	// output stocked at the computed unit cost
	position := store.position(2, "SCIERIE")
	assert.Equal(t, 5.0, position.Quantity)
	assert.Equal(t, 1440.0, position.AvgUnitCost)
}

func TestPostProductionWasteRoutesCredit(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{
		ID: 3, Code: "DECH001", Designation: "Wood chips", Family: models.FamilyWaste,
		MeasureUnit: "kg", PurchasePrice: 2, StockAccount: "351003",
	})

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeProduction,
		PieceNumber: "OF-002", Label: "Chips from grinding",
		ProductID: uintPtr(3), ProductionUnit: "BROYEUR", Quantity: 50,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.AccountWasteSales, postings[0].CreditAccount)
}

func TestPostConsumption(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{
		ID: 1, Code: "MP001", Designation: "Oak wood", Family: models.FamilyRawMaterial,
		MeasureUnit: "m³", StockAccount: "311001", PurchaseAccount: "601001",
	})
	store.setStock(1, "SCIERIE", 100, 480, 48000)

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeConsumption,
		PieceNumber: "BS-001", Label: "Wood to sawmill",
		ProductID: uintPtr(1), ProductionUnit: "SCIERIE", Quantity: 20,
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 1)

	// withdrawal valued at the average cost
	assert.Equal(t, "601001", postings[0].DebitAccount)
	assert.Equal(t, "311001", postings[0].CreditAccount)
	assert.Equal(t, 9600.0, postings[0].Amount)

	position := store.position(1, "SCIERIE")
	assert.Equal(t, 80.0, position.Quantity)
	assert.Equal(t, 38400.0, position.TotalValue)
}

func TestPostConsumptionInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	store.addProduct(&models.Product{ID: 1, Code: "MP001", Family: models.FamilyRawMaterial})
	store.setStock(1, "SCIERIE", 5, 480, 2400)

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeConsumption,
		PieceNumber: "BS-002", Label: "Too much wood",
		ProductID: uintPtr(1), ProductionUnit: "SCIERIE", Quantity: 20,
	})

	_, err := poster.Post(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// nothing committed: no postings, stock untouched, entry still unposted
	assert.Empty(t, store.postings)
	assert.Equal(t, 5.0, store.position(1, "SCIERIE").Quantity)
	assert.False(t, store.entries[entry.ID].Posted)
}

func TestPostCharge(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeCharge,
		PieceNumber: "CH-001", Label: "March wages",
		GrossAmount: 120000,
		ChargeType:  strPtr(models.ChargeTypeLabor),
	})

	postings, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, postings, 1)

	assert.Equal(t, models.AccountLabor, postings[0].DebitAccount)
	assert.Equal(t, models.AccountSuppliersDefault, postings[0].CreditAccount)
	assert.Equal(t, 120000.0, postings[0].Amount)
}

func TestPostChargeTypes(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	cases := map[string]string{
		models.ChargeTypeLabor:        models.AccountLabor,
		models.ChargeTypeEnergy:       models.AccountEnergy,
		models.ChargeTypeDepreciation: models.AccountDepreciation,
		models.ChargeTypeGeneric:      models.AccountProductionOverhead,
	}

	for chargeType, account := range cases {
		entry := store.addEntry(&models.JournalEntry{
			OperationDate: opDate(), Type: models.JournalTypeCharge,
			PieceNumber: "CH-" + chargeType, Label: chargeType,
			GrossAmount: 1000,
			ChargeType:  strPtr(chargeType),
		})
		postings, err := poster.Post(ctx, entry.ID)
		assert.NoError(t, err)
		assert.Equal(t, account, postings[0].DebitAccount, chargeType)
	}
}

func TestPostAlreadyPosted(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypeCharge,
		PieceNumber: "CH-002", Label: "Energy bill",
		GrossAmount: 500,
	})

	_, err := poster.Post(ctx, entry.ID)
	assert.NoError(t, err)
	assert.Len(t, store.postings, 1)

	// a second post writes nothing
	_, err = poster.Post(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrAlreadyPosted)
	assert.Len(t, store.postings, 1)
}

func TestPostUnknownEntry(t *testing.T) {
	ctx := context.Background()
	poster, _ := newPostingFixture()

	_, err := poster.Post(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostMissingReference(t *testing.T) {
	ctx := context.Background()
	poster, store := newPostingFixture()

	// purchase of a product that is not in the catalog
	entry := store.addEntry(&models.JournalEntry{
		OperationDate: opDate(), Type: models.JournalTypePurchase,
		PieceNumber: "BA-009", Label: "Ghost product",
		ProductID: uintPtr(77), SupplierID: uintPtr(1),
		Quantity: 1, UnitPrice: 100, BaseAmount: 100, GrossAmount: 100,
	})

	_, err := poster.Post(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrReferenceNotFound)
	assert.Empty(t, store.postings)
}
