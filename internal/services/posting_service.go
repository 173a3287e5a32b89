package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/internal/statemachine"
)

// PostingService turns journal entries into ledger postings and stock
// movements. Each Post call runs inside one transaction: postings, the
// stock update and the posted flag commit together or not at all.
type PostingService struct {
	tx      repository.TxManager
	taxes   *TaxCalculator
	recipes RecipeBook
}

// NewPostingService creates a new posting service
func NewPostingService(tx repository.TxManager, taxes *TaxCalculator, recipes RecipeBook) *PostingService {
	if recipes == nil {
		recipes = DefaultRecipeBook
	}
	return &PostingService{
		tx:      tx,
		taxes:   taxes,
		recipes: recipes,
	}
}

// Post generates the ledger postings for a journal entry. Posting an
// already posted entry fails with ErrAlreadyPosted and writes nothing.
func (s *PostingService) Post(ctx context.Context, entryID uint) ([]models.Posting, error) {
	var postings []models.Posting

	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		entry, err := uow.Journal().FindByID(ctx, entryID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: journal entry %d", ErrNotFound, entryID)
		}
		if err != nil {
			return err
		}

		if !entry.MayPost() {
			return fmt.Errorf("%w: entry %d", ErrAlreadyPosted, entry.ID)
		}
		if err := entry.Validate(); err != nil {
			return err
		}

		switch entry.Type {
		case models.JournalTypePurchase:
			postings, err = s.postPurchase(ctx, uow, entry)
		case models.JournalTypeSale:
			postings, err = s.postSale(ctx, uow, entry)
		case models.JournalTypeCash:
			postings, err = s.postCash(ctx, uow, entry)
		case models.JournalTypeProduction:
			postings, err = s.postProduction(ctx, uow, entry)
		case models.JournalTypeConsumption:
			postings, err = s.postConsumption(ctx, uow, entry)
		case models.JournalTypeCharge:
			postings, err = s.postCharge(ctx, uow, entry)
		default:
			return fmt.Errorf("%w: %s", ErrUnknownJournalType, entry.Type)
		}
		if err != nil {
			return err
		}

		if err := uow.Postings().CreateBatch(ctx, postings); err != nil {
			return err
		}

		jfsm := statemachine.NewJournalFSM(entry)
		if err := jfsm.Post(ctx); err != nil {
			return err
		}
		return uow.Journal().Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return postings, nil
}

// postPurchase books the goods receipt against the supplier and brings
// the quantity into stock at the purchase price.
func (s *PostingService) postPurchase(ctx context.Context, uow repository.UnitOfWork, entry *models.JournalEntry) ([]models.Posting, error) {
	product, err := s.findProduct(ctx, uow, entry.ProductID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.findSupplier(ctx, uow, entry.SupplierID)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("Purchase %.2f %s %s - %s", entry.Quantity, product.MeasureUnit, product.Designation, entry.Label)
	stockAccount := purchaseStockAccount(product)

	var postings []models.Posting
	p, err := s.buildPosting(entry, models.BookPurchases, label, stockAccount, supplier.AccountCode, entry.BaseAmount)
	if err != nil {
		return nil, err
	}
	postings = append(postings, p)

	if entry.VATApplicable && entry.VATAmount > 0 {
		label := fmt.Sprintf("Deductible VAT %.1f%% - %s", entry.VATRate, entry.Label)
		p, err := s.buildPosting(entry, models.BookPurchases, label, models.AccountVATDeductible, supplier.AccountCode, entry.VATAmount)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}

	stock := NewStockService(uow.Stock())
	if _, err := stock.Increase(ctx, product.ID, entry.Unit(), entry.Quantity, entry.UnitPrice, entry.OperationDate); err != nil {
		return nil, err
	}
	return postings, nil
}

// postSale books revenue, VAT and stamp duty against the customer. Cost
// of goods is only recognized when the position covers the quantity;
// otherwise the stock is decremented leniently with no cost posting.
func (s *PostingService) postSale(ctx context.Context, uow repository.UnitOfWork, entry *models.JournalEntry) ([]models.Posting, error) {
	product, err := s.findProduct(ctx, uow, entry.ProductID)
	if err != nil {
		return nil, err
	}
	customer, err := s.findCustomer(ctx, uow, entry.CustomerID)
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("Sale %.2f %s %s - %s", entry.Quantity, product.MeasureUnit, product.Designation, entry.Label)

	var postings []models.Posting
	p, err := s.buildPosting(entry, models.BookSales, label, customer.AccountCode, product.ResolveSalesAccount(), entry.BaseAmount)
	if err != nil {
		return nil, err
	}
	postings = append(postings, p)

	if entry.VATApplicable && entry.VATAmount > 0 {
		label := fmt.Sprintf("Collected VAT %.1f%% - %s", entry.VATRate, entry.Label)
		p, err := s.buildPosting(entry, models.BookSales, label, customer.AccountCode, models.AccountVATCollected, entry.VATAmount)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}

	if entry.StampApplicable && entry.StampDuty > 0 {
		label := fmt.Sprintf("Stamp duty - %s", entry.Label)
		p, err := s.buildPosting(entry, models.BookSales, label, customer.AccountCode, models.AccountStampDuty, entry.StampDuty)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}

	stock := NewStockService(uow.Stock())
	position, err := stock.Position(ctx, product.ID, entry.Unit())
	if err != nil {
		return nil, err
	}

	if position.Quantity >= entry.Quantity && position.AvgUnitCost > 0 {
		exitCost, _ := decimal.NewFromFloat(entry.Quantity).
			Mul(decimal.NewFromFloat(position.AvgUnitCost)).
			Round(2).
			Float64()
		label := fmt.Sprintf("Cost of goods sold %s - %s", product.Designation, entry.Label)
		p, err := s.buildPosting(entry, models.BookSales, label, product.ResolvePurchaseAccount(), product.ResolveStockAccount(), exitCost)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)

		if _, err := stock.Decrease(ctx, product.ID, entry.Unit(), entry.Quantity, entry.OperationDate); err != nil {
			return nil, err
		}
	} else {
		if _, err := stock.DecreaseClamp(ctx, product.ID, entry.Unit(), entry.Quantity, entry.OperationDate); err != nil {
			return nil, err
		}
	}
	return postings, nil
}

// postCash books a treasury movement. A positive gross amount is a
// receipt, a negative one a payment; the counterparty account falls
// back to misc revenue or misc expense when no party is named.
func (s *PostingService) postCash(ctx context.Context, uow repository.UnitOfWork, entry *models.JournalEntry) ([]models.Posting, error) {
	inflow := entry.GrossAmount > 0

	counterpart := models.AccountMiscRevenue
	if !inflow {
		counterpart = models.AccountMiscExpense
	}
	if entry.CustomerID != nil {
		customer, err := s.findCustomer(ctx, uow, entry.CustomerID)
		if err != nil {
			return nil, err
		}
		counterpart = customer.AccountCode
	} else if entry.SupplierID != nil {
		supplier, err := s.findSupplier(ctx, uow, entry.SupplierID)
		if err != nil {
			return nil, err
		}
		counterpart = supplier.AccountCode
	}

	debit, credit := models.AccountCash, counterpart
	if !inflow {
		debit, credit = counterpart, models.AccountCash
	}

	amount, _ := decimal.NewFromFloat(entry.GrossAmount).Abs().Round(2).Float64()
	label := fmt.Sprintf("Cash movement - %s", entry.Label)
	p, err := s.buildPosting(entry, models.BookCash, label, debit, credit, amount)
	if err != nil {
		return nil, err
	}
	return []models.Posting{p}, nil
}

// postProduction values the output via the recipe book, overwrites the
// entry amounts with the computed cost and brings the output into
// stock at that cost.
func (s *PostingService) postProduction(ctx context.Context, uow repository.UnitOfWork, entry *models.JournalEntry) ([]models.Posting, error) {
	product, err := s.findProduct(ctx, uow, entry.ProductID)
	if err != nil {
		return nil, err
	}

	stock := NewStockService(uow.Stock())
	costing := NewCostingService(uow.Products(), stock, s.recipes)

	cost, err := costing.ProductionCost(ctx, product, entry.Quantity, entry.Unit())
	if err != nil {
		return nil, err
	}

	// production carries no external price; the computed cost is the amount
	entry.BaseAmount = cost
	entry.GrossAmount = cost
	entry.VATAmount = 0

	creditAccount := models.AccountStockedProduction
	switch product.Family {
	case models.FamilyWaste:
		creditAccount = models.AccountWasteSales
	case models.FamilySemiFinished:
		creditAccount = models.AccountSemiFinishedSales
	}

	label := fmt.Sprintf("Production %.2f %s %s - %s", entry.Quantity, product.MeasureUnit, product.Designation, entry.Label)
	p, err := s.buildPosting(entry, models.BookProduction, label, product.ResolveStockAccount(), creditAccount, cost)
	if err != nil {
		return nil, err
	}

	unitCost := 0.0
	if entry.Quantity > 0 {
		unitCost, _ = decimal.NewFromFloat(cost).
			Div(decimal.NewFromFloat(entry.Quantity)).
			Round(2).
			Float64()
	}
	if _, err := stock.Increase(ctx, product.ID, entry.Unit(), entry.Quantity, unitCost, entry.OperationDate); err != nil {
		return nil, err
	}
	return []models.Posting{p}, nil
}

// postConsumption values the withdrawal at the current average cost and
// fails when the position does not cover the quantity.
func (s *PostingService) postConsumption(ctx context.Context, uow repository.UnitOfWork, entry *models.JournalEntry) ([]models.Posting, error) {
	product, err := s.findProduct(ctx, uow, entry.ProductID)
	if err != nil {
		return nil, err
	}

	stock := NewStockService(uow.Stock())
	position, err := stock.Position(ctx, product.ID, entry.Unit())
	if err != nil {
		return nil, err
	}
	if position.Quantity < entry.Quantity {
		return nil, fmt.Errorf("%w: product %s has %.2f, need %.2f",
			ErrInsufficientStock, product.Code, position.Quantity, entry.Quantity)
	}

	cost, _ := decimal.NewFromFloat(entry.Quantity).
		Mul(decimal.NewFromFloat(position.AvgUnitCost)).
		Round(2).
		Float64()

	entry.BaseAmount = cost
	entry.GrossAmount = cost
	entry.VATAmount = 0

	label := fmt.Sprintf("Consumption %.2f %s %s - %s", entry.Quantity, product.MeasureUnit, product.Designation, entry.Label)
	p, err := s.buildPosting(entry, models.BookProduction, label, product.ResolvePurchaseAccount(), product.ResolveStockAccount(), cost)
	if err != nil {
		return nil, err
	}

	if _, err := stock.Decrease(ctx, product.ID, entry.Unit(), entry.Quantity, entry.OperationDate); err != nil {
		return nil, err
	}
	return []models.Posting{p}, nil
}

// postCharge books an indirect production charge against the default
// payable account.
func (s *PostingService) postCharge(ctx context.Context, uow repository.UnitOfWork, entry *models.JournalEntry) ([]models.Posting, error) {
	chargeAccount := models.AccountProductionOverhead
	if entry.ChargeType != nil {
		switch *entry.ChargeType {
		case models.ChargeTypeLabor:
			chargeAccount = models.AccountLabor
		case models.ChargeTypeEnergy:
			chargeAccount = models.AccountEnergy
		case models.ChargeTypeDepreciation:
			chargeAccount = models.AccountDepreciation
		}
	}

	label := fmt.Sprintf("Production charge - %s", entry.Label)
	p, err := s.buildPosting(entry, models.BookCharges, label, chargeAccount, models.AccountSuppliersDefault, entry.GrossAmount)
	if err != nil {
		return nil, err
	}
	return []models.Posting{p}, nil
}

// buildPosting constructs one ledger line. Amounts must be strictly
// positive; a zero or negative amount means the handler computed
// something wrong and the whole entry is rejected.
func (s *PostingService) buildPosting(entry *models.JournalEntry, book, label, debit, credit string, amount float64) (models.Posting, error) {
	if amount <= 0 {
		return models.Posting{}, fmt.Errorf("%w: %.2f on %s/%s", ErrInvalidAmount, amount, debit, credit)
	}
	return models.Posting{
		JournalID:      &entry.ID,
		AccountingDate: entry.OperationDate,
		Book:           book,
		Label:          label,
		DebitAccount:   debit,
		CreditAccount:  credit,
		Amount:         round2(amount),
		ProductID:      entry.ProductID,
		CustomerID:     entry.CustomerID,
		SupplierID:     entry.SupplierID,
		InvoiceNumber:  entry.PieceNumber,
	}, nil
}

// purchaseStockAccount routes a goods receipt by product family
func purchaseStockAccount(product *models.Product) string {
	switch product.Family {
	case models.FamilyFinished:
		return models.AccountFinishedGoodsStock
	case models.FamilySemiFinished:
		return models.AccountSemiFinishedStock
	}
	return product.ResolveStockAccount()
}

func (s *PostingService) findProduct(ctx context.Context, uow repository.UnitOfWork, id *uint) (*models.Product, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: product", ErrReferenceNotFound)
	}
	product, err := uow.Products().FindByID(ctx, *id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrReferenceNotFound, *id)
	}
	return product, err
}

func (s *PostingService) findCustomer(ctx context.Context, uow repository.UnitOfWork, id *uint) (*models.Customer, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: customer", ErrReferenceNotFound)
	}
	customer, err := uow.Customers().FindByID(ctx, *id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer %d", ErrReferenceNotFound, *id)
	}
	return customer, err
}

func (s *PostingService) findSupplier(ctx context.Context, uow repository.UnitOfWork, id *uint) (*models.Supplier, error) {
	if id == nil {
		return nil, fmt.Errorf("%w: supplier", ErrReferenceNotFound)
	}
	supplier, err := uow.Suppliers().FindByID(ctx, *id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: supplier %d", ErrReferenceNotFound, *id)
	}
	return supplier, err
}
