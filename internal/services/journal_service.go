package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/pkg/logger"
)

// JournalService is the write boundary of the daily journal. It turns
// validated input into entries with computed tax amounts; the poster
// takes over from there.
type JournalService struct {
	journalRepo repository.JournalRepository
	postingRepo repository.PostingRepository
	poster      *PostingService
	taxes       *TaxCalculator
}

// NewJournalService creates a new journal service
func NewJournalService(
	journalRepo repository.JournalRepository,
	postingRepo repository.PostingRepository,
	poster *PostingService,
	taxes *TaxCalculator,
) *JournalService {
	return &JournalService{
		journalRepo: journalRepo,
		postingRepo: postingRepo,
		poster:      poster,
		taxes:       taxes,
	}
}

// CreateEntryInput carries one journal entry from the boundary. Amounts
// are derived here; callers supply quantity and unit price (or a gross
// amount for CASH and CHARGE entries).
type CreateEntryInput struct {
	OperationDate   time.Time
	Type            string
	DocumentType    string
	PieceNumber     string
	Label           string
	ProductID       *uint
	CustomerID      *uint
	SupplierID      *uint
	ProductionUnit  string
	Quantity        float64
	UnitPrice       float64
	GrossAmount     float64
	VATRate         float64
	VATApplicable   bool
	StampApplicable bool
	ChargeType      *string
	ReversalOfID    *uint
}

// CreateEntry validates the input, computes base, VAT and stamp duty,
// and stores the entry unposted.
func (s *JournalService) CreateEntry(ctx context.Context, input CreateEntryInput) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{
		OperationDate:   input.OperationDate,
		Type:            input.Type,
		DocumentType:    input.DocumentType,
		PieceNumber:     input.PieceNumber,
		Label:           input.Label,
		ProductID:       input.ProductID,
		CustomerID:      input.CustomerID,
		SupplierID:      input.SupplierID,
		ProductionUnit:  input.ProductionUnit,
		Quantity:        input.Quantity,
		UnitPrice:       input.UnitPrice,
		VATRate:         input.VATRate,
		VATApplicable:   input.VATApplicable,
		StampApplicable: input.StampApplicable,
		ChargeType:      input.ChargeType,
		ReversalOfID:    input.ReversalOfID,
	}

	switch input.Type {
	case models.JournalTypePurchase, models.JournalTypeSale:
		base, _ := decimal.NewFromFloat(input.Quantity).
			Mul(decimal.NewFromFloat(input.UnitPrice)).
			Round(2).
			Float64()
		entry.BaseAmount, entry.VATAmount, entry.GrossAmount = s.taxes.GrossUp(base, input.VATRate, input.VATApplicable)
		if input.Type == models.JournalTypeSale && input.StampApplicable {
			entry.StampDuty = s.taxes.StampDuty(entry.GrossAmount)
		}
	case models.JournalTypeCash:
		entry.GrossAmount = input.GrossAmount
		entry.BaseAmount = input.GrossAmount
	case models.JournalTypeCharge:
		entry.GrossAmount = round2(input.GrossAmount)
		entry.BaseAmount = entry.GrossAmount
	case models.JournalTypeProduction, models.JournalTypeConsumption:
		// amounts are derived by the poster from stock costs
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownJournalType, input.Type)
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info("journal entry created", "id", entry.ID, "type", entry.Type, "piece", entry.PieceNumber)
	return entry, nil
}

// PostEntry runs the poster on an entry and returns the generated
// ledger lines.
func (s *JournalService) PostEntry(ctx context.Context, id uint) ([]models.Posting, error) {
	return s.poster.Post(ctx, id)
}

// GetEntry returns one journal entry
func (s *JournalService) GetEntry(ctx context.Context, id uint) (*models.JournalEntry, error) {
	entry, err := s.journalRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return entry, err
}

// ListEntries returns journal entries matching the query
func (s *JournalService) ListEntries(ctx context.Context, query *repository.ListQuery) ([]models.JournalEntry, int64, error) {
	return s.journalRepo.List(ctx, query)
}

// EntryPostings returns the ledger lines generated for an entry
func (s *JournalService) EntryPostings(ctx context.Context, id uint) ([]models.Posting, error) {
	return s.postingRepo.FindByJournalID(ctx, id)
}

// ListPostings returns ledger lines matching the query
func (s *JournalService) ListPostings(ctx context.Context, query *repository.ListQuery) ([]models.Posting, int64, error) {
	return s.postingRepo.List(ctx, query)
}

// AccountBalance returns debits minus credits for one account
func (s *JournalService) AccountBalance(ctx context.Context, accountCode string) (float64, error) {
	return s.postingRepo.AccountBalance(ctx, accountCode)
}
