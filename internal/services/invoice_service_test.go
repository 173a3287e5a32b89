package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ligna-erp/ligna-api/internal/config"
	"github.com/ligna-erp/ligna-api/internal/models"
)

func newInvoiceFixture() (*InvoiceService, *memStore) {
	store := newMemStore()
	svc := NewInvoiceService(
		&memTxManager{store: store},
		&memInvoiceRepository{store: store},
		&memCustomerRepository{store: store},
		NewTaxCalculator(),
		nil,
		nil,
		nil,
		&config.Config{InvoiceDueDays: 30},
	)
	return svc, store
}

func addDeliveryNote(store *memStore, customerID uint, day time.Time, base, vat float64) *models.JournalEntry {
	return store.addEntry(&models.JournalEntry{
		OperationDate: day,
		Type:          models.JournalTypeSale,
		DocumentType:  models.DocumentDeliveryNote,
		PieceNumber:   fmt.Sprintf("BL-%d", len(store.entries)+1),
		Label:         "Delivery",
		ProductID:     uintPtr(1),
		CustomerID:    uintPtr(customerID),
		Quantity:      2,
		UnitPrice:     base / 2,
		BaseAmount:    base,
		VATRate:       19,
		VATAmount:     vat,
		GrossAmount:   base + vat,
		Posted:        true,
	})
}

func TestGenerateFromDeliveryNotes(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.addCustomer(&models.Customer{ID: 1, Name: "Menuiserie Pro", AccountCode: "411000"})

	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	first := addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 4), 10000, 1900)
	second := addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 12), 5000, 950)

	invoice, err := svc.GenerateFromDeliveryNotes(ctx, 1, periodStart, periodEnd)
	assert.NoError(t, err)

	assert.Equal(t, 15000.0, invoice.BaseAmount)
	assert.Equal(t, 2850.0, invoice.VATAmount)
	assert.Equal(t, 17850.0, invoice.GrossAmount)

	// stamp on 17850: 179 blocks at 1.00
	assert.Equal(t, 179.0, invoice.StampDuty)
	assert.Equal(t, 18029.0, invoice.NetPayable)

	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
	assert.Len(t, invoice.Lines, 2)

	// FACT-<year>/<seq>
	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("FACT-%d/0001", year), invoice.Number)

	// both entries now carry the invoice back-link
	assert.Equal(t, invoice.ID, *store.entries[first.ID].InvoiceID)
	assert.Equal(t, invoice.ID, *store.entries[second.ID].InvoiceID)
}

func TestGenerateIncludesUnpostedDeliveryNotes(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.addCustomer(&models.Customer{ID: 1, Name: "Menuiserie Pro", AccountCode: "411000"})

	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 4), 1000, 190)
	pending := addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 10), 2000, 380)
	pending.Posted = false
	pending.PostedAt = nil

	invoice, err := svc.GenerateFromDeliveryNotes(ctx, 1, periodStart, periodEnd)
	assert.NoError(t, err)
	assert.Equal(t, 3000.0, invoice.BaseAmount)
	assert.Len(t, invoice.Lines, 2)
	assert.Equal(t, invoice.ID, *store.entries[pending.ID].InvoiceID)
}

func TestGenerateSkipsBilledAndOutOfPeriodEntries(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.addCustomer(&models.Customer{ID: 1, Name: "Menuiserie Pro"})

	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 4), 1000, 190)

	// already billed
	billed := addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 5), 2000, 380)
	billed.InvoiceID = uintPtr(99)

	// outside the period
	addDeliveryNote(store, 1, periodEnd.AddDate(0, 1, 0), 3000, 570)

	// other customer
	store.addCustomer(&models.Customer{ID: 2})
	addDeliveryNote(store, 2, periodStart.AddDate(0, 0, 6), 4000, 760)

	invoice, err := svc.GenerateFromDeliveryNotes(ctx, 1, periodStart, periodEnd)
	assert.NoError(t, err)
	assert.Equal(t, 1000.0, invoice.BaseAmount)
	assert.Len(t, invoice.Lines, 1)
}

func TestGenerateNoEligibleEntries(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.addCustomer(&models.Customer{ID: 1})

	_, err := svc.GenerateFromDeliveryNotes(ctx, 1,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoEligibleEntries)
	assert.Empty(t, store.invoices)
}

func TestGenerateUnknownCustomer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceFixture()

	_, err := svc.GenerateFromDeliveryNotes(ctx, 42,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestGenerateSequenceIncrements(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.addCustomer(&models.Customer{ID: 1})
	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 1), 1000, 190)
	first, err := svc.GenerateFromDeliveryNotes(ctx, 1, periodStart, periodEnd)
	assert.NoError(t, err)

	addDeliveryNote(store, 1, periodStart.AddDate(0, 0, 2), 2000, 380)
	second, err := svc.GenerateFromDeliveryNotes(ctx, 1, periodStart, periodEnd)
	assert.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("FACT-%d/0001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("FACT-%d/0002", year), second.Number)
}

func TestRecordSettlementTransitions(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.nextInvoiceID = 1
	store.invoices[1] = &models.Invoice{
		ID: 1, Number: "FACT-2026/0001", CustomerID: 1,
		NetPayable: 1000, Status: models.InvoiceStatusPending,
	}

	// partial payment
	invoice, err := svc.RecordSettlement(ctx, 1, SettlementInput{
		Amount: 400, Mode: models.SettlementModeCash, SettledOn: time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)
	assert.Equal(t, 600.0, invoice.RemainingDue())

	// the remainder settles the invoice
	invoice, err = svc.RecordSettlement(ctx, 1, SettlementInput{
		Amount: 600, Mode: models.SettlementModeCheque, SettledOn: time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.Equal(t, 0.0, invoice.RemainingDue())
	assert.Len(t, invoice.Settlements, 2)
}

func TestRecordSettlementFullAtOnce(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceFixture()

	store.nextInvoiceID = 1
	store.invoices[1] = &models.Invoice{
		ID: 1, Number: "FACT-2026/0002", CustomerID: 1,
		NetPayable: 500, Status: models.InvoiceStatusPending,
	}

	invoice, err := svc.RecordSettlement(ctx, 1, SettlementInput{
		Amount: 500, Mode: models.SettlementModeTransfer, SettledOn: time.Now(),
	})
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestRecordSettlementRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceFixture()

	_, err := svc.RecordSettlement(ctx, 1, SettlementInput{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.RecordSettlement(ctx, 1, SettlementInput{Amount: -10})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordSettlementUnknownInvoice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceFixture()

	_, err := svc.RecordSettlement(ctx, 77, SettlementInput{Amount: 100, SettledOn: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}
