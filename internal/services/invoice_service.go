package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/config"
	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/internal/statemachine"
	"github.com/ligna-erp/ligna-api/pkg/logger"
)

// InvoiceService aggregates billed delivery notes into invoices and
// tracks their settlement.
type InvoiceService struct {
	tx                  repository.TxManager
	invoiceRepo         repository.InvoiceRepository
	customerRepo        repository.CustomerRepository
	taxes               *TaxCalculator
	notificationService *NotificationService
	emailService        *EmailService
	userRepo            repository.UserRepository
	cfg                 *config.Config
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tx repository.TxManager,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	taxes *TaxCalculator,
	notificationService *NotificationService,
	emailService *EmailService,
	userRepo repository.UserRepository,
	cfg *config.Config,
) *InvoiceService {
	return &InvoiceService{
		tx:                  tx,
		invoiceRepo:         invoiceRepo,
		customerRepo:        customerRepo,
		taxes:               taxes,
		notificationService: notificationService,
		emailService:        emailService,
		userRepo:            userRepo,
		cfg:                 cfg,
	}
}

// GenerateFromDeliveryNotes bills every unbilled delivery-note sale of a
// customer inside the period as one invoice. The invoice, its lines and
// the back-links on the billed entries commit in one transaction.
func (s *InvoiceService) GenerateFromDeliveryNotes(ctx context.Context, customerID uint, periodStart, periodEnd time.Time) (*models.Invoice, error) {
	var invoice *models.Invoice

	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		customer, err := uow.Customers().FindByID(ctx, customerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: customer %d", ErrReferenceNotFound, customerID)
		}
		if err != nil {
			return err
		}

		entries, err := uow.Journal().FindUnbilledDeliveryNotes(ctx, customerID, periodStart, periodEnd)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrNoEligibleEntries
		}

		base, vat, gross := decimal.Zero, decimal.Zero, decimal.Zero
		for _, e := range entries {
			base = base.Add(decimal.NewFromFloat(e.BaseAmount))
			vat = vat.Add(decimal.NewFromFloat(e.VATAmount))
			gross = gross.Add(decimal.NewFromFloat(e.GrossAmount))
		}

		grossF, _ := gross.Round(2).Float64()
		stamp := s.taxes.StampDuty(grossF)
		net, _ := gross.Add(decimal.NewFromFloat(stamp)).Round(2).Float64()

		invoiceDate := time.Now()
		number, err := s.nextNumber(ctx, uow, invoiceDate.Year())
		if err != nil {
			return err
		}

		dueDate := invoiceDate.AddDate(0, 0, s.cfg.InvoiceDueDays)
		baseF, _ := base.Round(2).Float64()
		vatF, _ := vat.Round(2).Float64()

		invoice = &models.Invoice{
			Number:      number,
			CustomerID:  customer.ID,
			InvoiceDate: invoiceDate,
			BaseAmount:  baseF,
			VATAmount:   vatF,
			GrossAmount: grossF,
			StampDuty:   stamp,
			NetPayable:  net,
			DueDate:     &dueDate,
			Status:      models.InvoiceStatusPending,
		}
		for _, e := range entries {
			invoice.Lines = append(invoice.Lines, models.InvoiceLine{
				ProductID:  *e.ProductID,
				Quantity:   e.Quantity,
				UnitPrice:  e.UnitPrice,
				BaseAmount: e.BaseAmount,
				VATRate:    e.VATRate,
				VATAmount:  e.VATAmount,
			})
		}

		if err := uow.Invoices().Create(ctx, invoice); err != nil {
			return err
		}

		for i := range entries {
			entries[i].InvoiceID = &invoice.ID
			if err := uow.Journal().Update(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("invoice generated", "number", invoice.Number, "customer_id", customerID, "net_payable", invoice.NetPayable)

	if s.notificationService != nil {
		s.notificationService.NotifyAdmins(ctx,
			"Invoice created",
			fmt.Sprintf("Invoice %s for %.2f created", invoice.Number, invoice.NetPayable),
			models.NotificationTypeInvoiceCreated)
	}
	return invoice, nil
}

// nextNumber draws the next invoice number for the year
func (s *InvoiceService) nextNumber(ctx context.Context, uow repository.UnitOfWork, year int) (string, error) {
	n, err := uow.Sequences().NextNumber(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FACT-%d/%04d", year, n), nil
}

// SettlementInput carries a payment received against an invoice
type SettlementInput struct {
	Amount       float64
	Mode         string
	SettledOn    time.Time
	ChequeNumber *string
	Comment      *string
	ReceiptPath  *string
}

// RecordSettlement appends a payment and moves the invoice status to
// whatever the new settled total implies. Over-payment is a caller
// concern; the service only requires a positive amount.
func (s *InvoiceService) RecordSettlement(ctx context.Context, invoiceID uint, input SettlementInput) (*models.Invoice, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: settlement of %.2f", ErrInvalidAmount, input.Amount)
	}

	var invoice *models.Invoice
	err := s.tx.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		invoice, err = uow.Invoices().FindByID(ctx, invoiceID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invoice %d", ErrNotFound, invoiceID)
		}
		if err != nil {
			return err
		}

		settlement := &models.Settlement{
			InvoiceID:    invoice.ID,
			CustomerID:   &invoice.CustomerID,
			Amount:       round2(input.Amount),
			Mode:         input.Mode,
			SettledOn:    input.SettledOn,
			ChequeNumber: input.ChequeNumber,
			Comment:      input.Comment,
			ReceiptPath:  input.ReceiptPath,
		}
		if err := uow.Invoices().AddSettlement(ctx, settlement); err != nil {
			return err
		}

		invoice.Settlements = append(invoice.Settlements, *settlement)

		ifsm := statemachine.NewInvoiceFSM(invoice)
		if err := ifsm.Reconcile(ctx, invoice.SettledAmount()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		return uow.Invoices().Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("settlement recorded", "invoice", invoice.Number, "amount", input.Amount, "status", invoice.Status)

	if s.notificationService != nil {
		s.notificationService.NotifyAdmins(ctx,
			"Settlement recorded",
			fmt.Sprintf("Payment of %.2f on invoice %s (%s)", input.Amount, invoice.Number, invoice.Status),
			models.NotificationTypeSettlementCreated)
	}
	return invoice, nil
}

// GetInvoice returns one invoice with its lines and settlements
func (s *InvoiceService) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return invoice, err
}

// ListInvoices returns invoices matching the query
func (s *InvoiceService) ListInvoices(ctx context.Context, query *repository.ListQuery) ([]models.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, query)
}

// NotifyOverdueInvoices scans for unpaid invoices past their due date
// and raises a notification per invoice, plus a reminder email to each
// admin. Runs from the scheduler.
func (s *InvoiceService) NotifyOverdueInvoices(ctx context.Context) error {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, time.Now())
	if err != nil {
		return err
	}

	var admins []models.User
	if s.userRepo != nil {
		if admins, err = s.userRepo.FindAdmins(ctx); err != nil {
			logger.Error("listing admins for overdue reminders", "error", err)
		}
	}

	for i := range invoices {
		inv := &invoices[i]
		msg := fmt.Sprintf("Invoice %s for %s is overdue, %.2f remaining",
			inv.Number, inv.Customer.Name, inv.RemainingDue())
		logger.Warn("overdue invoice", "number", inv.Number, "remaining", inv.RemainingDue())
		if s.notificationService != nil {
			s.notificationService.NotifyAdmins(ctx, "Overdue invoice", msg, models.NotificationTypeInvoiceOverdue)
		}
		if s.emailService != nil {
			for j := range admins {
				if err := s.emailService.SendInvoiceOverdue(ctx, &admins[j], inv); err != nil {
					logger.Error("sending overdue reminder", "invoice", inv.Number, "error", err)
				}
			}
		}
	}
	return nil
}
