package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/ligna-erp/ligna-api/internal/models"
)

// InvoiceFSM wraps an invoice with its settlement state machine. The
// target state is derived from the settled total, never chosen by the
// caller.
type InvoiceFSM struct {
	invoice *models.Invoice
	fsm     *fsm.FSM
}

// NewInvoiceFSM creates a new invoice state machine
func NewInvoiceFSM(invoice *models.Invoice) *InvoiceFSM {
	iffsm := &InvoiceFSM{
		invoice: invoice,
	}

	iffsm.fsm = fsm.NewFSM(
		invoice.Status,
		fsm.Events{
			// PENDING → PARTIALLY_PAID
			{Name: "settle_partial", Src: []string{models.InvoiceStatusPending}, Dst: models.InvoiceStatusPartiallyPaid},

			// PENDING/PARTIALLY_PAID → PAID
			{Name: "settle_full", Src: []string{models.InvoiceStatusPending, models.InvoiceStatusPartiallyPaid}, Dst: models.InvoiceStatusPaid},
		},
		fsm.Callbacks{},
	)

	return iffsm
}

// Reconcile moves the invoice to the state its settled total implies.
// Staying in the current state is not an error; a fully settled invoice
// never moves back.
func (i *InvoiceFSM) Reconcile(ctx context.Context, settledTotal float64) error {
	switch {
	case settledTotal >= i.invoice.NetPayable:
		if i.fsm.Current() == models.InvoiceStatusPaid {
			return nil
		}
		if err := i.fsm.Event(ctx, "settle_full"); err != nil {
			return fmt.Errorf("failed to mark invoice paid: %w", err)
		}
	case settledTotal > 0:
		if i.fsm.Current() != models.InvoiceStatusPending {
			return nil
		}
		if err := i.fsm.Event(ctx, "settle_partial"); err != nil {
			return fmt.Errorf("failed to mark invoice partially paid: %w", err)
		}
	default:
		return nil
	}

	i.invoice.Status = i.fsm.Current()
	return nil
}

// Current returns the current state
func (i *InvoiceFSM) Current() string {
	return i.fsm.Current()
}
