package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ligna-erp/ligna-api/internal/models"
)

func pendingInvoice(netPayable float64) *models.Invoice {
	return &models.Invoice{
		ID:         1,
		NetPayable: netPayable,
		Status:     models.InvoiceStatusPending,
	}
}

func TestInvoiceFSMPartialSettlement(t *testing.T) {
	invoice := pendingInvoice(1000)
	ifsm := NewInvoiceFSM(invoice)

	err := ifsm.Reconcile(context.Background(), 400)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)
}

func TestInvoiceFSMFullSettlement(t *testing.T) {
	invoice := pendingInvoice(1000)
	ifsm := NewInvoiceFSM(invoice)

	err := ifsm.Reconcile(context.Background(), 1000)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestInvoiceFSMPartialThenFull(t *testing.T) {
	invoice := pendingInvoice(1000)

	err := NewInvoiceFSM(invoice).Reconcile(context.Background(), 400)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)

	err = NewInvoiceFSM(invoice).Reconcile(context.Background(), 1000)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestInvoiceFSMNoSettlementStaysPending(t *testing.T) {
	invoice := pendingInvoice(1000)
	ifsm := NewInvoiceFSM(invoice)

	err := ifsm.Reconcile(context.Background(), 0)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
}

func TestInvoiceFSMPaidStaysPaid(t *testing.T) {
	invoice := pendingInvoice(1000)
	invoice.Status = models.InvoiceStatusPaid
	ifsm := NewInvoiceFSM(invoice)

	// over-settled totals never move a paid invoice
	err := ifsm.Reconcile(context.Background(), 1500)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
}

func TestInvoiceFSMRepeatedPartial(t *testing.T) {
	invoice := pendingInvoice(1000)
	invoice.Status = models.InvoiceStatusPartiallyPaid
	ifsm := NewInvoiceFSM(invoice)

	// another partial payment keeps the state
	err := ifsm.Reconcile(context.Background(), 700)
	assert.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)
}
