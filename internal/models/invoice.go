package models

import (
	"time"
)

// Invoice aggregates delivery-note sales into one customer invoice.
// Status is derived from the settlements, never set directly.
type Invoice struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Number      string     `gorm:"size:50;uniqueIndex;not null" json:"number"` // FACT-<year>/<seq:04d>
	CustomerID  uint       `gorm:"not null;index" json:"customer_id"`
	InvoiceDate time.Time  `gorm:"type:date;not null" json:"invoice_date"`
	BaseAmount  float64    `gorm:"type:decimal(15,2);default:0" json:"base_amount"`  // HT
	VATAmount   float64    `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`   // TVA
	GrossAmount float64    `gorm:"type:decimal(15,2);default:0" json:"gross_amount"` // TTC
	StampDuty   float64    `gorm:"type:decimal(15,2);default:0" json:"stamp_duty"`
	NetPayable  float64    `gorm:"type:decimal(15,2);default:0" json:"net_payable"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	Status      string     `gorm:"size:20;default:PENDING;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Customer    Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines       []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
	Settlements []Settlement  `gorm:"foreignKey:InvoiceID" json:"settlements,omitempty"`
}

// TableName specifies the table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// Invoice status constants
const (
	InvoiceStatusPending       = "PENDING"
	InvoiceStatusPartiallyPaid = "PARTIALLY_PAID"
	InvoiceStatusPaid          = "PAID"
)

// SettledAmount returns the sum of recorded settlements
func (i *Invoice) SettledAmount() float64 {
	var total float64
	for _, s := range i.Settlements {
		total += s.Amount
	}
	return total
}

// RemainingDue returns the unpaid part of the net payable
func (i *Invoice) RemainingDue() float64 {
	remaining := i.NetPayable - i.SettledAmount()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOverdue returns true if the invoice is unpaid past its due date
func (i *Invoice) IsOverdue() bool {
	return i.Status != InvoiceStatusPaid && i.DueDate != nil && time.Now().After(*i.DueDate)
}

// InvoiceLine is one billed delivery-note entry on an invoice.
type InvoiceLine struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	InvoiceID  uint    `gorm:"not null;index" json:"invoice_id"`
	ProductID  uint    `gorm:"not null" json:"product_id"`
	Quantity   float64 `gorm:"not null" json:"quantity"`
	UnitPrice  float64 `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	BaseAmount float64 `gorm:"type:decimal(15,2);not null" json:"base_amount"`
	VATRate    float64 `gorm:"type:decimal(5,2);default:19.0" json:"vat_rate"`
	VATAmount  float64 `gorm:"type:decimal(15,2);not null" json:"vat_amount"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName specifies the table name for InvoiceLine
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// Settlement is one payment received against an invoice.
type Settlement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InvoiceID    uint      `gorm:"not null;index" json:"invoice_id"`
	CustomerID   *uint     `gorm:"index" json:"customer_id"`
	Amount       float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Mode         string    `gorm:"size:20;not null" json:"mode"`
	ChequeNumber *string   `gorm:"size:50" json:"cheque_number"`
	SettledOn    time.Time `gorm:"type:date;not null" json:"settled_on"`
	Comment      *string   `gorm:"type:text" json:"comment"`
	ReceiptPath  *string   `json:"-"` // uploaded cheque scan / receipt
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for Settlement
func (Settlement) TableName() string {
	return "settlements"
}

// Settlement mode constants
const (
	SettlementModeCash     = "CASH"
	SettlementModeCheque   = "CHEQUE"
	SettlementModeTransfer = "TRANSFER"
)

// Sequence is the per-year counter backing invoice numbering. The
// counter only ever moves forward; numbers are never reused.
type Sequence struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	Year       int  `gorm:"uniqueIndex;not null" json:"year"`
	LastNumber int  `gorm:"default:0" json:"last_number"`
}

// TableName specifies the table name for Sequence
func (Sequence) TableName() string {
	return "sequences"
}

// InvoiceResponse is the JSON response format for invoices
type InvoiceResponse struct {
	ID           uint       `json:"id"`
	Number       string     `json:"number"`
	CustomerID   uint       `json:"customer_id"`
	CustomerName string     `json:"customer_name,omitempty"`
	InvoiceDate  time.Time  `json:"invoice_date"`
	BaseAmount   float64    `json:"base_amount"`
	VATAmount    float64    `json:"vat_amount"`
	GrossAmount  float64    `json:"gross_amount"`
	StampDuty    float64    `json:"stamp_duty"`
	NetPayable   float64    `json:"net_payable"`
	SettledTotal float64    `json:"settled_total"`
	RemainingDue float64    `json:"remaining_due"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Status       string     `json:"status"`
	LineCount    int        `json:"line_count"`
}

// ToResponse converts an Invoice to its response format
func (i *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		ID:           i.ID,
		Number:       i.Number,
		CustomerID:   i.CustomerID,
		InvoiceDate:  i.InvoiceDate,
		BaseAmount:   i.BaseAmount,
		VATAmount:    i.VATAmount,
		GrossAmount:  i.GrossAmount,
		StampDuty:    i.StampDuty,
		NetPayable:   i.NetPayable,
		SettledTotal: i.SettledAmount(),
		RemainingDue: i.RemainingDue(),
		DueDate:      i.DueDate,
		Status:       i.Status,
		LineCount:    len(i.Lines),
	}
	if i.Customer.ID != 0 {
		resp.CustomerName = i.Customer.Name
	}
	return resp
}
