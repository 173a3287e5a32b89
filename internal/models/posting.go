package models

import (
	"time"
)

// Posting is one double-entry line of the general ledger. Postings are
// created by the poster only and never mutated afterwards.
type Posting struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	JournalID      *uint     `gorm:"index" json:"journal_id"`
	AccountingDate time.Time `gorm:"type:date;not null;index" json:"accounting_date"`
	Book           string    `gorm:"size:50;not null" json:"book"`
	Label          string    `gorm:"size:255;not null" json:"label"`
	DebitAccount   string    `gorm:"size:10;not null;index" json:"debit_account"`
	CreditAccount  string    `gorm:"size:10;not null;index" json:"credit_account"`
	Amount         float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	ProductID      *uint     `gorm:"index" json:"product_id"`
	CustomerID     *uint     `gorm:"index" json:"customer_id"`
	SupplierID     *uint     `gorm:"index" json:"supplier_id"`
	InvoiceNumber  string    `gorm:"size:50" json:"invoice_number"`
	CreatedAt      time.Time `json:"created_at"`

	// Associations
	Journal  *JournalEntry `gorm:"foreignKey:JournalID" json:"-"`
	Product  *Product      `gorm:"foreignKey:ProductID" json:"-"`
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"-"`
	Supplier *Supplier     `gorm:"foreignKey:SupplierID" json:"-"`
}

// TableName specifies the table name for Posting
func (Posting) TableName() string {
	return "postings"
}
