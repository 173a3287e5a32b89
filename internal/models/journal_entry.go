package models

import (
	"errors"
	"time"
)

// JournalEntry represents one business event of the daily journal. It is
// created by the caller with all fields populated and becomes immutable,
// for posting purposes, once Posted is set.
type JournalEntry struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OperationDate   time.Time  `gorm:"index;not null" json:"operation_date"`
	Type            string     `gorm:"size:20;not null;index" json:"type"`
	DocumentType    string     `gorm:"size:20" json:"document_type"`
	PieceNumber     string     `gorm:"size:50;not null" json:"piece_number"`
	Label           string     `gorm:"size:255;not null" json:"label"`
	ProductID       *uint      `gorm:"index" json:"product_id"`
	CustomerID      *uint      `gorm:"index" json:"customer_id"`
	SupplierID      *uint      `gorm:"index" json:"supplier_id"`
	ProductionUnit  string     `gorm:"size:50" json:"production_unit"`
	Quantity        float64    `json:"quantity"`
	UnitPrice       float64    `gorm:"type:decimal(15,2)" json:"unit_price"`
	BaseAmount      float64    `gorm:"type:decimal(15,2)" json:"base_amount"`
	VATRate         float64    `gorm:"type:decimal(5,2);default:19.0" json:"vat_rate"`
	VATAmount       float64    `gorm:"type:decimal(15,2)" json:"vat_amount"`
	GrossAmount     float64    `gorm:"type:decimal(15,2)" json:"gross_amount"`
	VATApplicable   bool       `gorm:"default:true" json:"vat_applicable"`
	StampApplicable bool       `gorm:"default:true" json:"stamp_applicable"`
	StampDuty       float64    `gorm:"type:decimal(15,2)" json:"stamp_duty"`
	ChargeType      *string    `gorm:"size:50" json:"charge_type"` // CHARGE entries only
	InvoiceID       *uint      `gorm:"index" json:"invoice_id"`
	ReversalOfID    *uint      `gorm:"index" json:"reversal_of_id"` // credit note → original sale
	Posted          bool       `gorm:"default:false;index" json:"posted"`
	PostedAt        *time.Time `json:"posted_at"`
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Invoice  *Invoice  `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// TableName specifies the table name for JournalEntry
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// Journal entry type constants. The set is closed: the poster rejects
// anything else with ErrUnknownJournalType.
const (
	JournalTypePurchase    = "PURCHASE"
	JournalTypeSale        = "SALE"
	JournalTypeCash        = "CASH"
	JournalTypeProduction  = "PRODUCTION"
	JournalTypeConsumption = "CONSUMPTION"
	JournalTypeCharge      = "CHARGE"
)

// JournalTypes lists every valid entry type.
var JournalTypes = []string{
	JournalTypePurchase,
	JournalTypeSale,
	JournalTypeCash,
	JournalTypeProduction,
	JournalTypeConsumption,
	JournalTypeCharge,
}

// Document type constants
const (
	DocumentDeliveryNote = "DELIVERY_NOTE"
	DocumentInvoice      = "INVOICE"
	DocumentCreditNote   = "CREDIT_NOTE"
)

// Charge type constants (CHARGE entries)
const (
	ChargeTypeLabor        = "LABOR"
	ChargeTypeEnergy       = "ENERGY"
	ChargeTypeDepreciation = "DEPRECIATION"
	ChargeTypeGeneric      = "GENERIC"
)

// Journal ledger book names carried on postings
const (
	BookPurchases  = "PURCHASES"
	BookSales      = "SALES"
	BookCash       = "CASH"
	BookProduction = "PRODUCTION"
	BookCharges    = "CHARGES"
)

// MayPost returns true if the entry has not been posted yet
func (e *JournalEntry) MayPost() bool {
	return !e.Posted
}

// Unit returns the production unit the entry operates on, defaulting to
// the general stock when none is named.
func (e *JournalEntry) Unit() string {
	if e.ProductionUnit == "" {
		return DefaultProductionUnit
	}
	return e.ProductionUnit
}

// Validate checks boundary-level consistency before the entry reaches
// the poster. It does not resolve references; that is the poster's job
// inside its unit of work.
func (e *JournalEntry) Validate() error {
	valid := false
	for _, t := range JournalTypes {
		if e.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		return errors.New("unknown journal type: " + e.Type)
	}
	if e.PieceNumber == "" {
		return errors.New("piece number is required")
	}
	if e.Label == "" {
		return errors.New("label is required")
	}
	if e.ReversalOfID != nil && e.ID != 0 && *e.ReversalOfID == e.ID {
		return errors.New("entry cannot reverse itself")
	}
	switch e.Type {
	case JournalTypePurchase:
		if e.ProductID == nil || e.SupplierID == nil {
			return errors.New("purchase requires a product and a supplier")
		}
		if e.Quantity <= 0 {
			return errors.New("purchase quantity must be positive")
		}
	case JournalTypeSale:
		if e.ProductID == nil || e.CustomerID == nil {
			return errors.New("sale requires a product and a customer")
		}
		if e.Quantity <= 0 {
			return errors.New("sale quantity must be positive")
		}
	case JournalTypeProduction, JournalTypeConsumption:
		if e.ProductID == nil {
			return errors.New("product is required")
		}
		if e.Quantity <= 0 {
			return errors.New("quantity must be positive")
		}
	case JournalTypeCash:
		if e.GrossAmount == 0 {
			return errors.New("cash movement amount must be non-zero")
		}
	case JournalTypeCharge:
		if e.GrossAmount <= 0 {
			return errors.New("charge amount must be positive")
		}
	}
	return nil
}

// JournalEntryResponse is the JSON response format for journal entries
type JournalEntryResponse struct {
	ID             uint       `json:"id"`
	OperationDate  time.Time  `json:"operation_date"`
	Type           string     `json:"type"`
	DocumentType   string     `json:"document_type,omitempty"`
	PieceNumber    string     `json:"piece_number"`
	Label          string     `json:"label"`
	ProductCode    string     `json:"product_code,omitempty"`
	CustomerName   string     `json:"customer_name,omitempty"`
	SupplierName   string     `json:"supplier_name,omitempty"`
	ProductionUnit string     `json:"production_unit,omitempty"`
	Quantity       float64    `json:"quantity"`
	UnitPrice      float64    `json:"unit_price"`
	BaseAmount     float64    `json:"base_amount"`
	VATAmount      float64    `json:"vat_amount"`
	GrossAmount    float64    `json:"gross_amount"`
	StampDuty      float64    `json:"stamp_duty"`
	InvoiceID      *uint      `json:"invoice_id,omitempty"`
	Posted         bool       `json:"posted"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
}

// ToResponse converts a JournalEntry to its response format
func (e *JournalEntry) ToResponse() JournalEntryResponse {
	resp := JournalEntryResponse{
		ID:             e.ID,
		OperationDate:  e.OperationDate,
		Type:           e.Type,
		DocumentType:   e.DocumentType,
		PieceNumber:    e.PieceNumber,
		Label:          e.Label,
		ProductionUnit: e.ProductionUnit,
		Quantity:       e.Quantity,
		UnitPrice:      e.UnitPrice,
		BaseAmount:     e.BaseAmount,
		VATAmount:      e.VATAmount,
		GrossAmount:    e.GrossAmount,
		StampDuty:      e.StampDuty,
		InvoiceID:      e.InvoiceID,
		Posted:         e.Posted,
		PostedAt:       e.PostedAt,
	}
	if e.Product != nil {
		resp.ProductCode = e.Product.Code
	}
	if e.Customer != nil {
		resp.CustomerName = e.Customer.Name
	}
	if e.Supplier != nil {
		resp.SupplierName = e.Supplier.Name
	}
	return resp
}
