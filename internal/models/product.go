package models

import (
	"time"
)

// Product represents a raw material, semi-finished or finished good, or
// recoverable waste handled by the plant.
type Product struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Designation     string    `gorm:"size:255;not null" json:"designation"`
	Family          string    `gorm:"size:10;index" json:"family"`
	MeasureUnit     string    `gorm:"size:20" json:"measure_unit"` // m³, pieces, kg...
	PurchasePrice   float64   `gorm:"type:decimal(15,2)" json:"purchase_price"`
	SalePrice       float64   `gorm:"type:decimal(15,2)" json:"sale_price"`
	VATRate         float64   `gorm:"type:decimal(5,2);default:19.0" json:"vat_rate"`
	StockAccount    string    `gorm:"size:10" json:"stock_account"`    // e.g. 311001
	PurchaseAccount string    `gorm:"size:10" json:"purchase_account"` // e.g. 601001
	SalesAccount    string    `gorm:"size:10" json:"sales_account"`    // e.g. 701001
	Active          bool      `gorm:"default:true" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// Product family constants
const (
	FamilyRawMaterial  = "MP" // matière première
	FamilySemiFinished = "SF"
	FamilyFinished     = "PF"
	FamilyWaste        = "WASTE"
)

// ResolveStockAccount returns the stock account postings against this
// product should use, falling back to the raw material stock account.
func (p *Product) ResolveStockAccount() string {
	if p.StockAccount != "" {
		return p.StockAccount
	}
	return AccountRawMaterialStock
}

// ResolvePurchaseAccount returns the expense account for consumptions.
func (p *Product) ResolvePurchaseAccount() string {
	if p.PurchaseAccount != "" {
		return p.PurchaseAccount
	}
	return AccountPurchasesDefault
}

// ResolveSalesAccount returns the revenue account for sales.
func (p *Product) ResolveSalesAccount() string {
	if p.SalesAccount != "" {
		return p.SalesAccount
	}
	return AccountSalesDefault
}

// ProductionUnit is a physical or organizational subdivision (sawmill,
// peeling line, workshop...) stock and cost are tracked against.
type ProductionUnit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for ProductionUnit
func (ProductionUnit) TableName() string {
	return "production_units"
}

// DefaultProductionUnit is used when an entry names no unit.
const DefaultProductionUnit = "GENERAL"
