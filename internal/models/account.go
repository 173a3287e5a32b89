package models

import (
	"time"
)

// Account is one entry of the chart of accounts. Postings reference
// accounts by code, never by id.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Label     string    `gorm:"size:255;not null" json:"label"`
	Class     int       `gorm:"not null" json:"class"` // 1 to 8
	Type      string    `gorm:"size:20" json:"type"`
	Level     int       `json:"level"` // 1: class, 2: sub-class, 3: detail account
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// Account type constants
const (
	AccountTypeAsset     = "ASSET"
	AccountTypeLiability = "LIABILITY"
	AccountTypeCapital   = "CAPITAL"
	AccountTypeExpense   = "EXPENSE"
	AccountTypeRevenue   = "REVENUE"
)

// Well-known account codes used by the posting engine. Products and
// parties may carry their own detail accounts; these are the routing
// defaults when they don't.
const (
	AccountRawMaterialStock   = "311000" // raw material stock
	AccountFinishedGoodsStock = "351000" // finished goods stock
	AccountSemiFinishedStock  = "351001" // semi-finished stock
	AccountCustomersDefault   = "411000"
	AccountSuppliersDefault   = "401000"
	AccountVATDeductible      = "4456"
	AccountVATCollected       = "4457"
	AccountStampDuty          = "4458"
	AccountCash               = "530000"
	AccountPurchasesDefault   = "601000"
	AccountSalesDefault       = "701000"
	AccountWasteSales         = "701003"
	AccountSemiFinishedSales  = "701004"
	AccountStockedProduction  = "713000"
	AccountMiscRevenue        = "758000"
	AccountMiscExpense        = "658000"
	AccountProductionOverhead = "611000"
	AccountLabor              = "641000"
	AccountEnergy             = "606100"
	AccountDepreciation       = "681100"
)
