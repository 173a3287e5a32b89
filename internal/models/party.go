package models

import (
	"time"
)

// Customer represents a buyer of finished goods.
type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:20;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Address     *string   `gorm:"type:text" json:"address"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Email       string    `gorm:"size:100" json:"email"`
	TaxID       string    `gorm:"size:20" json:"tax_id"`
	TradeRegID  string    `gorm:"size:20" json:"trade_reg_id"`
	AccountCode string    `gorm:"size:15;default:411000" json:"account_code"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// Supplier represents a provider of raw materials or services.
type Supplier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:20;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Address     *string   `gorm:"type:text" json:"address"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Email       string    `gorm:"size:100" json:"email"`
	TaxID       string    `gorm:"size:20" json:"tax_id"`
	TradeRegID  string    `gorm:"size:20" json:"trade_reg_id"`
	AccountCode string    `gorm:"size:15;default:401000" json:"account_code"`
	Active      bool      `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}
