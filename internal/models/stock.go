package models

import (
	"time"
)

// StockPosition holds the running quantity and weighted-average unit
// cost of one product inside one production unit. Positions are created
// on first inbound movement and never deleted.
//
// Invariant: TotalValue == Quantity * AvgUnitCost after every update,
// within rounding tolerance; Quantity and AvgUnitCost never go negative.
type StockPosition struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProductID      uint      `gorm:"not null;uniqueIndex:idx_stock_product_unit" json:"product_id"`
	ProductionUnit string    `gorm:"size:50;not null;uniqueIndex:idx_stock_product_unit" json:"production_unit"`
	Quantity       float64   `gorm:"default:0" json:"quantity"`
	AvgUnitCost    float64   `gorm:"type:decimal(15,2);default:0" json:"avg_unit_cost"`
	TotalValue     float64   `gorm:"type:decimal(15,2);default:0" json:"total_value"`
	LastMovementAt time.Time `json:"last_movement_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName specifies the table name for StockPosition
func (StockPosition) TableName() string {
	return "stock_positions"
}

// StockPositionResponse is the JSON response format for stock positions
type StockPositionResponse struct {
	ID             uint      `json:"id"`
	ProductCode    string    `json:"product_code"`
	Designation    string    `json:"designation"`
	Family         string    `json:"family,omitempty"`
	ProductionUnit string    `json:"production_unit"`
	Quantity       float64   `json:"quantity"`
	AvgUnitCost    float64   `json:"avg_unit_cost"`
	TotalValue     float64   `json:"total_value"`
	LastMovementAt time.Time `json:"last_movement_at"`
}

// ToResponse converts a StockPosition to its response format
func (s *StockPosition) ToResponse() StockPositionResponse {
	resp := StockPositionResponse{
		ID:             s.ID,
		ProductionUnit: s.ProductionUnit,
		Quantity:       s.Quantity,
		AvgUnitCost:    s.AvgUnitCost,
		TotalValue:     s.TotalValue,
		LastMovementAt: s.LastMovementAt,
	}
	if s.Product != nil {
		resp.ProductCode = s.Product.Code
		resp.Designation = s.Product.Designation
		resp.Family = s.Product.Family
	}
	return resp
}
