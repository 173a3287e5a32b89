package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
)

// StockService maintains weighted-average-cost positions per product and
// production unit. Construct it over the repositories of the unit of
// work whose transaction the movement belongs to.
type StockService struct {
	stockRepo repository.StockRepository
}

// NewStockService creates a new stock service
func NewStockService(stockRepo repository.StockRepository) *StockService {
	return &StockService{stockRepo: stockRepo}
}

// Position returns the current position for a product in a unit, or a
// zero position when it has never moved.
func (s *StockService) Position(ctx context.Context, productID uint, unit string) (*models.StockPosition, error) {
	position, err := s.stockRepo.FindByProductAndUnit(ctx, productID, unit)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.StockPosition{
			ProductID:      productID,
			ProductionUnit: unit,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return position, nil
}

// Increase adds quantity at the given unit cost and recomputes the
// weighted average:
//
//	newValue = oldValue + qty*unitCost
//	newCost  = newValue / newQty
func (s *StockService) Increase(ctx context.Context, productID uint, unit string, qty, unitCost float64, at time.Time) (*models.StockPosition, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity %.2f", ErrInvalidAmount, qty)
	}
	if unitCost < 0 {
		return nil, fmt.Errorf("%w: unit cost %.2f", ErrInvalidAmount, unitCost)
	}

	position, err := s.Position(ctx, productID, unit)
	if err != nil {
		return nil, err
	}

	oldValue := decimal.NewFromFloat(position.TotalValue)
	addedValue := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(unitCost))
	newQty := decimal.NewFromFloat(position.Quantity).Add(decimal.NewFromFloat(qty))
	newValue := oldValue.Add(addedValue).Round(2)

	position.Quantity, _ = newQty.Float64()
	position.TotalValue, _ = newValue.Float64()
	if newQty.IsPositive() {
		position.AvgUnitCost, _ = newValue.Div(newQty).Round(2).Float64()
	} else {
		position.AvgUnitCost = 0
	}
	position.LastMovementAt = at

	if err := s.stockRepo.Save(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}

// Decrease removes quantity at the current average cost. It fails with
// ErrInsufficientStock when the position does not cover the quantity;
// nothing is written in that case.
func (s *StockService) Decrease(ctx context.Context, productID uint, unit string, qty float64, at time.Time) (*models.StockPosition, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity %.2f", ErrInvalidAmount, qty)
	}

	position, err := s.Position(ctx, productID, unit)
	if err != nil {
		return nil, err
	}

	if position.Quantity < qty {
		return nil, fmt.Errorf("%w: product %d in %s has %.2f, need %.2f",
			ErrInsufficientStock, productID, unit, position.Quantity, qty)
	}

	return s.applyDecrease(ctx, position, qty, at)
}

// DecreaseClamp removes up to quantity, clamping the position at zero
// when it does not cover the full amount. The exit is valued at the
// current average cost either way.
func (s *StockService) DecreaseClamp(ctx context.Context, productID uint, unit string, qty float64, at time.Time) (*models.StockPosition, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity %.2f", ErrInvalidAmount, qty)
	}

	position, err := s.Position(ctx, productID, unit)
	if err != nil {
		return nil, err
	}

	if position.Quantity <= qty {
		// a position that never moved inbound stays unmaterialized
		materialized := position.ID != 0 || position.Quantity > 0
		position.Quantity = 0
		position.AvgUnitCost = 0
		position.TotalValue = 0
		position.LastMovementAt = at
		if !materialized {
			return position, nil
		}
		if err := s.stockRepo.Save(ctx, position); err != nil {
			return nil, err
		}
		return position, nil
	}

	return s.applyDecrease(ctx, position, qty, at)
}

// List returns stock positions matching the query.
func (s *StockService) List(ctx context.Context, query *repository.ListQuery) ([]models.StockPosition, int64, error) {
	return s.stockRepo.List(ctx, query)
}

// ByProduct returns every position a product holds across units.
func (s *StockService) ByProduct(ctx context.Context, productID uint) ([]models.StockPosition, error) {
	return s.stockRepo.FindByProduct(ctx, productID)
}

// TotalValue returns the value of all positions combined.
func (s *StockService) TotalValue(ctx context.Context) (float64, error) {
	return s.stockRepo.TotalValue(ctx)
}

func (s *StockService) applyDecrease(ctx context.Context, position *models.StockPosition, qty float64, at time.Time) (*models.StockPosition, error) {
	newQty := decimal.NewFromFloat(position.Quantity).Sub(decimal.NewFromFloat(qty))
	avgCost := decimal.NewFromFloat(position.AvgUnitCost)
	newValue := newQty.Mul(avgCost).Round(2)

	position.Quantity, _ = newQty.Float64()
	if newQty.IsPositive() {
		position.TotalValue, _ = newValue.Float64()
	} else {
		position.Quantity = 0
		position.AvgUnitCost = 0
		position.TotalValue = 0
	}
	position.LastMovementAt = at

	if err := s.stockRepo.Save(ctx, position); err != nil {
		return nil, err
	}
	return position, nil
}
