package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
)

// Recipe maps raw material product codes to the quantity consumed per
// unit of output.
type Recipe map[string]float64

// RecipeBook maps output product codes to their recipes.
type RecipeBook map[string]Recipe

// DefaultRecipeBook holds the consumption ratios of the workshop. A
// product without a recipe is valued at its purchase price.
var DefaultRecipeBook = RecipeBook{
	"PF001": {"MP001": 2.5},
	"SF001": {"MP001": 1.2},
	"PF002": {"MP002": 0.8},
}

// overheadFactor loads indirect production charges on top of the raw
// material cost.
var overheadFactor = decimal.NewFromFloat(1.2)

// CostingService values production output. Raw materials are priced at
// their current weighted average cost, falling back to the catalog
// purchase price when the material has never been stocked.
type CostingService struct {
	productRepo repository.ProductRepository
	stock       *StockService
	recipes     RecipeBook
}

// NewCostingService creates a new costing service
func NewCostingService(productRepo repository.ProductRepository, stock *StockService, recipes RecipeBook) *CostingService {
	if recipes == nil {
		recipes = DefaultRecipeBook
	}
	return &CostingService{
		productRepo: productRepo,
		stock:       stock,
		recipes:     recipes,
	}
}

// UnitCost returns the cost of producing one unit of the product inside
// the given production unit.
func (s *CostingService) UnitCost(ctx context.Context, product *models.Product, unit string) (float64, error) {
	recipe, ok := s.recipes[product.Code]
	if !ok {
		return product.PurchasePrice, nil
	}

	total := decimal.Zero
	for materialCode, ratio := range recipe {
		material, err := s.productRepo.FindByCode(ctx, materialCode)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: raw material %s", ErrReferenceNotFound, materialCode)
		}
		if err != nil {
			return 0, err
		}

		cost, err := s.materialCost(ctx, material, unit)
		if err != nil {
			return 0, err
		}
		total = total.Add(decimal.NewFromFloat(ratio).Mul(decimal.NewFromFloat(cost)))
	}

	result, _ := total.Mul(overheadFactor).Round(2).Float64()
	return result, nil
}

// ProductionCost returns the total value of a production run.
func (s *CostingService) ProductionCost(ctx context.Context, product *models.Product, qty float64, unit string) (float64, error) {
	unitCost, err := s.UnitCost(ctx, product, unit)
	if err != nil {
		return 0, err
	}
	result, _ := decimal.NewFromFloat(qty).
		Mul(decimal.NewFromFloat(unitCost)).
		Round(2).
		Float64()
	return result, nil
}

func (s *CostingService) materialCost(ctx context.Context, material *models.Product, unit string) (float64, error) {
	position, err := s.stock.Position(ctx, material.ID, unit)
	if err != nil {
		return 0, err
	}
	if position.Quantity > 0 && position.AvgUnitCost > 0 {
		return position.AvgUnitCost, nil
	}
	return material.PurchasePrice, nil
}
