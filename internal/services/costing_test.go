package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ligna-erp/ligna-api/internal/models"
)

func newCostingFixture() (*CostingService, *memStore) {
	store := newMemStore()
	stock := NewStockService(&memStockRepository{store: store})
	costing := NewCostingService(&memProductRepository{store: store}, stock, DefaultRecipeBook)
	return costing, store
}

func TestUnitCostFromRecipe(t *testing.T) {
	ctx := context.Background()
	costing, store := newCostingFixture()

	store.addProduct(&models.Product{ID: 1, Code: "MP001", Family: models.FamilyRawMaterial, PurchasePrice: 500})
	table := store.addProduct(&models.Product{ID: 2, Code: "PF001", Family: models.FamilyFinished})

	// MP001 held at an average cost of 480
	store.setStock(1, "GENERAL", 50, 480, 24000)

	// 2.5 * 480 * 1.2 overhead
	cost, err := costing.UnitCost(ctx, table, "GENERAL")
	assert.NoError(t, err)
	assert.Equal(t, 1440.0, cost)
}

func TestUnitCostFallsBackToPurchasePrice(t *testing.T) {
	ctx := context.Background()
	costing, store := newCostingFixture()

	store.addProduct(&models.Product{ID: 1, Code: "MP001", Family: models.FamilyRawMaterial, PurchasePrice: 500})
	table := store.addProduct(&models.Product{ID: 2, Code: "PF001", Family: models.FamilyFinished})

	// material never stocked, catalog purchase price applies: 2.5 * 500 * 1.2
	cost, err := costing.UnitCost(ctx, table, "GENERAL")
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, cost)
}

func TestUnitCostWithoutRecipe(t *testing.T) {
	ctx := context.Background()
	costing, store := newCostingFixture()

	chips := store.addProduct(&models.Product{ID: 3, Code: "DECH001", Family: models.FamilyWaste, PurchasePrice: 8})

	cost, err := costing.UnitCost(ctx, chips, "GENERAL")
	assert.NoError(t, err)
	assert.Equal(t, 8.0, cost)
}

func TestUnitCostMissingRawMaterial(t *testing.T) {
	ctx := context.Background()
	costing, store := newCostingFixture()

	// PF001 needs MP001 but the material is not in the catalog
	table := store.addProduct(&models.Product{ID: 2, Code: "PF001", Family: models.FamilyFinished})

	_, err := costing.UnitCost(ctx, table, "GENERAL")
	assert.ErrorIs(t, err, ErrReferenceNotFound)
}

func TestProductionCost(t *testing.T) {
	ctx := context.Background()
	costing, store := newCostingFixture()

	store.addProduct(&models.Product{ID: 1, Code: "MP001", Family: models.FamilyRawMaterial, PurchasePrice: 500})
	table := store.addProduct(&models.Product{ID: 2, Code: "PF001", Family: models.FamilyFinished})
	store.setStock(1, "GENERAL", 50, 480, 24000)

	cost, err := costing.ProductionCost(ctx, table, 4, "GENERAL")
	assert.NoError(t, err)
	assert.Equal(t, 5760.0, cost)
}

func TestMaterialCostIgnoresEmptyPosition(t *testing.T) {
	ctx := context.Background()
	costing, store := newCostingFixture()

	store.addProduct(&models.Product{ID: 1, Code: "MP001", Family: models.FamilyRawMaterial, PurchasePrice: 500})
	table := store.addProduct(&models.Product{ID: 2, Code: "PF001", Family: models.FamilyFinished})

	// a zero-quantity position does not price the material
	store.setStock(1, "GENERAL", 0, 480, 0)

	cost, err := costing.UnitCost(ctx, table, "GENERAL")
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, cost)
}
