package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newStockFixture() (*StockService, *memStore) {
	store := newMemStore()
	return NewStockService(&memStockRepository{store: store}), store
}

func TestStockIncreaseWeightedAverage(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()
	now := time.Now()

	// 100 units at 5.00
	position, err := stock.Increase(ctx, 1, "GENERAL", 100, 5, now)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, position.Quantity)
	assert.Equal(t, 5.0, position.AvgUnitCost)
	assert.Equal(t, 500.0, position.TotalValue)

	// 50 more at 8.00 moves the average to 6.00
	position, err = stock.Increase(ctx, 1, "GENERAL", 50, 8, now)
	assert.NoError(t, err)
	assert.Equal(t, 150.0, position.Quantity)
	assert.Equal(t, 6.0, position.AvgUnitCost)
	assert.Equal(t, 900.0, position.TotalValue)

	// value stays consistent with quantity times average cost
	assert.InDelta(t, position.Quantity*position.AvgUnitCost, position.TotalValue, 0.01)
}

func TestStockIncreaseRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()

	_, err := stock.Increase(ctx, 1, "GENERAL", 0, 5, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = stock.Increase(ctx, 1, "GENERAL", -10, 5, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestStockDecreaseAtAverageCost(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()
	now := time.Now()

	_, err := stock.Increase(ctx, 1, "GENERAL", 150, 6, now)
	assert.NoError(t, err)

	position, err := stock.Decrease(ctx, 1, "GENERAL", 50, now)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, position.Quantity)
	assert.Equal(t, 6.0, position.AvgUnitCost)
	assert.Equal(t, 600.0, position.TotalValue)
}

func TestStockDecreaseInsufficient(t *testing.T) {
	ctx := context.Background()
	stock, store := newStockFixture()
	now := time.Now()

	_, err := stock.Increase(ctx, 1, "GENERAL", 10, 5, now)
	assert.NoError(t, err)

	_, err = stock.Decrease(ctx, 1, "GENERAL", 25, now)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// the position is untouched after the failure
	position := store.position(1, "GENERAL")
	assert.Equal(t, 10.0, position.Quantity)
	assert.Equal(t, 50.0, position.TotalValue)
}

func TestStockDecreaseClampToZero(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()
	now := time.Now()

	_, err := stock.Increase(ctx, 1, "GENERAL", 10, 5, now)
	assert.NoError(t, err)

	// removing more than held clamps the position at zero
	position, err := stock.DecreaseClamp(ctx, 1, "GENERAL", 25, now)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, position.Quantity)
	assert.Equal(t, 0.0, position.AvgUnitCost)
	assert.Equal(t, 0.0, position.TotalValue)
}

func TestStockDecreaseClampPartial(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()
	now := time.Now()

	_, err := stock.Increase(ctx, 1, "GENERAL", 100, 4, now)
	assert.NoError(t, err)

	// covered withdrawals behave like a strict decrease
	position, err := stock.DecreaseClamp(ctx, 1, "GENERAL", 30, now)
	assert.NoError(t, err)
	assert.Equal(t, 70.0, position.Quantity)
	assert.Equal(t, 4.0, position.AvgUnitCost)
	assert.Equal(t, 280.0, position.TotalValue)
}

func TestStockPositionNeverMoved(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()

	position, err := stock.Position(ctx, 42, "SCIERIE")
	assert.NoError(t, err)
	assert.Equal(t, uint(42), position.ProductID)
	assert.Equal(t, "SCIERIE", position.ProductionUnit)
	assert.Equal(t, 0.0, position.Quantity)
}

func TestStockDecreaseClampNeverMovedWritesNothing(t *testing.T) {
	ctx := context.Background()
	stock, store := newStockFixture()

	position, err := stock.DecreaseClamp(ctx, 7, "SCIERIE", 10, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 0.0, position.Quantity)
	assert.Nil(t, store.position(7, "SCIERIE"))
}

func TestStockSeparatePositionsPerUnit(t *testing.T) {
	ctx := context.Background()
	stock, _ := newStockFixture()
	now := time.Now()

	_, err := stock.Increase(ctx, 1, "SCIERIE", 10, 5, now)
	assert.NoError(t, err)
	_, err = stock.Increase(ctx, 1, "BROYEUR", 20, 3, now)
	assert.NoError(t, err)

	sawmill, _ := stock.Position(ctx, 1, "SCIERIE")
	grinder, _ := stock.Position(ctx, 1, "BROYEUR")
	assert.Equal(t, 10.0, sawmill.Quantity)
	assert.Equal(t, 20.0, grinder.Quantity)
}
