package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ligna-erp/ligna-api/internal/models"
)

// MetricsRepository defines aggregate queries for the dashboard plus the
// cache table the computed payloads live in.
type MetricsRepository interface {
	GetCache(ctx context.Context, key string) (*models.MetricsCache, error)
	SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error

	SumAmountByType(ctx context.Context, entryType string, from, to time.Time) (float64, error)
	SumQuantityByType(ctx context.Context, entryType string, from, to time.Time) (float64, error)
	SumQuantityByTypeAndFamily(ctx context.Context, entryType, family string, from, to time.Time) (float64, error)
	CountEntries(ctx context.Context, from, to time.Time) (int64, error)
	CountUnposted(ctx context.Context) (int64, error)
}

type metricsRepository struct {
	db *gorm.DB
}

// NewMetricsRepository creates a new metrics repository
func NewMetricsRepository(db *gorm.DB) MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) GetCache(ctx context.Context, key string) (*models.MetricsCache, error) {
	var cache models.MetricsCache
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, time.Now()).
		First(&cache).Error
	if err != nil {
		return nil, err
	}
	return &cache, nil
}

func (r *metricsRepository) SetCache(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	cache := models.MetricsCache{
		CacheKey:  key,
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
		}).
		Create(&cache).Error
}

func (r *metricsRepository) SumAmountByType(ctx context.Context, entryType string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("type = ? AND posted = ? AND operation_date >= ? AND operation_date < ?", entryType, true, from, to).
		Select("COALESCE(SUM(gross_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *metricsRepository) SumQuantityByType(ctx context.Context, entryType string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("type = ? AND posted = ? AND operation_date >= ? AND operation_date < ?", entryType, true, from, to).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// SumQuantityByTypeAndFamily restricts the quantity sum to entries whose
// product belongs to the given family. Used for the production yield
// ratio (finished output over raw consumption).
func (r *metricsRepository) SumQuantityByTypeAndFamily(ctx context.Context, entryType, family string, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Joins("JOIN products ON products.id = journal_entries.product_id").
		Where("journal_entries.type = ? AND journal_entries.posted = ? AND products.family = ?", entryType, true, family).
		Where("journal_entries.operation_date >= ? AND journal_entries.operation_date < ?", from, to).
		Select("COALESCE(SUM(journal_entries.quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *metricsRepository) CountEntries(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("operation_date >= ? AND operation_date < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *metricsRepository) CountUnposted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.JournalEntry{}).
		Where("posted = ?", false).
		Count(&count).Error
	return count, err
}
