package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/pkg/logger"
)

const metricsCacheTTL = 15 * time.Minute

// DailyMetrics is the production snapshot for one day
type DailyMetrics struct {
	Date            string  `json:"date"`
	WoodConsumed    float64 `json:"wood_consumed"`
	FinishedGoods   float64 `json:"finished_goods"`
	SemiFinished    float64 `json:"semi_finished"`
	Waste           float64 `json:"waste"`
	ConsumptionCost float64 `json:"consumption_cost"`
	ProductionCost  float64 `json:"production_cost"`
	Yield           float64 `json:"yield"`
	SalesTotal      float64 `json:"sales_total"`
	PurchasesTotal  float64 `json:"purchases_total"`
	OperationCount  int64   `json:"operation_count"`
}

// DashboardMetrics is the cached dashboard payload
type DashboardMetrics struct {
	Today           DailyMetrics       `json:"today"`
	Yesterday       DailyMetrics       `json:"yesterday"`
	Variations      map[string]float64 `json:"variations"`
	StockValue      float64            `json:"stock_value"`
	TreasuryBalance float64            `json:"treasury_balance"`
	UnpostedEntries int64              `json:"unposted_entries"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// MetricsService computes dashboard aggregates over posted entries and
// serves them from a TTL cache.
type MetricsService struct {
	metricsRepo repository.MetricsRepository
	postingRepo repository.PostingRepository
	stockRepo   repository.StockRepository
}

// NewMetricsService creates a new metrics service
func NewMetricsService(
	metricsRepo repository.MetricsRepository,
	postingRepo repository.PostingRepository,
	stockRepo repository.StockRepository,
) *MetricsService {
	return &MetricsService{
		metricsRepo: metricsRepo,
		postingRepo: postingRepo,
		stockRepo:   stockRepo,
	}
}

// Dashboard returns the dashboard for a reference date, reading the
// cache first and computing on a miss.
func (s *MetricsService) Dashboard(ctx context.Context, ref time.Time) (*DashboardMetrics, error) {
	key := fmt.Sprintf("dashboard:%s", ref.Format("2006-01-02"))

	if cached, err := s.metricsRepo.GetCache(ctx, key); err == nil {
		var metrics DashboardMetrics
		if err := json.Unmarshal(cached.Data, &metrics); err == nil {
			return &metrics, nil
		}
	}

	metrics, err := s.compute(ctx, ref)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(metrics); err == nil {
		if err := s.metricsRepo.SetCache(ctx, key, data, metricsCacheTTL); err != nil {
			logger.Error("failed to cache dashboard metrics", "error", err)
		}
	}
	return metrics, nil
}

// Refresh recomputes and caches today's dashboard. Runs from the
// scheduler so interactive reads stay warm.
func (s *MetricsService) Refresh(ctx context.Context) error {
	ref := time.Now()
	key := fmt.Sprintf("dashboard:%s", ref.Format("2006-01-02"))

	metrics, err := s.compute(ctx, ref)
	if err != nil {
		return err
	}

	data, err := json.Marshal(metrics)
	if err != nil {
		return err
	}
	return s.metricsRepo.SetCache(ctx, key, data, metricsCacheTTL)
}

func (s *MetricsService) compute(ctx context.Context, ref time.Time) (*DashboardMetrics, error) {
	today, err := s.dailyMetrics(ctx, ref)
	if err != nil {
		return nil, err
	}
	yesterday, err := s.dailyMetrics(ctx, ref.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	stockValue, err := s.stockRepo.TotalValue(ctx)
	if err != nil {
		return nil, err
	}
	treasury, err := s.postingRepo.AccountBalance(ctx, models.AccountCash)
	if err != nil {
		return nil, err
	}
	unposted, err := s.metricsRepo.CountUnposted(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		Today:     *today,
		Yesterday: *yesterday,
		Variations: map[string]float64{
			"wood_consumed":    variation(today.WoodConsumed, yesterday.WoodConsumed),
			"finished_goods":   variation(today.FinishedGoods, yesterday.FinishedGoods),
			"semi_finished":    variation(today.SemiFinished, yesterday.SemiFinished),
			"waste":            variation(today.Waste, yesterday.Waste),
			"consumption_cost": variation(today.ConsumptionCost, yesterday.ConsumptionCost),
			"production_cost":  variation(today.ProductionCost, yesterday.ProductionCost),
		},
		StockValue:      stockValue,
		TreasuryBalance: treasury,
		UnpostedEntries: unposted,
		GeneratedAt:     time.Now(),
	}, nil
}

func (s *MetricsService) dailyMetrics(ctx context.Context, day time.Time) (*DailyMetrics, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	metrics := &DailyMetrics{Date: from.Format("2006-01-02")}

	var err error
	if metrics.WoodConsumed, err = s.metricsRepo.SumQuantityByTypeAndFamily(ctx, models.JournalTypeConsumption, models.FamilyRawMaterial, from, to); err != nil {
		return nil, err
	}
	if metrics.FinishedGoods, err = s.metricsRepo.SumQuantityByTypeAndFamily(ctx, models.JournalTypeProduction, models.FamilyFinished, from, to); err != nil {
		return nil, err
	}
	if metrics.SemiFinished, err = s.metricsRepo.SumQuantityByTypeAndFamily(ctx, models.JournalTypeProduction, models.FamilySemiFinished, from, to); err != nil {
		return nil, err
	}
	if metrics.Waste, err = s.metricsRepo.SumQuantityByTypeAndFamily(ctx, models.JournalTypeProduction, models.FamilyWaste, from, to); err != nil {
		return nil, err
	}
	if metrics.ConsumptionCost, err = s.metricsRepo.SumAmountByType(ctx, models.JournalTypeConsumption, from, to); err != nil {
		return nil, err
	}
	if metrics.ProductionCost, err = s.metricsRepo.SumAmountByType(ctx, models.JournalTypeProduction, from, to); err != nil {
		return nil, err
	}
	if metrics.SalesTotal, err = s.metricsRepo.SumAmountByType(ctx, models.JournalTypeSale, from, to); err != nil {
		return nil, err
	}
	if metrics.PurchasesTotal, err = s.metricsRepo.SumAmountByType(ctx, models.JournalTypePurchase, from, to); err != nil {
		return nil, err
	}
	if metrics.OperationCount, err = s.metricsRepo.CountEntries(ctx, from, to); err != nil {
		return nil, err
	}

	if metrics.WoodConsumed > 0 {
		metrics.Yield = (metrics.FinishedGoods + metrics.SemiFinished) / metrics.WoodConsumed
	}
	return metrics, nil
}

// variation returns a day-over-day percentage change
func variation(today, yesterday float64) float64 {
	if yesterday > 0 {
		return (today - yesterday) / yesterday * 100
	}
	if today > 0 {
		return 100
	}
	return 0
}
