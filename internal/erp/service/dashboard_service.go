package service

import (
	"context"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/cache"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/rules"
	"go.uber.org/zap"
)

const dashboardTTL = 5 * time.Minute

// dashboardCollections are the collections the summary reads. A change to
// any of them moves the cache key.
var dashboardCollections = []string{
	entity.CollectionInventory,
	entity.CollectionPurchaseRequests,
	entity.CollectionProductionPlans,
	entity.CollectionShippingPlans,
}

// DashboardService 대시보드 요약
type DashboardService struct {
	repos     *repository.Repositories
	cache     cache.Store
	threshold float64
	logger    *zap.Logger
	now       func() time.Time
}

func NewDashboardService(repos *repository.Repositories, store cache.Store, cfg config.RulesConfig, logger *zap.Logger) *DashboardService {
	threshold := cfg.StockThreshold
	if threshold <= 0 {
		threshold = rules.DefaultStockThreshold
	}
	return &DashboardService{
		repos:     repos,
		cache:     store,
		threshold: threshold,
		logger:    logger.Named("dashboard"),
		now:       time.Now,
	}
}

type InventoryOverview struct {
	ItemCount     int64   `json:"item_count"`
	LowStockCount int64   `json:"low_stock_count"`
	Threshold     float64 `json:"threshold"`
}

type PurchaseOverview struct {
	Recent     []entity.PurchaseRequest `json:"recent"`
	TodayCount int64                    `json:"today_count"`
	WeekCount  int64                    `json:"week_count"`
}

type ProductionOverview struct {
	InProgress        []entity.ProductionPlan `json:"in_progress"`
	CompletedLastWeek int64                   `json:"completed_last_week"`
}

type ShippingOverview struct {
	Upcoming []entity.ShippingPlan `json:"upcoming"`
}

// DashboardSummary 대시보드 요약
type DashboardSummary struct {
	Inventory   InventoryOverview  `json:"inventory"`
	Purchase    PurchaseOverview   `json:"purchase"`
	Production  ProductionOverview `json:"production"`
	Shipping    ShippingOverview   `json:"shipping"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Summary returns the cached summary when its source collections have not
// changed since it was built.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	key, err := s.cache.Key(ctx, "dashboard:summary", dashboardCollections...)
	if err != nil {
		s.logger.Warn("dashboard cache key", zap.Error(err))
		key = ""
	}
	if key != "" {
		var cached DashboardSummary
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	summary, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	if key != "" {
		if err := s.cache.Set(ctx, key, summary, dashboardTTL); err != nil {
			s.logger.Warn("dashboard cache write", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *DashboardService) build(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	totals, err := s.repos.Inventory.Totals(ctx, s.threshold)
	if err != nil {
		return nil, err
	}

	recent, err := s.repos.Purchase.RecentRequests(ctx, 5)
	if err != nil {
		return nil, err
	}
	todayCount, err := s.repos.Purchase.CountRequestsBetween(ctx, today, time.Time{})
	if err != nil {
		return nil, err
	}
	// the seven days before today, so it never overlaps todayCount
	weekCount, err := s.repos.Purchase.CountRequestsBetween(ctx, today.AddDate(0, 0, -7), today)
	if err != nil {
		return nil, err
	}

	active, err := s.repos.Production.ActivePlans(ctx, 5)
	if err != nil {
		return nil, err
	}
	completed, err := s.repos.Production.CountPlans(ctx, entity.PlanStatusCompleted, &weekAgo)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.repos.Shipping.Upcoming(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Inventory: InventoryOverview{
			ItemCount:     totals.ItemCount,
			LowStockCount: totals.LowStockCount,
			Threshold:     s.threshold,
		},
		Purchase: PurchaseOverview{
			Recent:     nonNil(recent),
			TodayCount: todayCount,
			WeekCount:  weekCount,
		},
		Production: ProductionOverview{
			InProgress:        nonNil(active),
			CompletedLastWeek: completed,
		},
		Shipping: ShippingOverview{
			Upcoming: nonNil(upcoming),
		},
		GeneratedAt: now,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// SetupService reports which collections exist.
type SetupService struct {
	repos *repository.Repositories
}

func NewSetupService(repos *repository.Repositories) *SetupService {
	return &SetupService{repos: repos}
}

// SetupStatus 컬렉션 존재 여부
type SetupStatus struct {
	Success     bool            `json:"success"`
	Collections map[string]bool `json:"collections"`
	Missing     []string        `json:"missing"`
}

// Check probes every known collection. Missing collections are reported,
// never created.
func (s *SetupService) Check(ctx context.Context) *SetupStatus {
	status := &SetupStatus{Success: true, Collections: make(map[string]bool, len(entity.Collections)), Missing: []string{}}
	for _, name := range entity.Collections {
		exists := s.repos.HasCollection(ctx, name)
		status.Collections[name] = exists
		if !exists {
			status.Missing = append(status.Missing, name)
		}
	}
	return status
}
