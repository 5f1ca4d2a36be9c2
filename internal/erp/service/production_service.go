package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/rules"
	"github.com/shopspring/decimal"
)

// ProductionService 생산 서비스 (제품 모델, 생산계획, 생산실적)
type ProductionService struct {
	repos             *repository.Repositories
	materialThreshold float64
	notify            *notifier
}

func NewProductionService(repos *repository.Repositories, cfg config.RulesConfig, n *notifier) *ProductionService {
	threshold := cfg.MaterialThreshold
	if threshold <= 0 {
		threshold = rules.DefaultMaterialThreshold
	}
	return &ProductionService{repos: repos, materialThreshold: threshold, notify: n}
}

// === 제품 모델 ===

type ProductModelRequest struct {
	ModelName      string `json:"model_name" binding:"required,max=100"`
	ProductName    string `json:"product_name" binding:"max=200"`
	Specifications string `json:"specifications"`
	MaterialType   string `json:"material_type" binding:"max=100"`
	Manager        string `json:"manager" binding:"max=100"`
}

func (s *ProductionService) ListModels(ctx context.Context, q ListQuery) ([]entity.ProductModel, int64, error) {
	return s.repos.ProductModel.List(ctx, q.params())
}

func (s *ProductionService) GetModel(ctx context.Context, id string) (*entity.ProductModel, error) {
	return s.repos.ProductModel.FindByID(ctx, id)
}

func (s *ProductionService) CreateModel(ctx context.Context, req *ProductModelRequest) (*entity.ProductModel, error) {
	m := &entity.ProductModel{ID: entity.NewID()}
	applyModel(m, req)
	if err := s.repos.ProductModel.Create(ctx, m); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionProductModels, m.ID)
	return m, nil
}

func (s *ProductionService) UpdateModel(ctx context.Context, id string, req *ProductModelRequest) (*entity.ProductModel, error) {
	m, err := s.repos.ProductModel.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyModel(m, req)
	if err := s.repos.ProductModel.Save(ctx, m); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionProductModels, m.ID)
	return m, nil
}

func (s *ProductionService) DeleteModel(ctx context.Context, id string) error {
	if err := s.repos.ProductModel.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionProductModels, id)
	return nil
}

func applyModel(m *entity.ProductModel, req *ProductModelRequest) {
	m.ModelName = req.ModelName
	m.ProductName = req.ProductName
	m.Specifications = req.Specifications
	m.MaterialType = req.MaterialType
	m.Manager = req.Manager
}

// === 생산계획 ===

type PlanQuery struct {
	ListQuery
	ModelID string `form:"model_id"`
}

func (s *ProductionService) ListPlans(ctx context.Context, q PlanQuery) ([]entity.ProductionPlan, int64, error) {
	return s.repos.Production.ListPlans(ctx, repository.PlanListParams{ListParams: q.params(), ModelID: q.ModelID})
}

func (s *ProductionService) GetPlan(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	return s.repos.Production.FindPlan(ctx, id)
}

// CreatePlanRequest 생산계획 등록 요청
type CreatePlanRequest struct {
	ProductName     string  `json:"product_name" binding:"required,max=200"`
	ModelID         string  `json:"model_id"`
	PlannedQuantity float64 `json:"planned_quantity" binding:"required,gt=0,lte=99999999.9999"`
	StartDate       string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate         string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	Status          string  `json:"status"`
	Manager         string  `json:"manager" binding:"max=100"`
	Notes           string  `json:"notes"`
}

// CreatePlan stores a plan with a snapshot of raw material availability.
func (s *ProductionService) CreatePlan(ctx context.Context, userID string, req *CreatePlanRequest) (*entity.ProductionPlan, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalid("end_date", "종료일은 시작일 이후여야 합니다")
	}
	status := req.Status
	if status == "" {
		status = entity.PlanStatusPlanned
	}
	if err := oneOf("status", status, entity.PlanStatuses...); err != nil {
		return nil, err
	}
	if err := s.checkModel(ctx, req.ModelID); err != nil {
		return nil, err
	}

	material, err := s.materialStatus(ctx)
	if err != nil {
		return nil, err
	}

	plan := &entity.ProductionPlan{
		ID:              entity.NewID(),
		ProductName:     req.ProductName,
		ModelID:         req.ModelID,
		PlannedQuantity: req.PlannedQuantity,
		StartDate:       start,
		EndDate:         end,
		DaysRequired:    rules.DaysRequired(start, end),
		MaterialStatus:  string(material),
		Status:          status,
		Manager:         req.Manager,
		Notes:           req.Notes,
		CreatedBy:       userID,
	}
	if err := s.repos.Production.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	s.notify.created(ctx, entity.CollectionProductionPlans, plan.ID)
	return plan, nil
}

// UpdatePlanRequest 생산계획 수정 요청
type UpdatePlanRequest struct {
	ProductName     *string  `json:"product_name" binding:"omitempty,min=1,max=200"`
	ModelID         *string  `json:"model_id"`
	PlannedQuantity *float64 `json:"planned_quantity" binding:"omitempty,gt=0,lte=99999999.9999"`
	StartDate       *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate         *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Manager         *string  `json:"manager" binding:"omitempty,max=100"`
	Notes           *string  `json:"notes"`
}

// UpdatePlan edits a plan. The material status snapshot is kept as taken at
// creation.
func (s *ProductionService) UpdatePlan(ctx context.Context, id string, req *UpdatePlanRequest) (*entity.ProductionPlan, error) {
	plan, err := s.repos.Production.FindPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProductName != nil {
		plan.ProductName = *req.ProductName
	}
	if req.ModelID != nil {
		if err := s.checkModel(ctx, *req.ModelID); err != nil {
			return nil, err
		}
		if plan.ModelID != *req.ModelID {
			plan.ModelID = *req.ModelID
			plan.Model = nil
		}
	}
	if req.PlannedQuantity != nil {
		plan.PlannedQuantity = *req.PlannedQuantity
	}
	if req.StartDate != nil {
		if plan.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if plan.EndDate, err = parseDate("end_date", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if plan.EndDate.Before(plan.StartDate) {
		return nil, invalid("end_date", "종료일은 시작일 이후여야 합니다")
	}
	plan.DaysRequired = rules.DaysRequired(plan.StartDate, plan.EndDate)
	if req.Manager != nil {
		plan.Manager = *req.Manager
	}
	if req.Notes != nil {
		plan.Notes = *req.Notes
	}

	if err := s.repos.Production.SavePlan(ctx, plan); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionProductionPlans, plan.ID)
	return plan, nil
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *ProductionService) UpdatePlanStatus(ctx context.Context, id, status string) (*entity.ProductionPlan, error) {
	if err := oneOf("status", status, entity.PlanStatuses...); err != nil {
		return nil, err
	}
	if err := s.repos.Production.UpdatePlanStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionProductionPlans, id)
	return s.repos.Production.FindPlan(ctx, id)
}

// DeletePlan removes a plan; its performances stay.
func (s *ProductionService) DeletePlan(ctx context.Context, id string) error {
	if err := s.repos.Production.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionProductionPlans, id)
	return nil
}

// MaterialStatus returns the current raw material status without storing it.
func (s *ProductionService) MaterialStatus(ctx context.Context) (rules.StockStatus, error) {
	return s.materialStatus(ctx)
}

func (s *ProductionService) materialStatus(ctx context.Context) (rules.StockStatus, error) {
	qtys, err := s.repos.Inventory.QuantitiesByCategory(ctx, entity.RawMaterialCategory)
	if err != nil {
		return "", fmt.Errorf("read raw material stock: %w", err)
	}
	return rules.MaterialStatus(qtys, s.materialThreshold), nil
}

func (s *ProductionService) checkModel(ctx context.Context, modelID string) error {
	if modelID == "" {
		return nil
	}
	if _, err := s.repos.ProductModel.FindByID(ctx, modelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("model_id", "제품 모델을 찾을 수 없습니다")
		}
		return err
	}
	return nil
}

// === 생산실적 ===

type PerformanceQuery struct {
	ListQuery
	PlanID string `form:"plan_id"`
}

func (s *ProductionService) ListPerformances(ctx context.Context, q PerformanceQuery) ([]entity.ProductionPerformance, int64, error) {
	return s.repos.Production.ListPerformances(ctx, q.PlanID, q.params())
}

func (s *ProductionService) GetPerformance(ctx context.Context, id string) (*entity.ProductionPerformance, error) {
	return s.repos.Production.FindPerformance(ctx, id)
}

// CreatePerformanceRequest 생산실적 등록 요청
type CreatePerformanceRequest struct {
	PlanID         string   `json:"plan_id" binding:"required"`
	ActualQuantity *float64 `json:"actual_quantity" binding:"required,gte=0,lte=99999999.9999"`
	StartDate      string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate        string   `json:"end_date" binding:"required,datetime=2006-01-02"`
	Notes          string   `json:"notes"`
}

// CreatePerformance records output against a plan. The achievement rate is
// fixed here and the plan is marked completed in the same transaction.
func (s *ProductionService) CreatePerformance(ctx context.Context, userID string, req *CreatePerformanceRequest) (*entity.ProductionPerformance, error) {
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalid("end_date", "종료일은 시작일 이후여야 합니다")
	}

	var perf *entity.ProductionPerformance
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		plan, err := tx.Production.FindPlanForUpdate(ctx, req.PlanID)
		if err != nil {
			return err
		}
		rate := rules.ComputeAchievement(*req.ActualQuantity, plan.PlannedQuantity)
		perf = &entity.ProductionPerformance{
			ID:              entity.NewID(),
			PlanID:          plan.ID,
			PlannedQuantity: plan.PlannedQuantity,
			ActualQuantity:  *req.ActualQuantity,
			AchievementRate: rate,
			StartDate:       start,
			EndDate:         end,
			Status:          rules.PerformanceStatus(rate),
			Notes:           req.Notes,
			CreatedBy:       userID,
		}
		if err := tx.Production.CreatePerformance(ctx, perf); err != nil {
			return err
		}
		return tx.Production.UpdatePlanStatus(ctx, plan.ID, entity.PlanStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	s.notify.created(ctx, entity.CollectionProductionPerformances, perf.ID)
	s.notify.updated(ctx, entity.CollectionProductionPlans, perf.PlanID)
	return perf, nil
}

// UpdatePerformanceRequest 생산실적 수정 요청
type UpdatePerformanceRequest struct {
	ActualQuantity *float64 `json:"actual_quantity" binding:"omitempty,gte=0,lte=99999999.9999"`
	StartDate      *string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate        *string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Status         *string  `json:"status" binding:"omitempty,oneof=completed in_production"`
	Notes          *string  `json:"notes"`
}

// UpdatePerformance edits a performance. The achievement rate is not
// recomputed.
func (s *ProductionService) UpdatePerformance(ctx context.Context, id string, req *UpdatePerformanceRequest) (*entity.ProductionPerformance, error) {
	perf, err := s.repos.Production.FindPerformance(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ActualQuantity != nil {
		perf.ActualQuantity = *req.ActualQuantity
	}
	if req.StartDate != nil {
		if perf.StartDate, err = parseDate("start_date", *req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if perf.EndDate, err = parseDate("end_date", *req.EndDate); err != nil {
			return nil, err
		}
	}
	if perf.EndDate.Before(perf.StartDate) {
		return nil, invalid("end_date", "종료일은 시작일 이후여야 합니다")
	}
	if req.Status != nil {
		perf.Status = *req.Status
	}
	if req.Notes != nil {
		perf.Notes = *req.Notes
	}
	if err := s.repos.Production.SavePerformance(ctx, perf); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionProductionPerformances, perf.ID)
	return perf, nil
}

func (s *ProductionService) DeletePerformance(ctx context.Context, id string) error {
	if err := s.repos.Production.DeletePerformance(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionProductionPerformances, id)
	return nil
}

// === 계획 대비 실적 ===

// AchievementBar is the display band of a rate.
type AchievementBar struct {
	Band     string `json:"band"`
	Color    string `json:"color"`
	BarWidth int    `json:"bar_width"`
}

func barFor(rate int) AchievementBar {
	band := rules.AchievementBand(rate)
	return AchievementBar{Band: string(band), Color: band.Color(), BarWidth: rules.BarWidth(rate)}
}

// MonthlyComparison 월별 계획 대비 실적
type MonthlyComparison struct {
	Month       string  `json:"month"` // YYYY-M
	Planned     float64 `json:"planned"`
	Produced    float64 `json:"produced"`
	Achievement int     `json:"achievement"`
	AchievementBar

	year, month int
}

// ProductionComparison 계획 대비 실적 요약
type ProductionComparison struct {
	TotalPlanned       float64             `json:"totalPlanned"`
	TotalProduced      float64             `json:"totalProduced"`
	AverageAchievement int                 `json:"averageAchievement"`
	AverageBar         AchievementBar      `json:"averageBar"`
	OnTimeDelivery     int                 `json:"onTimeDelivery"`
	CompletedProjects  int                 `json:"completedProjects"`
	TotalProjects      int                 `json:"totalProjects"`
	CompletionRate     int                 `json:"completionRate"`
	Monthly            []MonthlyComparison `json:"monthly"`
}

// Comparison aggregates every plan and performance.
func (s *ProductionService) Comparison(ctx context.Context) (*ProductionComparison, error) {
	plans, err := s.repos.Production.AllPlans(ctx)
	if err != nil {
		return nil, err
	}
	perfs, err := s.repos.Production.AllPerformances(ctx)
	if err != nil {
		return nil, err
	}
	return buildComparison(plans, perfs), nil
}

func buildComparison(plans []entity.ProductionPlan, perfs []entity.ProductionPerformance) *ProductionComparison {
	totalPlanned := decimal.Zero
	planEnd := make(map[string]entity.ProductionPlan, len(plans))
	months := map[string]*MonthlyComparison{}
	bucket := func(year, month int) *MonthlyComparison {
		key := fmt.Sprintf("%d-%d", year, month)
		m, ok := months[key]
		if !ok {
			m = &MonthlyComparison{Month: key, year: year, month: month}
			months[key] = m
		}
		return m
	}

	for _, p := range plans {
		totalPlanned = totalPlanned.Add(decimal.NewFromFloat(p.PlannedQuantity))
		planEnd[p.ID] = p
		m := bucket(p.StartDate.Year(), int(p.StartDate.Month()))
		m.Planned += p.PlannedQuantity
	}

	totalProduced := decimal.Zero
	rates := make([]int, 0, len(perfs))
	onTime := 0
	for _, pf := range perfs {
		totalProduced = totalProduced.Add(decimal.NewFromFloat(pf.ActualQuantity))
		rates = append(rates, pf.AchievementRate)
		if p, ok := planEnd[pf.PlanID]; ok && !pf.EndDate.After(p.EndDate) {
			onTime++
		}
		m := bucket(pf.StartDate.Year(), int(pf.StartDate.Month()))
		m.Produced += pf.ActualQuantity
	}

	monthly := make([]MonthlyComparison, 0, len(months))
	for _, m := range months {
		m.Achievement = rules.ComputeAchievement(m.Produced, m.Planned)
		m.AchievementBar = barFor(m.Achievement)
		monthly = append(monthly, *m)
	}
	sort.Slice(monthly, func(i, j int) bool {
		if monthly[i].year != monthly[j].year {
			return monthly[i].year < monthly[j].year
		}
		return monthly[i].month < monthly[j].month
	})

	avg := rules.RoundedMean(rates)
	return &ProductionComparison{
		TotalPlanned:       totalPlanned.InexactFloat64(),
		TotalProduced:      totalProduced.InexactFloat64(),
		AverageAchievement: avg,
		AverageBar:         barFor(avg),
		OnTimeDelivery:     rules.Percent(onTime, len(perfs)),
		CompletedProjects:  len(perfs),
		TotalProjects:      len(plans),
		CompletionRate:     rules.Percent(len(perfs), len(plans)),
		Monthly:            monthly,
	}
}
