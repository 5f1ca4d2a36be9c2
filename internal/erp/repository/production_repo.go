package repository

import (
	"context"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

type PlanListParams struct {
	ListParams
	ModelID string
}

func (r *ProductionRepository) ListPlans(ctx context.Context, params PlanListParams) ([]entity.ProductionPlan, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.ProductionPlan{}).
		Scopes(keywordScope(params.Keyword, "product_name", "manager"))
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ModelID != "" {
		query = query.Where("model_id = ?", params.ModelID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionProductionPlans)
	}
	var plans []entity.ProductionPlan
	err := query.Preload("Model").
		Order("start_date DESC, created_at DESC").
		Offset(params.offset()).Limit(params.PageSize).
		Find(&plans).Error
	return plans, total, translate(err, entity.CollectionProductionPlans)
}

// AllPlans returns every plan, used for the comparison report.
func (r *ProductionRepository) AllPlans(ctx context.Context) ([]entity.ProductionPlan, error) {
	var plans []entity.ProductionPlan
	err := r.db.WithContext(ctx).Order("start_date ASC").Find(&plans).Error
	return plans, translate(err, entity.CollectionProductionPlans)
}

func (r *ProductionRepository) FindPlan(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	var plan entity.ProductionPlan
	if err := r.db.WithContext(ctx).Preload("Model").Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, translate(err, entity.CollectionProductionPlans)
	}
	return &plan, nil
}

func (r *ProductionRepository) FindPlanForUpdate(ctx context.Context, id string) (*entity.ProductionPlan, error) {
	var plan entity.ProductionPlan
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, translate(err, entity.CollectionProductionPlans)
	}
	return &plan, nil
}

func (r *ProductionRepository) CreatePlan(ctx context.Context, plan *entity.ProductionPlan) error {
	return translate(r.db.WithContext(ctx).Create(plan).Error, entity.CollectionProductionPlans)
}

func (r *ProductionRepository) SavePlan(ctx context.Context, plan *entity.ProductionPlan) error {
	return translate(r.db.WithContext(ctx).Omit("Model").Save(plan).Error, entity.CollectionProductionPlans)
}

func (r *ProductionRepository) UpdatePlanStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&entity.ProductionPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionProductionPlans)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductionRepository) DeletePlan(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ProductionPlan{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionProductionPlans)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActivePlans 진행 중인 계획 (시작일 순)
func (r *ProductionRepository) ActivePlans(ctx context.Context, limit int) ([]entity.ProductionPlan, error) {
	var plans []entity.ProductionPlan
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.PlanStatusInProgress).
		Order("start_date ASC").
		Limit(limit).
		Find(&plans).Error
	return plans, translate(err, entity.CollectionProductionPlans)
}

func (r *ProductionRepository) CountPlans(ctx context.Context, status string, updatedSince *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.ProductionPlan{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if updatedSince != nil {
		query = query.Where("updated_at >= ?", *updatedSince)
	}
	var n int64
	err := query.Count(&n).Error
	return n, translate(err, entity.CollectionProductionPlans)
}

func (r *ProductionRepository) ListPerformances(ctx context.Context, planID string, params ListParams) ([]entity.ProductionPerformance, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.ProductionPerformance{})
	if planID != "" {
		query = query.Where("plan_id = ?", planID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionProductionPerformances)
	}
	var perfs []entity.ProductionPerformance
	err := query.Preload("Plan").
		Order("created_at DESC").
		Offset(params.offset()).Limit(params.PageSize).
		Find(&perfs).Error
	return perfs, total, translate(err, entity.CollectionProductionPerformances)
}

func (r *ProductionRepository) AllPerformances(ctx context.Context) ([]entity.ProductionPerformance, error) {
	var perfs []entity.ProductionPerformance
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&perfs).Error
	return perfs, translate(err, entity.CollectionProductionPerformances)
}

func (r *ProductionRepository) FindPerformance(ctx context.Context, id string) (*entity.ProductionPerformance, error) {
	var perf entity.ProductionPerformance
	if err := r.db.WithContext(ctx).Preload("Plan").Where("id = ?", id).First(&perf).Error; err != nil {
		return nil, translate(err, entity.CollectionProductionPerformances)
	}
	return &perf, nil
}

func (r *ProductionRepository) CreatePerformance(ctx context.Context, perf *entity.ProductionPerformance) error {
	return translate(r.db.WithContext(ctx).Omit("Plan").Create(perf).Error, entity.CollectionProductionPerformances)
}

func (r *ProductionRepository) SavePerformance(ctx context.Context, perf *entity.ProductionPerformance) error {
	return translate(r.db.WithContext(ctx).Omit("Plan").Save(perf).Error, entity.CollectionProductionPerformances)
}

func (r *ProductionRepository) DeletePerformance(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ProductionPerformance{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionProductionPerformances)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
