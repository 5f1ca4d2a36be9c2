package repository

import (
	"context"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type ShippingRepository struct {
	db *gorm.DB
}

func NewShippingRepository(db *gorm.DB) *ShippingRepository {
	return &ShippingRepository{db: db}
}

func (r *ShippingRepository) List(ctx context.Context, params ListParams) ([]entity.ShippingPlan, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.ShippingPlan{}).
		Scopes(keywordScope(params.Keyword, "model_name", "client_name"))
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionShippingPlans)
	}
	var items []entity.ShippingPlan
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&items).Error
	return items, total, translate(err, entity.CollectionShippingPlans)
}

// Upcoming 출하 예정 (ETD 순)
func (r *ShippingRepository) Upcoming(ctx context.Context, limit int) ([]entity.ShippingPlan, error) {
	var items []entity.ShippingPlan
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.ShippingStatusPlanned).
		Order("etd ASC").
		Limit(limit).
		Find(&items).Error
	return items, translate(err, entity.CollectionShippingPlans)
}

func (r *ShippingRepository) FindByID(ctx context.Context, id string) (*entity.ShippingPlan, error) {
	var sp entity.ShippingPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sp).Error; err != nil {
		return nil, translate(err, entity.CollectionShippingPlans)
	}
	return &sp, nil
}

func (r *ShippingRepository) Create(ctx context.Context, sp *entity.ShippingPlan) error {
	return translate(r.db.WithContext(ctx).Create(sp).Error, entity.CollectionShippingPlans)
}

func (r *ShippingRepository) Save(ctx context.Context, sp *entity.ShippingPlan) error {
	return translate(r.db.WithContext(ctx).Save(sp).Error, entity.CollectionShippingPlans)
}

func (r *ShippingRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ShippingPlan{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionShippingPlans)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
