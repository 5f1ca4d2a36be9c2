package repository

import (
	"context"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

type InventoryListParams struct {
	ListParams
	Category string
	// Quantity bands evaluated against Threshold.
	StockStatus string
	LowStock    bool
	Threshold   float64
}

func (r *InventoryRepository) List(ctx context.Context, params InventoryListParams) ([]entity.InventoryItem, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Scopes(keywordScope(params.Keyword, "name", "description"))
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	switch params.StockStatus {
	case "unavailable":
		query = query.Where("quantity <= 0")
	case "insufficient":
		query = query.Where("quantity > 0 AND quantity < ?", params.Threshold)
	case "sufficient":
		query = query.Where("quantity >= ?", params.Threshold)
	}
	if params.LowStock {
		query = query.Where("quantity < ?", params.Threshold)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionInventory)
	}
	var items []entity.InventoryItem
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&items).Error
	return items, total, translate(err, entity.CollectionInventory)
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err, entity.CollectionInventory)
	}
	return &item, nil
}

// FindByIDForUpdate locks the row for the rest of the transaction.
func (r *InventoryRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, translate(err, entity.CollectionInventory)
	}
	return &item, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error, entity.CollectionInventory)
}

func (r *InventoryRepository) Save(ctx context.Context, item *entity.InventoryItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error, entity.CollectionInventory)
}

// DecrementQuantity subtracts qty only while enough stock remains. It
// reports false when the guard rejected the update.
func (r *InventoryRepository) DecrementQuantity(ctx context.Context, id string, qty float64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return false, translate(result.Error, entity.CollectionInventory)
	}
	return result.RowsAffected == 1, nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.InventoryItem{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionInventory)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// QuantitiesByCategory returns the quantity of every item in category.
func (r *InventoryRepository) QuantitiesByCategory(ctx context.Context, category string) ([]float64, error) {
	var qtys []float64
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Where("category = ?", category).
		Pluck("quantity", &qtys).Error
	return qtys, translate(err, entity.CollectionInventory)
}

// InventoryTotals 재고 요약
type InventoryTotals struct {
	ItemCount        int64   `json:"item_count"`
	TotalQuantity    float64 `json:"total_quantity"`
	LowStockCount    int64   `json:"low_stock_count"`
	UnavailableCount int64   `json:"unavailable_count"`
}

func (r *InventoryRepository) Totals(ctx context.Context, threshold float64) (*InventoryTotals, error) {
	var t InventoryTotals
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Select(`COUNT(*) AS item_count,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COALESCE(SUM(CASE WHEN quantity < ? THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(CASE WHEN quantity <= 0 THEN 1 ELSE 0 END), 0) AS unavailable_count`, threshold).
		Scan(&t).Error
	if err != nil {
		return nil, translate(err, entity.CollectionInventory)
	}
	return &t, nil
}

// CategoryAggregate 카테고리별 집계
type CategoryAggregate struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Quantity float64 `json:"quantity"`
}

// TopCategories returns categories ordered by item count.
func (r *InventoryRepository) TopCategories(ctx context.Context, limit int) ([]CategoryAggregate, error) {
	var aggs []CategoryAggregate
	err := r.db.WithContext(ctx).Model(&entity.InventoryItem{}).
		Select("COALESCE(category, '') AS category, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity").
		Group("category").
		Order("count DESC, category ASC").
		Limit(limit).
		Scan(&aggs).Error
	return aggs, translate(err, entity.CollectionInventory)
}

func (r *InventoryRepository) CreateTransaction(ctx context.Context, tx *entity.InventoryTransaction) error {
	return translate(r.db.WithContext(ctx).Create(tx).Error, entity.CollectionInventoryTransactions)
}

func (r *InventoryRepository) ListTransactions(ctx context.Context, itemID string, params ListParams) ([]entity.InventoryTransaction, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.InventoryTransaction{})
	if itemID != "" {
		query = query.Where("item_id = ?", itemID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionInventoryTransactions)
	}
	var txs []entity.InventoryTransaction
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&txs).Error
	return txs, total, translate(err, entity.CollectionInventoryTransactions)
}

// forUpdate adds SELECT ... FOR UPDATE on dialects that support it.
// sqlite serialises writers and rejects the syntax.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
