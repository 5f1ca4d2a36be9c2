package repository

import (
	"context"
	"strings"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

// Repositories ERP 저장소 모음
type Repositories struct {
	db *gorm.DB

	User         *UserRepository
	Inventory    *InventoryRepository
	Production   *ProductionRepository
	Purchase     *PurchaseRepository
	Shipping     *ShippingRepository
	Backup       *BackupRepository
	Setting      *SettingRepository
	ProductModel *CrudRepository[entity.ProductModel]
	Vendor       *CrudRepository[entity.Vendor]
	Client       *CrudRepository[entity.Client]
	Unit         *CrudRepository[entity.Unit]
	Priority     *CrudRepository[entity.Priority]
	TaskStatus   *CrudRepository[entity.TaskStatus]
	Employee     *CrudRepository[entity.Employee]
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		User:         NewUserRepository(db),
		Inventory:    NewInventoryRepository(db),
		Production:   NewProductionRepository(db),
		Purchase:     NewPurchaseRepository(db),
		Shipping:     NewShippingRepository(db),
		Backup:       NewBackupRepository(db),
		Setting:      NewSettingRepository(db),
		ProductModel: NewCrudRepository[entity.ProductModel](db, entity.CollectionProductModels, "model_name", "product_name"),
		Vendor:       NewCrudRepository[entity.Vendor](db, entity.CollectionVendors, "name", "product_name"),
		Client:       NewCrudRepository[entity.Client](db, entity.CollectionClients, "name", "contact_person"),
		Unit:         NewCrudRepository[entity.Unit](db, entity.CollectionUnits, "name"),
		Priority:     NewCrudRepository[entity.Priority](db, entity.CollectionPriorities, "name"),
		TaskStatus:   NewCrudRepository[entity.TaskStatus](db, entity.CollectionTaskStatuses, "name"),
		Employee:     NewCrudRepository[entity.Employee](db, entity.CollectionEmployees, "name", "department"),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. Returning an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// HasCollection reports whether the named table exists.
func (r *Repositories) HasCollection(ctx context.Context, name string) bool {
	return r.db.WithContext(ctx).Migrator().HasTable(name)
}

// DB 트랜잭션/원시 쿼리용
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// ListParams 목록 조회 공통 파라미터
type ListParams struct {
	Keyword  string
	Status   string
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

func (p *ListParams) normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Normalized returns the page and page size a list query actually uses.
func (p ListParams) Normalized() (page, size int) {
	p.normalize()
	return p.Page, p.PageSize
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.PageSize
}

// keywordScope matches kw case-insensitively against any of columns.
func keywordScope(kw string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if kw == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(kw) + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			conds[i] = "LOWER(" + c + ") LIKE ?"
			args[i] = like
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// CrudRepository covers the flat lookup collections.
type CrudRepository[T any] struct {
	db         *gorm.DB
	collection string
	searchCols []string
}

func NewCrudRepository[T any](db *gorm.DB, collection string, searchCols ...string) *CrudRepository[T] {
	return &CrudRepository[T]{db: db, collection: collection, searchCols: searchCols}
}

func (r *CrudRepository[T]) Collection() string {
	return r.collection
}

func (r *CrudRepository[T]) List(ctx context.Context, params ListParams) ([]T, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(new(T)).Scopes(keywordScope(params.Keyword, r.searchCols...))
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, r.collection)
	}
	var items []T
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&items).Error
	return items, total, translate(err, r.collection)
}

func (r *CrudRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err, r.collection)
	}
	return &item, nil
}

func (r *CrudRepository[T]) Create(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Create(item).Error, r.collection)
}

func (r *CrudRepository[T]) Save(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Save(item).Error, r.collection)
}

// Delete removes the row; dependents are left untouched.
func (r *CrudRepository[T]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return translate(result.Error, r.collection)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
