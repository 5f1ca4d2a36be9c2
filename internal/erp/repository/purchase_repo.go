package repository

import (
	"context"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// ---- 구매요청 ----

type RequestListParams struct {
	ListParams
	UserID string
}

func (r *PurchaseRepository) ListRequests(ctx context.Context, params RequestListParams) ([]entity.PurchaseRequest, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.PurchaseRequest{}).
		Scopes(keywordScope(params.Keyword, "title", "vendor"))
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.UserID != "" {
		query = query.Where("user_id = ?", params.UserID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionPurchaseRequests)
	}
	var items []entity.PurchaseRequest
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&items).Error
	return items, total, translate(err, entity.CollectionPurchaseRequests)
}

func (r *PurchaseRepository) RecentRequests(ctx context.Context, limit int) ([]entity.PurchaseRequest, error) {
	var items []entity.PurchaseRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, translate(err, entity.CollectionPurchaseRequests)
}

// CountRequestsBetween counts requests created in [from, to). A zero to is open ended.
func (r *PurchaseRepository) CountRequestsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.PurchaseRequest{}).Where("created_at >= ?", from)
	if !to.IsZero() {
		query = query.Where("created_at < ?", to)
	}
	var n int64
	err := query.Count(&n).Error
	return n, translate(err, entity.CollectionPurchaseRequests)
}

func (r *PurchaseRepository) FindRequest(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pr).Error; err != nil {
		return nil, translate(err, entity.CollectionPurchaseRequests)
	}
	return &pr, nil
}

func (r *PurchaseRepository) FindRequestForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&pr).Error; err != nil {
		return nil, translate(err, entity.CollectionPurchaseRequests)
	}
	return &pr, nil
}

func (r *PurchaseRepository) CreateRequest(ctx context.Context, pr *entity.PurchaseRequest) error {
	return translate(r.db.WithContext(ctx).Create(pr).Error, entity.CollectionPurchaseRequests)
}

func (r *PurchaseRepository) SaveRequest(ctx context.Context, pr *entity.PurchaseRequest) error {
	return translate(r.db.WithContext(ctx).Save(pr).Error, entity.CollectionPurchaseRequests)
}

// DeleteRequest leaves orders created from the request in place.
func (r *PurchaseRepository) DeleteRequest(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PurchaseRequest{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionPurchaseRequests)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- 발주 ----

func (r *PurchaseRepository) ListOrders(ctx context.Context, params ListParams) ([]entity.PurchaseOrder, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Scopes(keywordScope(params.Keyword, "title", "vendor"))
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionPurchaseOrders)
	}
	var items []entity.PurchaseOrder
	err := query.Preload("Invoice").
		Order("created_at DESC").
		Offset(params.offset()).Limit(params.PageSize).
		Find(&items).Error
	return items, total, translate(err, entity.CollectionPurchaseOrders)
}

func (r *PurchaseRepository) FindOrder(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	if err := r.db.WithContext(ctx).Preload("Invoice").Where("id = ?", id).First(&po).Error; err != nil {
		return nil, translate(err, entity.CollectionPurchaseOrders)
	}
	return &po, nil
}

func (r *PurchaseRepository) FindOrderForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, translate(err, entity.CollectionPurchaseOrders)
	}
	return &po, nil
}

func (r *PurchaseRepository) CreateOrder(ctx context.Context, po *entity.PurchaseOrder) error {
	return translate(r.db.WithContext(ctx).Omit("Invoice").Create(po).Error, entity.CollectionPurchaseOrders)
}

// UpdateOrderStatus touches only status, so quantity and price stay as created.
func (r *PurchaseRepository) UpdateOrderStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionPurchaseOrders)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder leaves any invoice already issued for the order.
func (r *PurchaseRepository) DeleteOrder(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PurchaseOrder{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionPurchaseOrders)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- 거래명세서 ----

// LastInvoiceNumber returns the number of the most recently created
// invoice, or "" when none exists.
func (r *PurchaseRepository) LastInvoiceNumber(ctx context.Context) (string, error) {
	var inv entity.Invoice
	err := r.db.WithContext(ctx).
		Select("invoice_number").
		Order("created_at DESC, invoice_number DESC").
		Limit(1).
		Find(&inv).Error
	if err != nil {
		return "", translate(err, entity.CollectionInvoices)
	}
	return inv.InvoiceNumber, nil
}

func (r *PurchaseRepository) FindInvoiceByOrder(ctx context.Context, orderID string) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&inv).Error; err != nil {
		return nil, translate(err, entity.CollectionInvoices)
	}
	return &inv, nil
}

func (r *PurchaseRepository) FindInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, translate(err, entity.CollectionInvoices)
	}
	return &inv, nil
}

func (r *PurchaseRepository) CreateInvoice(ctx context.Context, inv *entity.Invoice) error {
	return translate(r.db.WithContext(ctx).Create(inv).Error, entity.CollectionInvoices)
}

func (r *PurchaseRepository) ListInvoices(ctx context.Context, params ListParams) ([]entity.Invoice, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Scopes(keywordScope(params.Keyword, "invoice_number", "title", "vendor"))
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionInvoices)
	}
	var items []entity.Invoice
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&items).Error
	return items, total, translate(err, entity.CollectionInvoices)
}
