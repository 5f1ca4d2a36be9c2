package service

import (
	"context"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/rules"
)

// InventoryService 재고 서비스
type InventoryService struct {
	repos      *repository.Repositories
	classifier rules.Classifier
	threshold  float64
	notify     *notifier
}

func NewInventoryService(repos *repository.Repositories, cfg config.RulesConfig, n *notifier) *InventoryService {
	threshold := cfg.StockThreshold
	if threshold <= 0 {
		threshold = rules.DefaultStockThreshold
	}
	return &InventoryService{
		repos:      repos,
		classifier: rules.NewClassifier(threshold),
		threshold:  threshold,
		notify:     n,
	}
}

// InventoryQuery 재고 목록 조회
type InventoryQuery struct {
	ListQuery
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
}

func (s *InventoryService) List(ctx context.Context, q InventoryQuery) ([]entity.InventoryItem, int64, error) {
	if q.Status != "" && !rules.StockStatus(q.Status).Valid() {
		return nil, 0, invalid("status", "unknown stock status %q", q.Status)
	}
	items, total, err := s.repos.Inventory.List(ctx, repository.InventoryListParams{
		ListParams:  repository.ListParams{Keyword: q.Keyword, Page: q.Page, PageSize: q.PageSize},
		Category:    q.Category,
		StockStatus: q.Status,
		LowStock:    q.LowStock,
		Threshold:   s.threshold,
	})
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		s.decorate(&items[i])
	}
	return items, total, nil
}

func (s *InventoryService) Get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := s.repos.Inventory.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(item)
	return item, nil
}

// CreateInventoryRequest 재고 등록 요청
type CreateInventoryRequest struct {
	Type        string   `json:"type" binding:"omitempty,oneof=IN OUT"`
	Name        string   `json:"name" binding:"required,max=200"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required,max=100"`
	Quantity    *float64 `json:"quantity" binding:"required,gte=0,lte=99999999.9999"`
	Unit        string   `json:"unit" binding:"required,max=20"`
	UnitPrice   float64  `json:"unit_price" binding:"gte=0,lte=99999999.9999"`
}

// Create stores a new item. The quantity is clamped so that it agrees with
// the requested record type.
func (s *InventoryService) Create(ctx context.Context, userID string, req *CreateInventoryRequest) (*entity.InventoryItem, error) {
	recordType, err := rules.ParseRecordType(req.Type)
	if err != nil {
		return nil, invalid("type", "%v", err)
	}
	recordType, qty := s.classifier.ReconcileTypeAndQuantity(recordType, *req.Quantity)

	item := &entity.InventoryItem{
		ID:          entity.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    qty,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
	}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Inventory.Create(ctx, item); err != nil {
			return err
		}
		return tx.Inventory.CreateTransaction(ctx, &entity.InventoryTransaction{
			ID:         entity.NewID(),
			ItemID:     item.ID,
			ItemName:   item.Name,
			Type:       string(recordType),
			Quantity:   qty,
			BalanceQty: qty,
			Reason:     entity.TxReasonCreate,
			CreatedBy:  userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify.created(ctx, entity.CollectionInventory, item.ID)
	s.decorate(item)
	return item, nil
}

// UpdateInventoryRequest 재고 수정 요청. Nil fields are left unchanged.
type UpdateInventoryRequest struct {
	Type        *string  `json:"type" binding:"omitempty,oneof=IN OUT"`
	Name        *string  `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" binding:"omitempty,min=1,max=100"`
	Quantity    *float64 `json:"quantity" binding:"omitempty,gte=0,lte=99999999.9999"`
	Unit        *string  `json:"unit" binding:"omitempty,min=1,max=20"`
	UnitPrice   *float64 `json:"unit_price" binding:"omitempty,gte=0,lte=99999999.9999"`
}

// Update applies a partial edit. An edited quantity wins and the type follows
// it; an edited type alone clamps the stored quantity.
func (s *InventoryService) Update(ctx context.Context, id, userID string, req *UpdateInventoryRequest) (*entity.InventoryItem, error) {
	var item *entity.InventoryItem
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		item, err = tx.Inventory.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before := item.Quantity

		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}
		if req.UnitPrice != nil {
			item.UnitPrice = *req.UnitPrice
		}

		recordType := s.classifier.Classify(item.Quantity)
		switch {
		case req.Quantity != nil:
			recordType, item.Quantity = s.classifier.ReconcileQuantity(recordType, *req.Quantity)
		case req.Type != nil:
			t, err := rules.ParseRecordType(*req.Type)
			if err != nil {
				return invalid("type", "%v", err)
			}
			recordType, item.Quantity = s.classifier.ReconcileTypeAndQuantity(t, item.Quantity)
		}

		if err := tx.Inventory.Save(ctx, item); err != nil {
			return err
		}
		return tx.Inventory.CreateTransaction(ctx, &entity.InventoryTransaction{
			ID:         entity.NewID(),
			ItemID:     item.ID,
			ItemName:   item.Name,
			Type:       string(recordType),
			Quantity:   item.Quantity - before,
			BalanceQty: item.Quantity,
			Reason:     entity.TxReasonEdit,
			CreatedBy:  userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify.updated(ctx, entity.CollectionInventory, item.ID)
	s.decorate(item)
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	if err := s.repos.Inventory.Delete(ctx, id); err != nil {
		return err
	}
	s.notify.deleted(ctx, entity.CollectionInventory, id)
	return nil
}

// OutboundRequest 출고 요청
type OutboundRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0,lte=99999999.9999"`
}

// Outbound removes stock. The item row is locked and the decrement is
// guarded, so stock never goes negative.
func (s *InventoryService) Outbound(ctx context.Context, id, userID string, req *OutboundRequest) (*entity.InventoryItem, error) {
	var item *entity.InventoryItem
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		item, err = tx.Inventory.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Quantity > item.Quantity {
			return invalid("quantity", "출고 수량(%v)이 현재 재고(%v)보다 많습니다", req.Quantity, item.Quantity)
		}
		ok, err := tx.Inventory.DecrementQuantity(ctx, id, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("quantity", "재고가 부족합니다")
		}
		item.Quantity -= req.Quantity

		return tx.Inventory.CreateTransaction(ctx, &entity.InventoryTransaction{
			ID:         entity.NewID(),
			ItemID:     item.ID,
			ItemName:   item.Name,
			Type:       string(rules.RecordOut),
			Quantity:   -req.Quantity,
			BalanceQty: item.Quantity,
			Reason:     entity.TxReasonOutbound,
			CreatedBy:  userID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notify.updated(ctx, entity.CollectionInventory, item.ID)
	s.decorate(item)
	return item, nil
}

// InventorySummary 재고 요약
type InventorySummary struct {
	repository.InventoryTotals
	Threshold  float64                        `json:"threshold"`
	Categories []repository.CategoryAggregate `json:"categories"`
}

func (s *InventoryService) Summary(ctx context.Context) (*InventorySummary, error) {
	totals, err := s.repos.Inventory.Totals(ctx, s.threshold)
	if err != nil {
		return nil, err
	}
	cats, err := s.repos.Inventory.TopCategories(ctx, 5)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []repository.CategoryAggregate{}
	}
	return &InventorySummary{InventoryTotals: *totals, Threshold: s.threshold, Categories: cats}, nil
}

// TransactionQuery 입출고 이력 조회
type TransactionQuery struct {
	ListQuery
	ItemID string `form:"item_id"`
}

func (s *InventoryService) Transactions(ctx context.Context, q TransactionQuery) ([]entity.InventoryTransaction, int64, error) {
	return s.repos.Inventory.ListTransactions(ctx, q.ItemID, q.params())
}

func (s *InventoryService) decorate(item *entity.InventoryItem) {
	status := rules.DeriveStockStatus(item.Quantity, s.threshold)
	item.Type = string(s.classifier.Classify(item.Quantity))
	item.Status = string(status)
	item.StatusLabel = status.Label()
	item.StatusColor = status.Color()
}
