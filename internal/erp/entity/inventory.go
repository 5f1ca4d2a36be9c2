package entity

import (
	"time"
)

// RawMaterialCategory is the inventory category counted for plan material status.
const RawMaterialCategory = "원자재"

// InventoryItem 재고 품목
type InventoryItem struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:200;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"size:100;index"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(12,4);not null;default:0"`
	Unit        string    `json:"unit" gorm:"size:20;not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(14,4);default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// derived on read, never stored
	Type        string `json:"type" gorm:"-"`
	Status      string `json:"status" gorm:"-"`
	StatusLabel string `json:"status_label" gorm:"-"`
	StatusColor string `json:"status_color" gorm:"-"`
}

func (InventoryItem) TableName() string {
	return CollectionInventory
}

// InventoryTransaction 입출고 이력
type InventoryTransaction struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	ItemID     string    `json:"item_id" gorm:"size:36;not null;index"`
	ItemName   string    `json:"item_name" gorm:"size:200"`
	Type       string    `json:"type" gorm:"size:10;not null"`                // IN, OUT
	Quantity   float64   `json:"quantity" gorm:"type:decimal(12,4);not null"` // 양수=입고, 음수=출고
	BalanceQty float64   `json:"balance_qty" gorm:"type:decimal(12,4);not null"`
	Reason     string    `json:"reason" gorm:"size:20;not null"` // create, edit, outbound
	CreatedBy  string    `json:"created_by" gorm:"size:36"`
	CreatedAt  time.Time `json:"created_at"`
}

func (InventoryTransaction) TableName() string {
	return CollectionInventoryTransactions
}

// Inventory transaction reasons.
const (
	TxReasonCreate   = "create"
	TxReasonEdit     = "edit"
	TxReasonOutbound = "outbound"
)
