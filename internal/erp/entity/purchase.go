package entity

import (
	"time"
)

// PurchaseRequestStatus 구매요청 상태
const (
	PRStatusPending   = "pending"
	PRStatusApproved  = "approved"
	PRStatusRejected  = "rejected"
	PRStatusCompleted = "completed"
)

// PRStatuses lists every purchase request status.
var PRStatuses = []string{PRStatusPending, PRStatusApproved, PRStatusRejected, PRStatusCompleted}

// PurchaseOrderStatus 발주 상태
const (
	POStatusPending    = "pending"
	POStatusInProgress = "in_progress"
	POStatusApproved   = "approved"
)

// PurchaseRequest 구매요청
type PurchaseRequest struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Vendor      string    `json:"vendor" gorm:"size:200"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(14,4);not null;default:0"`
	Status      string    `json:"status" gorm:"size:20;not null;default:pending;index"`
	UserID      string    `json:"user_id" gorm:"size:36;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PurchaseRequest) TableName() string {
	return CollectionPurchaseRequests
}

// PurchaseOrder 발주. Fields are copied from the approved request.
type PurchaseOrder struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	RequestID   string    `json:"request_id" gorm:"size:36;not null;index"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Vendor      string    `json:"vendor" gorm:"size:200"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(14,4);not null;default:0"`
	TotalAmount float64   `json:"total_amount" gorm:"type:decimal(16,4);not null;default:0"`
	Status      string    `json:"status" gorm:"size:20;not null;default:pending;index"`
	CreatedBy   string    `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Invoice *Invoice `json:"invoice,omitempty" gorm:"foreignKey:OrderID"`
}

func (PurchaseOrder) TableName() string {
	return CollectionPurchaseOrders
}

// Invoice 거래명세서. One per approved order.
type Invoice struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID       string    `json:"order_id" gorm:"size:36;not null;uniqueIndex"`
	InvoiceNumber string    `json:"invoice_number" gorm:"size:40;not null;uniqueIndex"`
	Title         string    `json:"title" gorm:"size:200"`
	Description   string    `json:"description" gorm:"type:text"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Vendor        string    `json:"vendor" gorm:"size:200"`
	UnitPrice     float64   `json:"unit_price" gorm:"type:decimal(14,4);not null;default:0"`
	TotalAmount   float64   `json:"total_amount" gorm:"type:decimal(16,4);not null;default:0"`
	IssueDate     time.Time `json:"issue_date"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Invoice) TableName() string {
	return CollectionInvoices
}
