package entity

import (
	"time"
)

// PartnerStatus 거래처 상태 (공급업체, 고객사 공통)
const (
	PartnerStatusActive   = "active"
	PartnerStatusHold     = "hold"
	PartnerStatusInactive = "inactive"
)

// ShippingStatus 출하 상태
const (
	ShippingStatusPlanned   = "planned"
	ShippingStatusShipped   = "shipped"
	ShippingStatusDelivered = "delivered"
	ShippingStatusCancelled = "cancelled"
)

// Vendor 공급업체
type Vendor struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"size:200;not null;index"`
	ShortName     string    `json:"short_name" gorm:"size:50"`
	ProductName   string    `json:"product_name" gorm:"size:200"`
	UnitPrice     float64   `json:"unit_price" gorm:"type:decimal(14,4);default:0"`
	UpdatedPrice  float64   `json:"updated_price" gorm:"type:decimal(14,4);default:0"`
	Location      string    `json:"location" gorm:"size:200"`
	ContactPerson string    `json:"contact_person" gorm:"size:100"`
	PhoneNumber   string    `json:"phone_number" gorm:"size:50"`
	Status        string    `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Vendor) TableName() string {
	return CollectionVendors
}

// Client 고객사
type Client struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	Name          string    `json:"name" gorm:"size:200;not null;index"`
	ContactPerson string    `json:"contact_person" gorm:"size:100"`
	PhoneNumber   string    `json:"phone_number" gorm:"size:50"`
	Email         string    `json:"email" gorm:"size:200"`
	Address       string    `json:"address" gorm:"size:500"`
	Status        string    `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return CollectionClients
}

// ShippingPlan 출하계획
type ShippingPlan struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	ModelName   string     `json:"model_name" gorm:"size:100;not null"`
	ClientName  string     `json:"client_name" gorm:"size:200;not null"`
	Quantity    float64    `json:"quantity" gorm:"type:decimal(12,4);not null"`
	UnitPrice   float64    `json:"unit_price" gorm:"type:decimal(14,4);not null;default:0"`
	TotalAmount float64    `json:"total_amount" gorm:"type:decimal(16,4);not null;default:0"`
	ETD         *time.Time `json:"etd" gorm:"column:etd;type:date"`
	ETA         *time.Time `json:"eta" gorm:"column:eta;type:date"`
	Status      string     `json:"status" gorm:"size:20;not null;default:planned;index"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedBy   string     `json:"created_by" gorm:"size:36"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (ShippingPlan) TableName() string {
	return CollectionShippingPlans
}
