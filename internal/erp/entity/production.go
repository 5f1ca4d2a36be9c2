package entity

import (
	"time"
)

// ProductionPlanStatus 생산계획 상태
const (
	PlanStatusPlanned           = "planned"
	PlanStatusInProgress        = "in_progress"
	PlanStatusCompleted         = "completed"
	PlanStatusCancelled         = "cancelled"
	PlanStatusMaterialWaiting   = "material_waiting"
	PlanStatusProductionWaiting = "production_waiting"
)

// PlanStatuses lists every accepted plan status.
var PlanStatuses = []string{
	PlanStatusPlanned,
	PlanStatusInProgress,
	PlanStatusCompleted,
	PlanStatusCancelled,
	PlanStatusMaterialWaiting,
	PlanStatusProductionWaiting,
}

// ProductModel 제품 모델
type ProductModel struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ModelName      string    `json:"model_name" gorm:"size:100;not null;index"`
	ProductName    string    `json:"product_name" gorm:"size:200"`
	Specifications string    `json:"specifications" gorm:"type:text"`
	MaterialType   string    `json:"material_type" gorm:"size:100"`
	Manager        string    `json:"manager" gorm:"size:100"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ProductModel) TableName() string {
	return CollectionProductModels
}

// ProductionPlan 생산계획. MaterialStatus is a snapshot taken at creation.
type ProductionPlan struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	ProductName     string    `json:"product_name" gorm:"size:200;not null"`
	ModelID         string    `json:"model_id" gorm:"size:36;index"`
	PlannedQuantity float64   `json:"planned_quantity" gorm:"type:decimal(12,4);not null"`
	StartDate       time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate         time.Time `json:"end_date" gorm:"type:date;not null"`
	DaysRequired    int       `json:"days_required" gorm:"not null;default:0"`
	MaterialStatus  string    `json:"material_status" gorm:"size:20;not null"`
	Status          string    `json:"status" gorm:"size:30;not null;default:planned;index"`
	Manager         string    `json:"manager" gorm:"size:100"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:36"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Model *ProductModel `json:"model,omitempty" gorm:"foreignKey:ModelID"`
}

func (ProductionPlan) TableName() string {
	return CollectionProductionPlans
}

// ProductionPerformance 생산실적. AchievementRate is fixed at creation.
type ProductionPerformance struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	PlanID          string    `json:"plan_id" gorm:"size:36;not null;index"`
	PlannedQuantity float64   `json:"planned_quantity" gorm:"type:decimal(12,4);not null"`
	ActualQuantity  float64   `json:"actual_quantity" gorm:"type:decimal(12,4);not null"`
	AchievementRate int       `json:"achievement_rate" gorm:"not null;default:0"`
	StartDate       time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate         time.Time `json:"end_date" gorm:"type:date;not null"`
	Status          string    `json:"status" gorm:"size:30;not null"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:36"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Plan *ProductionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

func (ProductionPerformance) TableName() string {
	return CollectionProductionPerformances
}
