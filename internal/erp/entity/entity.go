package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection names. These are the table names every repository and the
// setup probe refer to.
const (
	CollectionUsers                  = "users"
	CollectionInventory              = "inventory"
	CollectionInventoryTransactions  = "inventory_transactions"
	CollectionProductModels          = "product_models"
	CollectionProductionPlans        = "production_plans"
	CollectionProductionPerformances = "production_performances"
	CollectionPurchaseRequests       = "purchase_requests"
	CollectionPurchaseOrders         = "purchase_orders"
	CollectionInvoices               = "invoices"
	CollectionVendors                = "vendors"
	CollectionClients                = "clients"
	CollectionShippingPlans          = "shipping_plans"
	CollectionUnits                  = "units"
	CollectionPriorities             = "priorities"
	CollectionTaskStatuses           = "task_statuses"
	CollectionEmployees              = "employees"
	CollectionSiteSettings           = "site_settings"
	CollectionBackups                = "db_backups"
	CollectionBackupSettings         = "backup_settings"
)

// Collections lists every known collection in migration order.
var Collections = []string{
	CollectionUsers,
	CollectionInventory,
	CollectionInventoryTransactions,
	CollectionProductModels,
	CollectionProductionPlans,
	CollectionProductionPerformances,
	CollectionPurchaseRequests,
	CollectionPurchaseOrders,
	CollectionInvoices,
	CollectionVendors,
	CollectionClients,
	CollectionShippingPlans,
	CollectionUnits,
	CollectionPriorities,
	CollectionTaskStatuses,
	CollectionEmployees,
	CollectionSiteSettings,
	CollectionBackups,
	CollectionBackupSettings,
}

// NewID 새 레코드 ID
func NewID() string {
	return uuid.New().String()
}

// AutoMigrate creates every table from the entity definitions. Production
// schemas are managed by the SQL migrations; this is for tests and local runs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 사용자
		&User{},

		// 재고
		&InventoryItem{},
		&InventoryTransaction{},

		// 생산
		&ProductModel{},
		&ProductionPlan{},
		&ProductionPerformance{},

		// 구매
		&PurchaseRequest{},
		&PurchaseOrder{},
		&Invoice{},

		// 거래처
		&Vendor{},
		&Client{},

		// 출하
		&ShippingPlan{},

		// 설정
		&Unit{},
		&Priority{},
		&TaskStatus{},
		&Employee{},
		&SiteSetting{},

		// 백업
		&DBBackup{},
		&BackupSettings{},
	)
}
