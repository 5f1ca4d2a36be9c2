package handler

import (
	"net/http"
	"strings"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/middleware"
	"github.com/gin-gonic/gin"
)

// EventsPath is the SSE stream. Response compression must skip it.
const EventsPath = "/api/v1/events"

// RegisterRoutes 라우트 등록
func RegisterRoutes(r *gin.Engine, h *Handlers, jwtSecret string) {
	// 헬스 체크
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			NotFound(c, "Not found")
			return
		}
		c.Status(http.StatusNotFound)
	})

	// 테이블 점검 (인증 불필요)
	r.GET("/api/setup", h.Dashboard.Setup)

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/signin", h.Auth.Signin)
			auth.GET("/session", middleware.JWTAuth(jwtSecret), h.Auth.Session)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtSecret))
		{
			authorized.GET("/events", h.SSE.Stream)
			authorized.GET("/dashboard/summary", h.Dashboard.Summary)

			inventory := authorized.Group("/inventory")
			{
				inventory.GET("", h.Inventory.List)
				inventory.POST("", h.Inventory.Create)
				inventory.GET("/summary", h.Inventory.Summary)
				inventory.GET("/transactions", h.Inventory.Transactions)
				inventory.GET("/:id", h.Inventory.Get)
				inventory.PUT("/:id", h.Inventory.Update)
				inventory.DELETE("/:id", h.Inventory.Delete)
				inventory.POST("/:id/outbound", h.Inventory.Outbound)
			}

			models := authorized.Group("/product-models")
			{
				models.GET("", h.Production.ListModels)
				models.POST("", h.Production.CreateModel)
				models.GET("/:id", h.Production.GetModel)
				models.PUT("/:id", h.Production.UpdateModel)
				models.DELETE("/:id", h.Production.DeleteModel)
			}

			production := authorized.Group("/production")
			{
				production.GET("/comparison", h.Production.Comparison)
				production.GET("/material-status", h.Production.MaterialStatus)

				plans := production.Group("/plans")
				plans.GET("", h.Production.ListPlans)
				plans.POST("", h.Production.CreatePlan)
				plans.GET("/:id", h.Production.GetPlan)
				plans.PUT("/:id", h.Production.UpdatePlan)
				plans.PUT("/:id/status", h.Production.UpdatePlanStatus)
				plans.DELETE("/:id", h.Production.DeletePlan)

				perfs := production.Group("/performances")
				perfs.GET("", h.Production.ListPerformances)
				perfs.POST("", h.Production.CreatePerformance)
				perfs.GET("/:id", h.Production.GetPerformance)
				perfs.PUT("/:id", h.Production.UpdatePerformance)
				perfs.DELETE("/:id", h.Production.DeletePerformance)
			}

			purchase := authorized.Group("/purchase")
			{
				requests := purchase.Group("/requests")
				requests.GET("", h.Purchase.ListRequests)
				requests.POST("", h.Purchase.CreateRequest)
				requests.GET("/:id", h.Purchase.GetRequest)
				requests.PUT("/:id", h.Purchase.UpdateRequest)
				requests.PUT("/:id/status", h.Purchase.UpdateRequestStatus)
				requests.DELETE("/:id", h.Purchase.DeleteRequest)

				orders := purchase.Group("/orders")
				orders.GET("", h.Purchase.ListOrders)
				orders.POST("", h.Purchase.CreateOrder)
				orders.GET("/:id", h.Purchase.GetOrder)
				orders.PUT("/:id/status", h.Purchase.UpdateOrderStatus)
				orders.DELETE("/:id", h.Purchase.DeleteOrder)

				purchase.GET("/invoices", h.Purchase.ListInvoices)
				purchase.GET("/invoices/:id", h.Purchase.GetInvoice)
			}

			vendors := authorized.Group("/vendors")
			{
				vendors.GET("", h.Partner.ListVendors)
				vendors.POST("", h.Partner.CreateVendor)
				vendors.GET("/:id", h.Partner.GetVendor)
				vendors.PUT("/:id", h.Partner.UpdateVendor)
				vendors.DELETE("/:id", h.Partner.DeleteVendor)
			}

			clients := authorized.Group("/clients")
			{
				clients.GET("", h.Partner.ListClients)
				clients.POST("", h.Partner.CreateClient)
				clients.GET("/:id", h.Partner.GetClient)
				clients.PUT("/:id", h.Partner.UpdateClient)
				clients.DELETE("/:id", h.Partner.DeleteClient)
			}

			shipping := authorized.Group("/shipping/plans")
			{
				shipping.GET("", h.Shipping.List)
				shipping.POST("", h.Shipping.Create)
				shipping.GET("/:id", h.Shipping.Get)
				shipping.PUT("/:id", h.Shipping.Update)
				shipping.DELETE("/:id", h.Shipping.Delete)
			}

			settings := authorized.Group("/settings")
			{
				h.Settings.Units.register(settings.Group("/units"))
				h.Settings.Priorities.register(settings.Group("/priorities"))
				h.Settings.TaskStatuses.register(settings.Group("/task-statuses"))

				employees := settings.Group("/employees")
				employees.GET("", h.Settings.ListEmployees)
				employees.POST("", h.Settings.CreateEmployee)
				employees.GET("/:id", h.Settings.GetEmployee)
				employees.PUT("/:id", h.Settings.UpdateEmployee)
				employees.DELETE("/:id", h.Settings.DeleteEmployee)

				settings.GET("/site", h.Settings.GetSite)
				settings.PUT("/site", h.Settings.SaveSite)
			}

			admin := authorized.Group("/admin")
			admin.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				admin.GET("/users", h.User.List)
				admin.POST("/users", h.User.Create)
				admin.PUT("/users/:id", h.User.Update)
				admin.DELETE("/users/:id", h.User.Delete)

				admin.GET("/backups", h.Backup.List)
				admin.POST("/backups", h.Backup.Create)
				admin.GET("/backups/:id/download", h.Backup.Download)
				admin.DELETE("/backups/:id", h.Backup.Delete)

				admin.GET("/backup-settings", h.Backup.GetSettings)
				admin.PUT("/backup-settings", h.Backup.SaveSettings)
			}
		}
	}
}
