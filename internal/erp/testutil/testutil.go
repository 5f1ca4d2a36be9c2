package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "dmc-erp-test-secret"

// SetupTestDB opens a private in-memory sqlite database with every ERP
// table migrated. The database disappears when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	if err := entity.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupRouter creates a gin engine in test mode.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string, roles []string) string {
	if roles == nil {
		roles = []string{}
	}
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "dmc-erp",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token, _ := middleware.SignToken(JWTSecret, claims)
	return token
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken("test-user-001", "Test Admin", "admin@test.com", []string{entity.RoleAdmin})
}

// UserTestToken returns a token without the admin role.
func UserTestToken() string {
	return GenerateTestToken("test-user-002", "Test User", "user@test.com", []string{entity.RoleUser})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse decodes the response envelope into a map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// Data returns the envelope's data object.
func Data(w *httptest.ResponseRecorder) map[string]interface{} {
	data, _ := ParseResponse(w)["data"].(map[string]interface{})
	return data
}

// SeedInventoryItem inserts an inventory row directly.
func SeedInventoryItem(t *testing.T, db *gorm.DB, name, category string, qty float64) *entity.InventoryItem {
	t.Helper()
	item := &entity.InventoryItem{
		ID:       entity.NewID(),
		Name:     name,
		Category: category,
		Quantity: qty,
		Unit:     "EA",
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed inventory item: %v", err)
	}
	return item
}

// SeedPurchaseRequest inserts a request with the given status.
func SeedPurchaseRequest(t *testing.T, db *gorm.DB, status string, qty, price float64) *entity.PurchaseRequest {
	t.Helper()
	pr := &entity.PurchaseRequest{
		ID:        entity.NewID(),
		Title:     "볼트 M6",
		Quantity:  qty,
		Vendor:    "대명금속",
		UnitPrice: price,
		Status:    status,
		UserID:    "test-user-001",
	}
	if err := db.Create(pr).Error; err != nil {
		t.Fatalf("Failed to seed purchase request: %v", err)
	}
	return pr
}

// SeedPlan inserts a production plan.
func SeedPlan(t *testing.T, db *gorm.DB, planned float64, start, end time.Time) *entity.ProductionPlan {
	t.Helper()
	plan := &entity.ProductionPlan{
		ID:              entity.NewID(),
		ProductName:     "DMC-100",
		PlannedQuantity: planned,
		StartDate:       start,
		EndDate:         end,
		MaterialStatus:  "sufficient",
		Status:          entity.PlanStatusPlanned,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}
	return plan
}
