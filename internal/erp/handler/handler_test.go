package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/Unload-CM/dmc-erp/internal/erp/sse"
	"github.com/Unload-CM/dmc-erp/internal/erp/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type apiEnv struct {
	router *gin.Engine
	db     *gorm.DB
	hub    *sse.Hub
	admin  string
	user   string
}

func setupAPI(t *testing.T) *apiEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: testutil.JWTSecret, AccessTokenExpire: time.Hour, Issuer: "dmc-erp"},
		Rules: config.RulesConfig{
			StockThreshold:    10,
			MaterialThreshold: 100,
			InvoicePrefix:     "DMC",
		},
		Backup: config.BackupConfig{Tables: config.DefaultBackupTables},
	}
	hub := sse.NewHub(nil)
	svcs := service.NewServices(repository.NewRepositories(db), service.Deps{
		Publisher: sse.NewLocalPublisher(hub),
	}, cfg, zap.NewNop())

	router := testutil.SetupRouter()
	RegisterRoutes(router, NewHandlers(svcs, hub, zap.NewNop()), testutil.JWTSecret)
	return &apiEnv{
		router: router,
		db:     db,
		hub:    hub,
		admin:  testutil.DefaultTestToken(),
		user:   testutil.UserTestToken(),
	}
}

func (e *apiEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	return testutil.DoRequest(e.router, method, path, body, token)
}

func code(w *httptest.ResponseRecorder) int {
	c, _ := testutil.ParseResponse(w)["code"].(float64)
	return int(c)
}

func TestSetupIsPublic(t *testing.T) {
	env := setupAPI(t)
	require.NoError(t, env.db.Migrator().DropTable(entity.CollectionBackups))

	w := env.do(http.MethodGet, "/api/setup", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.ParseResponse(w)
	assert.Equal(t, true, body["success"])
	collections := body["collections"].(map[string]interface{})
	assert.Equal(t, true, collections[entity.CollectionInventory])
	assert.Equal(t, false, collections[entity.CollectionBackups])
}

func TestAuthRequired(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodGet, "/api/v1/inventory", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/inventory", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/nothing-here", nil, env.admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, code(w))
}

func TestAdminRoutesRequireRole(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodGet, "/api/v1/admin/users", nil, env.user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/v1/admin/users", nil, env.admin)
	assert.Equal(t, http.StatusOK, w.Code)
	data := testutil.Data(w)
	assert.NotNil(t, data["pagination"])
}

func TestSignupSigninSession(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "boss@dmc.kr", "password": "short"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, code(w))

	w = env.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "boss@dmc.kr", "password": "password1", "full_name": "대표"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, entity.RoleAdmin, testutil.Data(w)["role"])
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(http.MethodPost, "/api/v1/auth/signup", gin.H{"email": "boss@dmc.kr", "password": "password1"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/signin", gin.H{"email": "boss@dmc.kr", "password": "password2"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/v1/auth/signin", gin.H{"email": "boss@dmc.kr", "password": "password1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := testutil.Data(w)["access_token"].(string)
	require.NotEmpty(t, token)

	w = env.do(http.MethodGet, "/api/v1/auth/session", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "대표", testutil.Data(w)["full_name"])

	// a valid token for a user that no longer exists
	w = env.do(http.MethodGet, "/api/v1/auth/session", nil, env.user)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInventoryAPI(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/v1/inventory", gin.H{"name": "볼트", "unit": "EA", "quantity": "many"}, env.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeBadRequest, code(w))

	w = env.do(http.MethodPost, "/api/v1/inventory", gin.H{"unit": "EA", "quantity": 5, "type": "SIDEWAYS"}, env.admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, code(w))
	fields := testutil.Data(w)["fields"].([]interface{})
	names := map[string]bool{}
	for _, f := range fields {
		names[f.(map[string]interface{})["field"].(string)] = true
	}
	assert.True(t, names["name"])
	assert.True(t, names["type"])

	w = env.do(http.MethodPost, "/api/v1/inventory", gin.H{"name": "볼트", "category": "부품", "unit": "EA", "quantity": 30, "type": "IN"}, env.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	item := testutil.Data(w)
	id := item["id"].(string)
	assert.Equal(t, "sufficient", item["status"])
	assert.Equal(t, "충분", item["status_label"])

	w = env.do(http.MethodPost, "/api/v1/inventory/"+id+"/outbound", gin.H{"quantity": 31}, env.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quantity", testutil.Data(w)["field"])

	w = env.do(http.MethodPost, "/api/v1/inventory/"+id+"/outbound", gin.H{"quantity": 25}, env.admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5.0, testutil.Data(w)["quantity"])
	assert.Equal(t, "insufficient", testutil.Data(w)["status"])

	w = env.do(http.MethodGet, "/api/v1/inventory?low_stock=true", nil, env.user)
	require.Equal(t, http.StatusOK, w.Code)
	pagination := testutil.Data(w)["pagination"].(map[string]interface{})
	assert.Equal(t, 1.0, pagination["total"])

	w = env.do(http.MethodGet, "/api/v1/inventory/summary", nil, env.user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.Data(w)["low_stock_count"])

	w = env.do(http.MethodGet, "/api/v1/inventory/transactions?item_id="+id, nil, env.user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.Data(w)["items"], 2)

	w = env.do(http.MethodGet, "/api/v1/inventory/missing", nil, env.user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseWorkflowAPI(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/v1/purchase/requests", gin.H{"title": "절삭유", "quantity": 4, "unit_price": 2500, "vendor": "한빛상사"}, env.user)
	require.Equal(t, http.StatusCreated, w.Code)
	prID := testutil.Data(w)["id"].(string)
	assert.Equal(t, "test-user-002", testutil.Data(w)["user_id"])

	w = env.do(http.MethodPost, "/api/v1/purchase/orders", gin.H{"request_id": prID}, env.admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeConflict, code(w))

	w = env.do(http.MethodPut, "/api/v1/purchase/requests/"+prID+"/status", gin.H{"status": "approved"}, env.admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, "/api/v1/purchase/orders", gin.H{"request_id": prID}, env.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	order := testutil.Data(w)
	poID := order["id"].(string)
	assert.Equal(t, 10000.0, order["total_amount"])

	w = env.do(http.MethodPut, "/api/v1/purchase/orders/"+poID+"/status", gin.H{"status": "approved"}, env.admin)
	require.Equal(t, http.StatusOK, w.Code)
	invoice := testutil.Data(w)["invoice"].(map[string]interface{})
	number := invoice["invoice_number"].(string)
	assert.True(t, strings.HasPrefix(number, "DMC-"))
	assert.True(t, strings.HasSuffix(number, "-001"))

	w = env.do(http.MethodPut, "/api/v1/purchase/orders/"+poID+"/status", gin.H{"status": "in_progress"}, env.admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodGet, "/api/v1/purchase/invoices", nil, env.user)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.Data(w)["items"], 1)
}

func TestCollectionMissingAnswers503(t *testing.T) {
	env := setupAPI(t)
	require.NoError(t, env.db.Migrator().DropTable(entity.CollectionShippingPlans))

	w := env.do(http.MethodGet, "/api/v1/shipping/plans", nil, env.user)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, CodeCollectionMissing, code(w))
	msg, _ := testutil.ParseResponse(w)["message"].(string)
	assert.Contains(t, msg, "dmc-erp migrate up")
	assert.Contains(t, msg, entity.CollectionShippingPlans)
	assert.NotContains(t, strings.ToUpper(msg), "SELECT")
}

func TestBackupDownloadWithoutObjectStorage(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/v1/admin/backups", nil, env.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	id := testutil.Data(w)["id"].(string)
	assert.True(t, strings.HasPrefix(testutil.Data(w)["backup_name"].(string), "manual_backup_"))

	w = env.do(http.MethodGet, "/api/v1/admin/backups/"+id+"/download", nil, env.admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPut, "/api/v1/admin/backup-settings", gin.H{"auto_backup_enabled": true, "backup_frequency": "hourly"}, env.admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, "/api/v1/admin/backup-settings", gin.H{"auto_backup_enabled": true, "backup_frequency": "weekly"}, env.admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, testutil.Data(w)["next_scheduled_backup"])
}

func TestEventStream(t *testing.T) {
	env := setupAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?collections=vendors&token="+env.user, nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		env.router.ServeHTTP(w, req)
		close(done)
	}()
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// filtered out by the collections parameter
	resp := env.do(http.MethodPost, "/api/v1/clients", gin.H{"name": "한국전자"}, env.admin)
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = env.do(http.MethodPost, "/api/v1/vendors", gin.H{"name": "대명금속"}, env.admin)
	require.Equal(t, http.StatusCreated, resp.Code)
	vendorID := testutil.Data(resp)["id"].(string)

	env.hub.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end")
	}

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "retry: 5000")
	assert.Contains(t, body, "event:connected")
	assert.Contains(t, body, "event:"+sse.EventTypeCollectionChanged)
	assert.Contains(t, body, vendorID)
	assert.NotContains(t, body, `"collection":"clients"`)
}

func TestAdminCreatesUser(t *testing.T) {
	env := setupAPI(t)
	body := gin.H{"email": "Staff@DMC.kr", "password": "password1", "full_name": "현장", "role": "user"}

	w := env.do(http.MethodPost, "/api/v1/admin/users", body, env.user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/v1/admin/users", gin.H{"email": "a@dmc.kr", "password": "password1", "role": "owner"}, env.admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, code(w))

	w = env.do(http.MethodPost, "/api/v1/admin/users", body, env.admin)
	require.Equal(t, http.StatusCreated, w.Code)
	created := testutil.Data(w)
	assert.Equal(t, "staff@dmc.kr", created["email"])
	assert.Equal(t, entity.RoleUser, created["role"])
	assert.NotContains(t, w.Body.String(), "password")

	var stored entity.User
	require.NoError(t, env.db.Where("email = ?", "staff@dmc.kr").First(&stored).Error)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2a$"))

	w = env.do(http.MethodPost, "/api/v1/admin/users", gin.H{"email": "STAFF@dmc.kr", "password": "password2", "role": "admin"}, env.admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeDuplicate, code(w))

	w = env.do(http.MethodPost, "/api/v1/auth/signin", gin.H{"email": "staff@dmc.kr", "password": "password1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNumericInputIsBounded(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/v1/inventory", gin.H{"name": "볼트", "category": "부품", "unit": "EA", "quantity": 1e30}, env.admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, code(w))

	w = env.do(http.MethodPost, "/api/v1/purchase/requests", gin.H{"title": "절삭유", "quantity": 1, "unit_price": 100000000}, env.user)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, code(w))

	w = env.do(http.MethodPost, "/api/v1/inventory", gin.H{"name": "볼트", "category": "부품", "unit": "EA", "quantity": 99999999.9999}, env.admin)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRuleViolationAnswersBadRequest(t *testing.T) {
	env := setupAPI(t)

	w := env.do(http.MethodPost, "/api/v1/purchase/requests", gin.H{"title": "절삭유", "quantity": 1}, env.user)
	require.Equal(t, http.StatusCreated, w.Code)
	prID := testutil.Data(w)["id"].(string)

	w = env.do(http.MethodPut, "/api/v1/purchase/requests/"+prID+"/status", gin.H{"status": "archived"}, env.admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeBadRequest, code(w))
	assert.Equal(t, "status", testutil.Data(w)["field"])

	w = env.do(http.MethodPut, "/api/v1/purchase/requests/"+prID+"/status", gin.H{"status": "completed"}, env.admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeConflict, code(w))
}

func TestListReportsClampedPageSize(t *testing.T) {
	env := setupAPI(t)
	testutil.SeedInventoryItem(t, env.db, "볼트", "부품", 30)

	w := env.do(http.MethodGet, "/api/v1/inventory?page_size=100000", nil, env.user)
	require.Equal(t, http.StatusOK, w.Code)
	pagination := testutil.Data(w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(repository.MaxPageSize), pagination["page_size"])
	assert.Equal(t, 1.0, pagination["total_pages"])

	w = env.do(http.MethodGet, "/api/v1/inventory", nil, env.user)
	require.Equal(t, http.StatusOK, w.Code)
	pagination = testutil.Data(w)["pagination"].(map[string]interface{})
	assert.Equal(t, float64(repository.DefaultPageSize), pagination["page_size"])
}
