package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/cache"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/sse"
	"github.com/Unload-CM/dmc-erp/internal/erp/storage"
	"github.com/Unload-CM/dmc-erp/internal/erp/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []sse.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev sse.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) collections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Collection
	}
	return out
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, sse.ChangeEvent) error {
	return errors.New("broker down")
}

type testServices struct {
	*Services
	db    *gorm.DB
	repos *repository.Repositories
	cache *cache.Memory
	pub   *recordingPublisher
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{Secret: testutil.JWTSecret, AccessTokenExpire: time.Hour, Issuer: "dmc-erp"},
		Rules: config.RulesConfig{
			StockThreshold:    10,
			MaterialThreshold: 100,
			InvoicePrefix:     "DMC",
		},
		Backup: config.BackupConfig{Tables: config.DefaultBackupTables},
	}
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	mem := cache.NewMemory()
	pub := &recordingPublisher{}
	svcs := NewServices(repos, Deps{Cache: mem, Publisher: pub, Objects: storage.Disabled{}}, testConfig(), zap.NewNop())
	return &testServices{Services: svcs, db: db, repos: repos, cache: mem, pub: pub}
}

func ptr[T any](v T) *T { return &v }

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNotifierBestEffort(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	n := &notifier{cache: mem, publisher: failingPublisher{}, logger: zap.NewNop()}

	before, _ := mem.Key(ctx, "k", "inventory")
	n.updated(ctx, "inventory", "id-1")
	after, _ := mem.Key(ctx, "k", "inventory")
	assert.NotEqual(t, before, after)

	var nilNotifier *notifier
	assert.NotPanics(t, func() { nilNotifier.created(ctx, "inventory", "id") })
}

func TestValidationErrorMessage(t *testing.T) {
	err := invalid("quantity", "must be at most %d", 5)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)
	assert.Equal(t, "quantity: must be at most 5", err.Error())
	assert.ErrorIs(t, transitionError("approved", "pending"), ErrInvalidTransition)
}

func TestSetupCheck(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	status := ts.Setup.Check(ctx)
	assert.True(t, status.Success)
	assert.Empty(t, status.Missing)
	assert.True(t, status.Collections["invoices"])

	require.NoError(t, ts.db.Migrator().DropTable("invoices"))
	status = ts.Setup.Check(ctx)
	assert.True(t, status.Success)
	assert.False(t, status.Collections["invoices"])
	assert.Equal(t, []string{"invoices"}, status.Missing)
}

func TestCollectionMissingSurfaces(t *testing.T) {
	ts := newTestServices(t)
	require.NoError(t, ts.db.Migrator().DropTable("purchase_requests"))

	_, _, err := ts.Procurement.ListRequests(context.Background(), RequestQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrCollectionMissing)

	var missing *repository.CollectionMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "purchase_requests", missing.Collection)
}
