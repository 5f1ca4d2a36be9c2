package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/cache"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/sse"
	"github.com/Unload-CM/dmc-erp/internal/erp/storage"
	"go.uber.org/zap"
)

// Services ERP 서비스 모음
type Services struct {
	Inventory   *InventoryService
	Production  *ProductionService
	Procurement *ProcurementService
	Partner     *PartnerService
	Shipping    *ShippingService
	Settings    *SettingsService
	Auth        *AuthService
	User        *UserService
	Dashboard   *DashboardService
	Setup       *SetupService
	Backup      *BackupService
}

// Deps are the external collaborators. Nil members fall back to no-op
// implementations.
type Deps struct {
	Cache     cache.Store
	Publisher sse.Publisher
	Objects   storage.ObjectStore
}

func NewServices(repos *repository.Repositories, deps Deps, cfg *config.Config, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.Nop{}
	}
	if deps.Objects == nil {
		deps.Objects = storage.Disabled{}
	}
	n := &notifier{cache: deps.Cache, publisher: deps.Publisher, logger: logger.Named("notify")}

	return &Services{
		Inventory:   NewInventoryService(repos, cfg.Rules, n),
		Production:  NewProductionService(repos, cfg.Rules, n),
		Procurement: NewProcurementService(repos, cfg.Rules, n, logger),
		Partner:     NewPartnerService(repos, n),
		Shipping:    NewShippingService(repos, n),
		Settings:    NewSettingsService(repos, n),
		Auth:        NewAuthService(repos, cfg.JWT, n),
		User:        NewUserService(repos.User, n),
		Dashboard:   NewDashboardService(repos, deps.Cache, cfg.Rules, logger),
		Setup:       NewSetupService(repos),
		Backup:      NewBackupService(repos, deps.Objects, cfg.Backup, n, logger),
	}
}

// ---- errors ----

var (
	// ErrInvalidTransition 허용되지 않는 상태 전이
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// ValidationError is a business rule violation on one input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func transitionError(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// ---- change notification ----

// notifier announces committed mutations. Failures are logged and never
// fail the request.
type notifier struct {
	cache     cache.Store
	publisher sse.Publisher
	logger    *zap.Logger
}

func (n *notifier) changed(ctx context.Context, collection, action, id string) {
	if n == nil {
		return
	}
	if err := n.cache.Bump(ctx, collection); err != nil {
		n.logger.Warn("cache invalidation failed", zap.String("collection", collection), zap.Error(err))
	}
	if n.publisher == nil {
		return
	}
	ev := sse.ChangeEvent{Collection: collection, Action: action, ID: id, At: time.Now()}
	if err := n.publisher.Publish(ctx, ev); err != nil {
		n.logger.Warn("change publish failed", zap.String("collection", collection), zap.Error(err))
	}
}

func (n *notifier) created(ctx context.Context, collection, id string) {
	n.changed(ctx, collection, sse.ActionCreated, id)
}

func (n *notifier) updated(ctx context.Context, collection, id string) {
	n.changed(ctx, collection, sse.ActionUpdated, id)
}

func (n *notifier) deleted(ctx context.Context, collection, id string) {
	n.changed(ctx, collection, sse.ActionDeleted, id)
}

// ---- helpers ----

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD value in UTC.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(field, "must be one of %v", allowed)
}

// ListQuery 목록 조회 공통 쿼리
type ListQuery struct {
	Keyword  string `form:"keyword"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (q ListQuery) params() repository.ListParams {
	return repository.ListParams{Keyword: q.Keyword, Status: q.Status, Page: q.Page, PageSize: q.PageSize}
}

// Paging reports the page and clamped page size used for the query.
func (q ListQuery) Paging() (page, size int) {
	return q.params().Normalized()
}
