package handler

import (
	"net/http"

	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	svc    *service.DashboardService
	setup  *service.SetupService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, setup *service.SetupService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, setup: setup, logger: logger.Named("setup")}
}

// Summary GET /dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, sum)
}

// Setup GET /api/setup
// 누락된 테이블이 있어도 success 를 반환한다
func (h *DashboardHandler) Setup(c *gin.Context) {
	status := h.setup.Check(c.Request.Context())
	if len(status.Missing) > 0 {
		h.logger.Warn("collections missing", zap.Strings("missing", status.Missing))
	}
	c.JSON(http.StatusOK, status)
}
