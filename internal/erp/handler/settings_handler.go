package handler

import (
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// LookupHandler serves one name/description list.
type LookupHandler[T any] struct {
	lookup *service.Lookup[T]
}

func (h *LookupHandler[T]) List(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	rows, total, err := h.lookup.List(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, rows, total, q)
}

func (h *LookupHandler[T]) Get(c *gin.Context) {
	row, err := h.lookup.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, row)
}

func (h *LookupHandler[T]) Create(c *gin.Context) {
	var req service.LookupRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.lookup.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, row)
}

func (h *LookupHandler[T]) Update(c *gin.Context) {
	var req service.LookupRequest
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.lookup.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, row)
}

func (h *LookupHandler[T]) Delete(c *gin.Context) {
	if err := h.lookup.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

func (h *LookupHandler[T]) register(g *gin.RouterGroup) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// SettingsHandler 설정 (코드 목록, 직원, 사이트)
type SettingsHandler struct {
	svc          *service.SettingsService
	Units        *LookupHandler[entity.Unit]
	Priorities   *LookupHandler[entity.Priority]
	TaskStatuses *LookupHandler[entity.TaskStatus]
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		svc:          svc,
		Units:        &LookupHandler[entity.Unit]{lookup: svc.Units},
		Priorities:   &LookupHandler[entity.Priority]{lookup: svc.Priorities},
		TaskStatuses: &LookupHandler[entity.TaskStatus]{lookup: svc.TaskStatuses},
	}
}

func (h *SettingsHandler) ListEmployees(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	employees, total, err := h.svc.ListEmployees(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, employees, total, q)
}

func (h *SettingsHandler) GetEmployee(c *gin.Context) {
	e, err := h.svc.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, e)
}

func (h *SettingsHandler) CreateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.svc.CreateEmployee(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, e)
}

func (h *SettingsHandler) UpdateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	e, err := h.svc.UpdateEmployee(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, e)
}

func (h *SettingsHandler) DeleteEmployee(c *gin.Context) {
	if err := h.svc.DeleteEmployee(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// GetSite GET /settings/site
func (h *SettingsHandler) GetSite(c *gin.Context) {
	site, err := h.svc.GetSite(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, site)
}

// SaveSite PUT /settings/site
func (h *SettingsHandler) SaveSite(c *gin.Context) {
	var req service.SiteRequest
	if !bindJSON(c, &req) {
		return
	}
	site, err := h.svc.SaveSite(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, site)
}
