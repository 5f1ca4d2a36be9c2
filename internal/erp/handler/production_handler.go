package handler

import (
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// ============================================================
// 제품 모델
// ============================================================

func (h *ProductionHandler) ListModels(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	models, total, err := h.svc.ListModels(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, models, total, q)
}

func (h *ProductionHandler) GetModel(c *gin.Context) {
	m, err := h.svc.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, m)
}

func (h *ProductionHandler) CreateModel(c *gin.Context) {
	var req service.ProductModelRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.CreateModel(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, m)
}

func (h *ProductionHandler) UpdateModel(c *gin.Context) {
	var req service.ProductModelRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.UpdateModel(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, m)
}

func (h *ProductionHandler) DeleteModel(c *gin.Context) {
	if err := h.svc.DeleteModel(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// ============================================================
// 생산 계획
// ============================================================

// ListPlans GET /production/plans
func (h *ProductionHandler) ListPlans(c *gin.Context) {
	var q service.PlanQuery
	if !bindQuery(c, &q) {
		return
	}
	plans, total, err := h.svc.ListPlans(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, plans, total, q.ListQuery)
}

// GetPlan GET /production/plans/:id
func (h *ProductionHandler) GetPlan(c *gin.Context) {
	plan, err := h.svc.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, plan)
}

// CreatePlan POST /production/plans
func (h *ProductionHandler) CreatePlan(c *gin.Context) {
	var req service.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.svc.CreatePlan(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, plan)
}

// UpdatePlan PUT /production/plans/:id
func (h *ProductionHandler) UpdatePlan(c *gin.Context) {
	var req service.UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.svc.UpdatePlan(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, plan)
}

// UpdatePlanStatus PUT /production/plans/:id/status
func (h *ProductionHandler) UpdatePlanStatus(c *gin.Context) {
	var req service.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.svc.UpdatePlanStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, plan)
}

// DeletePlan DELETE /production/plans/:id
func (h *ProductionHandler) DeletePlan(c *gin.Context) {
	if err := h.svc.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// MaterialStatus GET /production/material-status
func (h *ProductionHandler) MaterialStatus(c *gin.Context) {
	status, err := h.svc.MaterialStatus(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, gin.H{"status": status, "label": status.Label(), "color": status.Color()})
}

// ============================================================
// 생산 실적
// ============================================================

func (h *ProductionHandler) ListPerformances(c *gin.Context) {
	var q service.PerformanceQuery
	if !bindQuery(c, &q) {
		return
	}
	perfs, total, err := h.svc.ListPerformances(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, perfs, total, q.ListQuery)
}

func (h *ProductionHandler) GetPerformance(c *gin.Context) {
	perf, err := h.svc.GetPerformance(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, perf)
}

// CreatePerformance POST /production/performances
func (h *ProductionHandler) CreatePerformance(c *gin.Context) {
	var req service.CreatePerformanceRequest
	if !bindJSON(c, &req) {
		return
	}
	perf, err := h.svc.CreatePerformance(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, perf)
}

func (h *ProductionHandler) UpdatePerformance(c *gin.Context) {
	var req service.UpdatePerformanceRequest
	if !bindJSON(c, &req) {
		return
	}
	perf, err := h.svc.UpdatePerformance(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, perf)
}

func (h *ProductionHandler) DeletePerformance(c *gin.Context) {
	if err := h.svc.DeletePerformance(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// Comparison GET /production/comparison
func (h *ProductionHandler) Comparison(c *gin.Context) {
	cmp, err := h.svc.Comparison(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, cmp)
}
