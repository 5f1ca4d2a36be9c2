package handler

import (
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List GET /inventory
func (h *InventoryHandler) List(c *gin.Context) {
	var q service.InventoryQuery
	if !bindQuery(c, &q) {
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, items, total, q.ListQuery)
}

// Get GET /inventory/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, item)
}

// Create POST /inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, item)
}

// Update PUT /inventory/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateInventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, item)
}

// Delete DELETE /inventory/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// Outbound POST /inventory/:id/outbound
func (h *InventoryHandler) Outbound(c *gin.Context) {
	var req service.OutboundRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Outbound(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, item)
}

// Summary GET /inventory/summary
func (h *InventoryHandler) Summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, sum)
}

// Transactions GET /inventory/transactions
func (h *InventoryHandler) Transactions(c *gin.Context) {
	var q service.TransactionQuery
	if !bindQuery(c, &q) {
		return
	}
	txs, total, err := h.svc.Transactions(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, txs, total, q.ListQuery)
}
