package handler

import (
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	svc *service.ProcurementService
}

func NewPurchaseHandler(svc *service.ProcurementService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

// ============================================================
// 구매 요청
// ============================================================

// ListRequests GET /purchase/requests
func (h *PurchaseHandler) ListRequests(c *gin.Context) {
	var q service.RequestQuery
	if !bindQuery(c, &q) {
		return
	}
	prs, total, err := h.svc.ListRequests(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, prs, total, q.ListQuery)
}

func (h *PurchaseHandler) GetRequest(c *gin.Context) {
	pr, err := h.svc.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, pr)
}

// CreateRequest POST /purchase/requests
func (h *PurchaseHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	pr, err := h.svc.CreateRequest(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, pr)
}

// UpdateRequest PUT /purchase/requests/:id
func (h *PurchaseHandler) UpdateRequest(c *gin.Context) {
	var req service.UpdateRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	pr, err := h.svc.UpdateRequest(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, pr)
}

// UpdateRequestStatus PUT /purchase/requests/:id/status
func (h *PurchaseHandler) UpdateRequestStatus(c *gin.Context) {
	var req service.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	pr, err := h.svc.UpdateRequestStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, pr)
}

func (h *PurchaseHandler) DeleteRequest(c *gin.Context) {
	if err := h.svc.DeleteRequest(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// ============================================================
// 발주
// ============================================================

// ListOrders GET /purchase/orders
func (h *PurchaseHandler) ListOrders(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	pos, total, err := h.svc.ListOrders(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, pos, total, q)
}

func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	po, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, po)
}

// CreateOrder POST /purchase/orders
func (h *PurchaseHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	po, err := h.svc.CreateOrder(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, po)
}

// UpdateOrderStatus PUT /purchase/orders/:id/status
// 승인 시 인보이스가 발행된다
func (h *PurchaseHandler) UpdateOrderStatus(c *gin.Context) {
	var req service.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	po, err := h.svc.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, po)
}

func (h *PurchaseHandler) DeleteOrder(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// ============================================================
// 인보이스
// ============================================================

func (h *PurchaseHandler) ListInvoices(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	invoices, total, err := h.svc.ListInvoices(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, invoices, total, q)
}

func (h *PurchaseHandler) GetInvoice(c *gin.Context) {
	inv, err := h.svc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, inv)
}
