package handler

import (
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

type PartnerHandler struct {
	svc *service.PartnerService
}

func NewPartnerHandler(svc *service.PartnerService) *PartnerHandler {
	return &PartnerHandler{svc: svc}
}

func (h *PartnerHandler) ListVendors(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	vendors, total, err := h.svc.ListVendors(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, vendors, total, q)
}

func (h *PartnerHandler) GetVendor(c *gin.Context) {
	v, err := h.svc.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, v)
}

func (h *PartnerHandler) CreateVendor(c *gin.Context) {
	var req service.VendorRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.svc.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, v)
}

func (h *PartnerHandler) UpdateVendor(c *gin.Context) {
	var req service.VendorRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.svc.UpdateVendor(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, v)
}

func (h *PartnerHandler) DeleteVendor(c *gin.Context) {
	if err := h.svc.DeleteVendor(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

func (h *PartnerHandler) ListClients(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	clients, total, err := h.svc.ListClients(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, clients, total, q)
}

func (h *PartnerHandler) GetClient(c *gin.Context) {
	cl, err := h.svc.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, cl)
}

func (h *PartnerHandler) CreateClient(c *gin.Context) {
	var req service.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	cl, err := h.svc.CreateClient(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, cl)
}

func (h *PartnerHandler) UpdateClient(c *gin.Context) {
	var req service.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	cl, err := h.svc.UpdateClient(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, cl)
}

func (h *PartnerHandler) DeleteClient(c *gin.Context) {
	if err := h.svc.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// ShippingHandler 출하계획
type ShippingHandler struct {
	svc *service.ShippingService
}

func NewShippingHandler(svc *service.ShippingService) *ShippingHandler {
	return &ShippingHandler{svc: svc}
}

func (h *ShippingHandler) List(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	plans, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, plans, total, q)
}

func (h *ShippingHandler) Get(c *gin.Context) {
	sp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, sp)
}

func (h *ShippingHandler) Create(c *gin.Context) {
	var req service.ShippingRequest
	if !bindJSON(c, &req) {
		return
	}
	sp, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, sp)
}

func (h *ShippingHandler) Update(c *gin.Context) {
	var req service.ShippingRequest
	if !bindJSON(c, &req) {
		return
	}
	sp, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, sp)
}

func (h *ShippingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}
