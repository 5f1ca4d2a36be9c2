package handler

import (
	"io"
	"strconv"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	svc *service.BackupService
}

func NewBackupHandler(svc *service.BackupService) *BackupHandler {
	return &BackupHandler{svc: svc}
}

func (h *BackupHandler) List(c *gin.Context) {
	var q service.ListQuery
	if !bindQuery(c, &q) {
		return
	}
	backups, total, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	List(c, backups, total, q)
}

// Create POST /admin/backups
func (h *BackupHandler) Create(c *gin.Context) {
	var req service.BackupRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	b, err := h.svc.Create(c.Request.Context(), GetUserID(c), entity.BackupTypeManual, req.Notes)
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, b)
}

// Download GET /admin/backups/:id/download
func (h *BackupHandler) Download(c *gin.Context) {
	b, r, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	defer r.Close()

	c.Header("Content-Type", "application/json")
	c.Header("Content-Disposition", `attachment; filename="`+b.BackupName+`.json"`)
	if b.FileSize > 0 {
		c.Header("Content-Length", strconv.FormatInt(b.FileSize, 10))
	}
	c.Status(200)
	if _, err := io.Copy(c.Writer, r); err != nil {
		_ = c.Error(err)
	}
}

func (h *BackupHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	Success(c, nil)
}

// GetSettings GET /admin/backup-settings
func (h *BackupHandler) GetSettings(c *gin.Context) {
	s, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, s)
}

// SaveSettings PUT /admin/backup-settings
func (h *BackupHandler) SaveSettings(c *gin.Context) {
	var req service.BackupSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.svc.SaveSettings(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, s)
}
