package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type AuditLogHandler struct {
	auditService services.AuditLogService
	Helper       *helper.HTTPHelper
}

func NewAuditLogHandler(auditService services.AuditLogService, h *helper.HTTPHelper) *AuditLogHandler {
	return &AuditLogHandler{auditService: auditService, Helper: h}
}

func (h *AuditLogHandler) ListLogs(c *gin.Context) {
	var filter models.AuditLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	logs, total, err := h.auditService.List(c.Request.Context(), middleware.Identity(c), filter, page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Logs loaded", logs, page, total)
}

func (h *AuditLogHandler) GetLog(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.auditService.Get(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Log loaded", entry)
}

func (h *AuditLogHandler) DeleteLog(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.auditService.Delete(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Log deleted", h.Helper.EmptyJsonMap())
}
