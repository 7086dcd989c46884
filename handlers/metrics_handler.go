package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsService services.MetricsService
	Helper         *helper.HTTPHelper
}

func NewMetricsHandler(metricsService services.MetricsService, h *helper.HTTPHelper) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, Helper: h}
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}

	view, err := h.metricsService.GetMetrics(c.Request.Context(), middleware.Identity(c), articleID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Metrics loaded", view)
}

func (h *MetricsHandler) ListMetrics(c *gin.Context) {
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	rows, total, err := h.metricsService.ListMetrics(c.Request.Context(), middleware.Identity(c), page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Metrics loaded", rows, page, total)
}

func (h *MetricsHandler) Like(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}

	view, err := h.metricsService.Like(c.Request.Context(), middleware.Identity(c), articleID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Liked", view)
}

func (h *MetricsHandler) Share(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}

	view, err := h.metricsService.Share(c.Request.Context(), middleware.Identity(c), articleID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Shared", view)
}

func (h *MetricsHandler) Reset(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}

	if err := h.metricsService.Reset(c.Request.Context(), middleware.Identity(c), articleID); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Metrics reset", h.Helper.EmptyJsonMap())
}
