package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type SocialIntegrationHandler struct {
	socialService services.SocialIntegrationService
	Helper        *helper.HTTPHelper
}

func NewSocialIntegrationHandler(socialService services.SocialIntegrationService, h *helper.HTTPHelper) *SocialIntegrationHandler {
	return &SocialIntegrationHandler{socialService: socialService, Helper: h}
}

func (h *SocialIntegrationHandler) ListIntegrations(c *gin.Context) {
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	rows, total, err := h.socialService.ListIntegrations(c.Request.Context(), middleware.Identity(c), page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Integrations loaded", rows, page, total)
}

func (h *SocialIntegrationHandler) GetIntegration(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	integration, err := h.socialService.GetIntegration(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Integration loaded", integration)
}

func (h *SocialIntegrationHandler) CreateIntegration(c *gin.Context) {
	var req models.CreateSocialIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	integration, err := h.socialService.CreateIntegration(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Integration created", integration)
}

func (h *SocialIntegrationHandler) UpdateIntegration(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateSocialIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	integration, err := h.socialService.UpdateIntegration(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Integration updated", integration)
}

func (h *SocialIntegrationHandler) DeleteIntegration(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.DeleteIntegration(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Integration deleted", h.Helper.EmptyJsonMap())
}
