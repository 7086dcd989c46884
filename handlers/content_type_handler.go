package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type ContentTypeHandler struct {
	contentTypeService services.ContentTypeService
	Helper             *helper.HTTPHelper
}

func NewContentTypeHandler(contentTypeService services.ContentTypeService, h *helper.HTTPHelper) *ContentTypeHandler {
	return &ContentTypeHandler{contentTypeService: contentTypeService, Helper: h}
}

func (h *ContentTypeHandler) CreateContentType(c *gin.Context) {
	var req models.CreateContentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	ct, err := h.contentTypeService.CreateContentType(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Content type created", ct)
}

func (h *ContentTypeHandler) GetContentTypes(c *gin.Context) {
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	types, total, err := h.contentTypeService.GetContentTypes(c.Request.Context(), page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Content types loaded", types, page, total)
}

func (h *ContentTypeHandler) GetContentType(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	ct, err := h.contentTypeService.GetContentType(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Content type loaded", ct)
}

func (h *ContentTypeHandler) UpdateContentType(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateContentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	ct, err := h.contentTypeService.UpdateContentType(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Content type updated", ct)
}

func (h *ContentTypeHandler) DeleteContentType(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.contentTypeService.DeleteContentType(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Content type deleted", h.Helper.EmptyJsonMap())
}
