package handlers

import (
	"net/http"

	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService services.MediaService
	maxBytes     int64
	Helper       *helper.HTTPHelper
}

func NewMediaHandler(mediaService services.MediaService, maxBytes int64, h *helper.HTTPHelper) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, maxBytes: maxBytes, Helper: h}
}

// UploadMedia takes a multipart form with article_id, file and an optional
// description.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	if h.maxBytes > 0 {
		// room for the other form fields and multipart framing
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	}

	var req models.UploadMediaRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.Helper.SendBadRequest(c, "file is required", h.Helper.EmptyJsonMap())
		return
	}
	file, err := header.Open()
	if err != nil {
		h.Helper.SendBadRequest(c, "file cannot be read", h.Helper.EmptyJsonMap())
		return
	}
	defer file.Close()

	media, err := h.mediaService.UploadMedia(c.Request.Context(), middleware.Identity(c), req, services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Media uploaded", media)
}

func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	media, err := h.mediaService.GetMedia(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Media loaded", media)
}

func (h *MediaHandler) GetAllMedia(c *gin.Context) {
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	media, total, err := h.mediaService.GetAllMedia(c.Request.Context(), middleware.Identity(c), page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Media loaded", media, page, total)
}

func (h *MediaHandler) GetArticleMedia(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}

	media, err := h.mediaService.GetArticleMedia(c.Request.Context(), middleware.Identity(c), articleID)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Media loaded", media)
}

func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Media deleted", h.Helper.EmptyJsonMap())
}
