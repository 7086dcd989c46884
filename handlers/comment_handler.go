package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService services.CommentService, h *helper.HTTPHelper) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: h}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Comment created", comment)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment loaded", comment)
}

func (h *CommentHandler) GetArticleComments(c *gin.Context) {
	articleID, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	comments, total, err := h.commentService.GetArticleComments(c.Request.Context(), middleware.Identity(c), articleID, page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Comments loaded", comments, page, total)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment updated", comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment deleted", h.Helper.EmptyJsonMap())
}
