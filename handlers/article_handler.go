package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created", article)
}

// GetArticles lists published articles for anonymous callers. Signed-in
// callers also see their own drafts; editors and admins see every draft.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var filter models.ArticleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	articles, total, err := h.articleService.GetArticles(c.Request.Context(), middleware.Identity(c), filter, page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Articles loaded", articles, page, total)
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article loaded", article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated", article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article deleted", h.Helper.EmptyJsonMap())
}

func (h *ArticleHandler) GetArticleHistory(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "article_id")
	if !ok {
		return
	}

	revisions, err := h.articleService.GetHistory(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "History loaded", revisions)
}
