package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type AuthorHandler struct {
	authorService services.AuthorService
	Helper        *helper.HTTPHelper
}

func NewAuthorHandler(authorService services.AuthorService, h *helper.HTTPHelper) *AuthorHandler {
	return &AuthorHandler{authorService: authorService, Helper: h}
}

func (h *AuthorHandler) ListRoles(c *gin.Context) {
	h.Helper.SendSuccess(c, "Roles loaded", models.Roles)
}

func (h *AuthorHandler) GetAuthors(c *gin.Context) {
	page, err := h.Helper.GetPage(c)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	authors, total, err := h.authorService.GetAuthors(c.Request.Context(), page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendList(c, "Authors loaded", authors, page, total)
}

func (h *AuthorHandler) GetAuthor(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	author, err := h.authorService.GetAuthor(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Author loaded", author)
}

func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req models.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	author, err := h.authorService.CreateAuthor(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Author created", author)
}

func (h *AuthorHandler) UpdateAuthor(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	author, err := h.authorService.UpdateAuthor(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Author updated", author)
}

func (h *AuthorHandler) UpdateRole(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	author, err := h.authorService.UpdateRole(c.Request.Context(), middleware.Identity(c), id, req.Role)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Role updated", author)
}

func (h *AuthorHandler) DeleteAuthor(c *gin.Context) {
	id, ok := h.Helper.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.authorService.DeleteAuthor(c.Request.Context(), middleware.Identity(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Author deleted", h.Helper.EmptyJsonMap())
}
