package handlers

import (
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService, h *helper.HTTPHelper) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: h}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	author, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Register success", author)
}

// Login takes either an OAuth2 password form or a JSON body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBindError(c, err)
		return
	}

	pair, err := h.authService.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Token refreshed", pair)
}

func (h *AuthHandler) Me(c *gin.Context) {
	author := middleware.Identity(c)
	if author == nil {
		h.Helper.SendServiceError(c, models.ErrUnauthenticated)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", author)
}
