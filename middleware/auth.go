package middleware

import (
	"strings"

	"news-portal/helper"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Auth resolves bearer tokens into the calling identity.
type Auth struct {
	authService services.AuthService
	helper      *helper.HTTPHelper
}

func NewAuth(authService services.AuthService, h *helper.HTTPHelper) *Auth {
	return &Auth{authService: authService, helper: h}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// Required rejects the request unless it carries a valid access token.
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			a.helper.SendUnauthorizedError(c, "bearer token required", a.helper.EmptyJsonMap())
			c.Abort()
			return
		}

		author, err := a.authService.ResolveAccessToken(c.Request.Context(), token)
		if err != nil {
			a.helper.SendServiceError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, author)
		c.Next()
	}
}

// Optional resolves a token when present. A missing header means an
// anonymous caller; a bad token is still rejected.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		a.Required()(c)
	}
}

// RequireRole lets only the listed roles through. It must run after Required.
func (a *Auth) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		author := Identity(c)
		if author == nil {
			a.helper.SendUnauthorizedError(c, "authentication required", a.helper.EmptyJsonMap())
			c.Abort()
			return
		}

		for _, role := range roles {
			if author.Role == role {
				c.Next()
				return
			}
		}

		a.helper.SendServiceError(c, models.ErrPermissionDenied)
		c.Abort()
	}
}

// Identity returns the caller set by Required or Optional, or nil.
func Identity(c *gin.Context) *models.Author {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	author, _ := v.(*models.Author)
	return author
}
