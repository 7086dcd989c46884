// Package router wires handlers and middleware onto a gin engine.
package router

import (
	"net/http"

	"news-portal/config"
	"news-portal/handlers"
	"news-portal/helper"
	"news-portal/middleware"
	"news-portal/models"
	"news-portal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Setup builds the engine. rdb may be nil, in which case the auth routes
// are rate limited in process.
func Setup(cfg *config.Config, svc *services.Services, rdb redis.Scripter, log *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	h := helper.NewHTTPHelper(log, cfg.DefaultPageLimit)
	auth := middleware.NewAuth(svc.Auth, h)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(svc.Auth, h)
	articleHandler := handlers.NewArticleHandler(svc.Articles, h)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, h)
	tagHandler := handlers.NewTagHandler(svc.Tags, h)
	contentTypeHandler := handlers.NewContentTypeHandler(svc.ContentTypes, h)
	commentHandler := handlers.NewCommentHandler(svc.Comments, h)
	mediaHandler := handlers.NewMediaHandler(svc.Media, cfg.MaxUploadBytes, h)
	authorHandler := handlers.NewAuthorHandler(svc.Authors, h)
	metricsHandler := handlers.NewMetricsHandler(svc.Metrics, h)
	socialHandler := handlers.NewSocialIntegrationHandler(svc.Social, h)
	auditHandler := handlers.NewAuditLogHandler(svc.AuditLogs, h)

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.MediaBackend == "local" {
		router.Static("/uploads", cfg.UploadDir)
	}

	limit := func(string) gin.HandlerFunc {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.RateLimitEnabled {
		limit = middleware.NewRateLimiter(cfg, rdb, h, log).Limit
	}

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", limit("register"), authHandler.Register)
			authRoutes.POST("/login", limit("login"), authHandler.Login)
			authRoutes.POST("/refresh", limit("refresh"), authHandler.Refresh)
			authRoutes.GET("/me", auth.Required(), authHandler.Me)
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", auth.Optional(), articleHandler.GetArticles)
			articles.GET("/history/:article_id", auth.Optional(), articleHandler.GetArticleHistory)
			articles.GET("/:id", auth.Optional(), articleHandler.GetArticle)
			articles.POST("", auth.Required(), articleHandler.CreateArticle)
			articles.PUT("/:id", auth.Required(), articleHandler.UpdateArticle)
			articles.DELETE("/:id", auth.Required(), articleHandler.DeleteArticle)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", auth.Required(), categoryHandler.CreateCategory)
			categories.PUT("/:id", auth.Required(), categoryHandler.UpdateCategory)
			categories.DELETE("/:id", auth.Required(), categoryHandler.DeleteCategory)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", tagHandler.GetTags)
			tags.GET("/:id", tagHandler.GetTag)
			tags.POST("", auth.Required(), tagHandler.CreateTag)
			tags.PUT("/:id", auth.Required(), tagHandler.UpdateTag)
			tags.DELETE("/:id", auth.Required(), tagHandler.DeleteTag)
		}

		contentTypes := v1.Group("/content-types")
		{
			contentTypes.GET("", contentTypeHandler.GetContentTypes)
			contentTypes.GET("/:id", contentTypeHandler.GetContentType)
			contentTypes.POST("", auth.Required(), contentTypeHandler.CreateContentType)
			contentTypes.PUT("/:id", auth.Required(), contentTypeHandler.UpdateContentType)
			contentTypes.DELETE("/:id", auth.Required(), contentTypeHandler.DeleteContentType)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/article/:article_id", auth.Optional(), commentHandler.GetArticleComments)
			comments.GET("/:id", auth.Optional(), commentHandler.GetComment)
			comments.POST("", auth.Required(), commentHandler.CreateComment)
			comments.PUT("/:id", auth.Required(), commentHandler.UpdateComment)
			comments.DELETE("/:id", auth.Required(), commentHandler.DeleteComment)
		}

		media := v1.Group("/media")
		{
			media.GET("", auth.Optional(), mediaHandler.GetAllMedia)
			media.GET("/article/:article_id", auth.Optional(), mediaHandler.GetArticleMedia)
			media.GET("/:id", auth.Optional(), mediaHandler.GetMedia)
			media.POST("/upload", auth.Required(), mediaHandler.UploadMedia)
			media.DELETE("/:id", auth.Required(), mediaHandler.DeleteMedia)
		}

		v1.GET("/roles", authorHandler.ListRoles)

		authors := v1.Group("/authors")
		{
			authors.GET("", authorHandler.GetAuthors)
			authors.GET("/:id", authorHandler.GetAuthor)
			authors.POST("", auth.Required(), authorHandler.CreateAuthor)
			authors.PUT("/:id", auth.Required(), authorHandler.UpdateAuthor)
			authors.PUT("/:id/role", auth.Required(), authorHandler.UpdateRole)
			authors.DELETE("/:id", auth.Required(), authorHandler.DeleteAuthor)
		}

		metrics := v1.Group("/metrics")
		{
			metrics.GET("", auth.Required(), metricsHandler.ListMetrics)
			metrics.GET("/:article_id", auth.Optional(), metricsHandler.GetMetrics)
			metrics.POST("/:article_id/like", auth.Required(), metricsHandler.Like)
			metrics.POST("/:article_id/share", auth.Required(), metricsHandler.Share)
			metrics.DELETE("/:article_id", auth.Required(), metricsHandler.Reset)
		}

		social := v1.Group("/social-integrations", auth.Required())
		{
			social.GET("", socialHandler.ListIntegrations)
			social.GET("/:id", socialHandler.GetIntegration)
			social.POST("", socialHandler.CreateIntegration)
			social.PUT("/:id", socialHandler.UpdateIntegration)
			social.DELETE("/:id", socialHandler.DeleteIntegration)
		}

		logs := v1.Group("/logs", auth.Required(), auth.RequireRole(models.RoleAdmin))
		{
			logs.GET("", auditHandler.ListLogs)
			logs.GET("/:id", auditHandler.GetLog)
			logs.DELETE("/:id", auditHandler.DeleteLog)
		}
	}

	return router
}
