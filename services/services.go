package services

import (
	"news-portal/config"
	"news-portal/events"
	"news-portal/repositories"
	"news-portal/storage"

	"go.uber.org/zap"
)

// Services is every domain service wired over one set of repositories.
type Services struct {
	Tokens       TokenService
	Auth         AuthService
	Articles     ArticleService
	Categories   CategoryService
	Tags         TagService
	ContentTypes ContentTypeService
	Comments     CommentService
	Media        MediaService
	Authors      AuthorService
	Metrics      MetricsService
	Social       SocialIntegrationService
	AuditLogs    AuditLogService
}

func NewServices(cfg *config.Config, repos *repositories.Repositories, store storage.Store, publisher events.Publisher, log *zap.Logger) *Services {
	sanitizer := NewSanitizer()
	tokens := NewTokenService(cfg)
	limit := cfg.MaxPageLimit

	return &Services{
		Tokens:       tokens,
		Auth:         NewAuthService(cfg, repos.Authors, repos.AuditLogs, tokens, log),
		Articles:     NewArticleService(repos, store, publisher, sanitizer, limit, log),
		Categories:   NewCategoryService(repos, limit, log),
		Tags:         NewTagService(repos, limit, log),
		ContentTypes: NewContentTypeService(repos, limit),
		Comments:     NewCommentService(repos, sanitizer, limit, log),
		Media:        NewMediaService(repos, store, cfg.MaxUploadBytes, limit, log),
		Authors:      NewAuthorService(repos, cfg.BcryptCost, limit, log),
		Metrics:      NewMetricsService(repos, limit),
		Social:       NewSocialIntegrationService(repos, limit),
		AuditLogs:    NewAuditLogService(repos.AuditLogs, limit, log),
	}
}
