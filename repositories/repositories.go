package repositories

import "gorm.io/gorm"

// Repositories bundles every repository over one connection pool.
type Repositories struct {
	Tx           TxRunner
	Authors      AuthorRepository
	Articles     ArticleRepository
	Revisions    RevisionRepository
	Categories   CategoryRepository
	ContentTypes ContentTypeRepository
	Tags         TagRepository
	Comments     CommentRepository
	Media        MediaRepository
	Metrics      MetricsRepository
	Social       SocialIntegrationRepository
	AuditLogs    AuditLogRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tx:           NewTxRunner(db),
		Authors:      NewAuthorRepository(db),
		Articles:     NewArticleRepository(db),
		Revisions:    NewRevisionRepository(db),
		Categories:   NewCategoryRepository(db),
		ContentTypes: NewContentTypeRepository(db),
		Tags:         NewTagRepository(db),
		Comments:     NewCommentRepository(db),
		Media:        NewMediaRepository(db),
		Metrics:      NewMetricsRepository(db),
		Social:       NewSocialIntegrationRepository(db),
		AuditLogs:    NewAuditLogRepository(db),
	}
}
