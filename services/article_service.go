package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"news-portal/events"
	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"
	"news-portal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ArticleService interface {
	CreateArticle(ctx context.Context, actor *models.Author, req models.CreateArticleRequest) (*models.Article, error)
	// GetArticle returns the article and counts the read. Drafts the actor
	// cannot see are reported as models.ErrNotFound.
	GetArticle(ctx context.Context, actor *models.Author, id uint) (*models.Article, error)
	GetArticles(ctx context.Context, actor *models.Author, filter models.ArticleFilter, page models.Page) ([]models.Article, int64, error)
	UpdateArticle(ctx context.Context, actor *models.Author, id uint, req models.UpdateArticleRequest) (*models.Article, error)
	DeleteArticle(ctx context.Context, actor *models.Author, id uint) error
	// GetHistory lists the article's revisions, newest first.
	GetHistory(ctx context.Context, actor *models.Author, id uint) ([]models.Revision, error)
}

type articleService struct {
	repos        *repositories.Repositories
	store        storage.Store
	publisher    events.Publisher
	sanitizer    *Sanitizer
	maxPageLimit int
	log          *zap.Logger
}

func NewArticleService(repos *repositories.Repositories, store storage.Store, publisher events.Publisher, sanitizer *Sanitizer, maxPageLimit int, log *zap.Logger) ArticleService {
	return &articleService{
		repos:        repos,
		store:        store,
		publisher:    publisher,
		sanitizer:    sanitizer,
		maxPageLimit: maxPageLimit,
		log:          log,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, actor *models.Author, req models.CreateArticleRequest) (*models.Article, error) {
	if actor == nil {
		return nil, models.ErrUnauthenticated
	}

	authorID := actor.ID
	if req.AuthorID != nil && *req.AuthorID != 0 {
		authorID = *req.AuthorID
	}
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindArticle, OwnerID: authorID}); err != nil {
		return nil, err
	}

	content := s.sanitizer.Rich(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is empty", models.ErrInvalidArgument)
	}

	tagIDs := uniqueIDs(req.TagIDs)
	article := &models.Article{
		Title:         req.Title,
		Content:       content,
		Description:   req.Description,
		AuthorID:      authorID,
		CategoryID:    req.CategoryID,
		ContentTypeID: req.ContentTypeID,
	}
	if req.Status == string(models.StatusPublished) {
		now := time.Now()
		article.PublishedAt = &now
	}

	var version int
	err := s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		if authorID != actor.ID {
			if _, err := s.repos.Authors.WithTx(tx).GetByID(ctx, authorID); err != nil {
				return referenceErr(err, "author")
			}
		}
		if err := s.checkReferences(ctx, tx, article.CategoryID, article.ContentTypeID, tagIDs); err != nil {
			return err
		}

		articles := s.repos.Articles.WithTx(tx)
		if err := articles.Create(ctx, article); err != nil {
			return err
		}
		if err := articles.ReplaceTags(ctx, article.ID, tagIDs); err != nil {
			return err
		}

		v, err := s.recordRevision(ctx, tx, article.ID, article.Title, article.Content, models.ActionCreated)
		if err != nil {
			return err
		}
		version = v

		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventArticleCreate, policy.KindArticle, article.ID, article.Title)
	})
	if err != nil {
		return nil, err
	}
	articlesCreatedTotal.Inc()

	created, err := s.repos.Articles.GetByID(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, actor, created, events.ArticleCreated, version)
	if created.IsPublished() {
		s.publish(ctx, actor, created, events.ArticlePublished, version)
	}
	return created, nil
}

func (s *articleService) GetArticle(ctx context.Context, actor *models.Author, id uint) (*models.Article, error) {
	article, err := s.repos.Articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished() && !policy.Sees(actor, article.AuthorID) {
		return nil, models.ErrNotFound
	}

	if err := s.repos.Articles.IncrementViewCount(ctx, id); err != nil {
		s.log.Warn("view count increment failed", zap.Uint("article_id", id), zap.Error(err))
	} else {
		article.ViewCount++
	}
	return article, nil
}

func (s *articleService) GetArticles(ctx context.Context, actor *models.Author, filter models.ArticleFilter, page models.Page) ([]models.Article, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}

	q := repositories.ArticleQuery{Filter: filter, Page: page}
	q.Viewer, q.AllDrafts = draftScope(actor)
	return s.repos.Articles.List(ctx, q)
}

func (s *articleService) UpdateArticle(ctx context.Context, actor *models.Author, id uint, req models.UpdateArticleRequest) (*models.Article, error) {
	if actor == nil {
		return nil, models.ErrUnauthenticated
	}

	var (
		version       int
		contentChange bool
		nowPublished  bool
	)
	err := s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		articles := s.repos.Articles.WithTx(tx)

		current, err := articles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsPublished() && !policy.Sees(actor, current.AuthorID) {
			return models.ErrNotFound
		}
		if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindArticle, OwnerID: current.AuthorID}); err != nil {
			return err
		}

		fields := map[string]interface{}{}
		title, content := current.Title, current.Content

		if req.Title != nil && *req.Title != current.Title {
			title = *req.Title
			fields["title"] = title
			contentChange = true
		}
		if req.Content != nil {
			clean := s.sanitizer.Rich(*req.Content)
			if strings.TrimSpace(clean) == "" {
				return fmt.Errorf("%w: content is empty", models.ErrInvalidArgument)
			}
			if clean != current.Content {
				content = clean
				fields["content"] = content
				contentChange = true
			}
		}
		if req.Description != nil {
			fields["description"] = *req.Description
		}

		categoryID := current.CategoryID
		if req.CategoryID != nil && *req.CategoryID != current.CategoryID {
			categoryID = *req.CategoryID
			fields["category_id"] = categoryID
			contentChange = true
		}
		contentTypeID := current.ContentTypeID
		if req.ContentTypeID != nil {
			if *req.ContentTypeID == 0 {
				contentTypeID = nil
			} else {
				contentTypeID = req.ContentTypeID
			}
			fields["content_type_id"] = contentTypeID
		}

		var tagIDs []uint
		tagsChanged := false
		if req.TagIDs != nil {
			tagIDs = uniqueIDs(*req.TagIDs)
			existing, err := articles.TagIDs(ctx, id)
			if err != nil {
				return err
			}
			tagsChanged = !sameIDs(existing, tagIDs)
			contentChange = contentChange || tagsChanged
		}

		var checkCategory uint
		if _, ok := fields["category_id"]; ok {
			checkCategory = categoryID
		}
		var checkContentType *uint
		if req.ContentTypeID != nil {
			checkContentType = contentTypeID
		}
		var checkTags []uint
		if tagsChanged {
			checkTags = tagIDs
		}
		if err := s.checkReferences(ctx, tx, checkCategory, checkContentType, checkTags); err != nil {
			return err
		}

		if req.Status != nil {
			switch models.ArticleStatus(*req.Status) {
			case models.StatusPublished:
				if !current.IsPublished() {
					fields["published_at"] = time.Now()
					nowPublished = true
				}
			case models.StatusDraft:
				if current.IsPublished() {
					fields["published_at"] = nil
				}
			}
		}

		if err := articles.Update(ctx, id, fields); err != nil {
			return err
		}
		if tagsChanged {
			if err := articles.ReplaceTags(ctx, id, tagIDs); err != nil {
				return err
			}
		}

		if contentChange {
			v, err := s.recordRevision(ctx, tx, id, title, content, models.ActionUpdated)
			if err != nil {
				return err
			}
			version = v
		}

		if len(fields) == 0 && !tagsChanged {
			return nil
		}
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventArticleUpdate, policy.KindArticle, id, changedFields(fields, tagsChanged))
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repos.Articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if contentChange {
		s.publish(ctx, actor, updated, events.ArticleUpdated, version)
	}
	if nowPublished {
		s.publish(ctx, actor, updated, events.ArticlePublished, updated.RevisionCount)
	}
	return updated, nil
}

func (s *articleService) DeleteArticle(ctx context.Context, actor *models.Author, id uint) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}

	var (
		deleted *models.Article
		blobs   []string
	)
	err := s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		articles := s.repos.Articles.WithTx(tx)

		current, err := articles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsPublished() && !policy.Sees(actor, current.AuthorID) {
			return models.ErrNotFound
		}
		if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindArticle, OwnerID: current.AuthorID}); err != nil {
			return err
		}

		media, err := s.repos.Media.WithTx(tx).ListByArticle(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range media {
			blobs = append(blobs, m.StorageKey)
		}

		if err := s.repos.Comments.WithTx(tx).DeleteByArticle(ctx, id); err != nil {
			return err
		}
		if err := s.repos.Media.WithTx(tx).DeleteByArticle(ctx, id); err != nil {
			return err
		}
		if err := s.repos.Revisions.WithTx(tx).DeleteByArticle(ctx, id); err != nil {
			return err
		}
		if err := s.repos.Metrics.WithTx(tx).DeleteByArticle(ctx, id); err != nil {
			return err
		}
		if err := articles.ReplaceTags(ctx, id, nil); err != nil {
			return err
		}
		if err := articles.Delete(ctx, id); err != nil {
			return err
		}

		deleted = current
		return audit(ctx, s.repos.AuditLogs.WithTx(tx), actor, models.EventArticleDelete, policy.KindArticle, id, current.Title)
	})
	if err != nil {
		return err
	}

	for _, key := range blobs {
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("media blob not removed", zap.String("key", key), zap.Error(err))
		}
	}
	s.publish(ctx, actor, deleted, events.ArticleDeleted, deleted.RevisionCount)
	return nil
}

func (s *articleService) GetHistory(ctx context.Context, actor *models.Author, id uint) ([]models.Revision, error) {
	if _, err := visibleArticle(ctx, s.repos.Articles, actor, id); err != nil {
		return nil, err
	}
	return s.repos.Revisions.ListByArticle(ctx, id)
}

// recordRevision appends a snapshot. The version comes from the article's
// counter, incremented in the same transaction, so concurrent writers on
// one article get distinct, gap-free numbers.
func (s *articleService) recordRevision(ctx context.Context, tx *gorm.DB, articleID uint, title, content string, action models.RevisionAction) (int, error) {
	version, err := s.repos.Articles.WithTx(tx).NextRevision(ctx, articleID)
	if err != nil {
		return 0, err
	}

	rev := &models.Revision{
		ArticleID:  articleID,
		VersionNum: version,
		Title:      title,
		Content:    content,
		Action:     action,
		EditedAt:   time.Now(),
	}
	if err := s.repos.Revisions.WithTx(tx).Create(ctx, rev); err != nil {
		return 0, err
	}

	revisionsRecordedTotal.WithLabelValues(string(action)).Inc()
	return version, nil
}

// checkReferences validates foreign keys. Zero categoryID, nil
// contentTypeID and empty tagIDs are skipped.
func (s *articleService) checkReferences(ctx context.Context, tx *gorm.DB, categoryID uint, contentTypeID *uint, tagIDs []uint) error {
	if categoryID != 0 {
		if _, err := s.repos.Categories.WithTx(tx).GetByID(ctx, categoryID); err != nil {
			return referenceErr(err, "category")
		}
	}
	if contentTypeID != nil && *contentTypeID != 0 {
		if _, err := s.repos.ContentTypes.WithTx(tx).GetByID(ctx, *contentTypeID); err != nil {
			return referenceErr(err, "content type")
		}
	}
	if len(tagIDs) > 0 {
		n, err := s.repos.Tags.WithTx(tx).CountByIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		if int(n) != len(tagIDs) {
			return fmt.Errorf("%w: tag", models.ErrReferenceNotFound)
		}
	}
	return nil
}

func (s *articleService) publish(ctx context.Context, actor *models.Author, article *models.Article, name string, version int) {
	evt := events.ArticleEvent{
		Name:       name,
		ArticleID:  article.ID,
		AuthorID:   article.AuthorID,
		Title:      article.Title,
		Version:    version,
		OccurredAt: time.Now().UTC(),
	}
	if actor != nil {
		evt.ActorID = actor.ID
	}
	if name == events.ArticlePublished {
		integrations, err := s.repos.Social.ListActiveByAuthor(ctx, article.AuthorID)
		if err != nil {
			s.log.Warn("load social integrations failed", zap.Uint("author_id", article.AuthorID), zap.Error(err))
		}
		for _, in := range integrations {
			evt.Integrations = append(evt.Integrations, events.Integration{
				Platform:   string(in.Platform),
				AccountRef: in.AccountRef,
			})
		}
	}

	if err := s.publisher.Publish(ctx, evt); err != nil {
		eventsPublishedTotal.WithLabelValues(name, "error").Inc()
		s.log.Warn("event publish failed", zap.String("event", name), zap.Uint("article_id", article.ID), zap.Error(err))
		return
	}
	eventsPublishedTotal.WithLabelValues(name, "ok").Inc()
}

func referenceErr(err error, what string) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: %s", models.ErrReferenceNotFound, what)
	}
	return err
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sameIDs compares two sorted id sets.
func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func changedFields(fields map[string]interface{}, tagsChanged bool) string {
	names := make([]string, 0, len(fields)+1)
	for k := range fields {
		names = append(names, k)
	}
	if tagsChanged {
		names = append(names, "tags")
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}
