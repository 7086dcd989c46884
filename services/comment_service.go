package services

import (
	"context"
	"fmt"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentService interface {
	CreateComment(ctx context.Context, actor *models.Author, req models.CreateCommentRequest) (*models.Comment, error)
	GetComment(ctx context.Context, actor *models.Author, id uint) (*models.Comment, error)
	// GetArticleComments lists comments oldest first.
	GetArticleComments(ctx context.Context, actor *models.Author, articleID uint, page models.Page) ([]models.Comment, int64, error)
	UpdateComment(ctx context.Context, actor *models.Author, id uint, req models.UpdateCommentRequest) (*models.Comment, error)
	// DeleteComment removes the comment together with all of its replies.
	DeleteComment(ctx context.Context, actor *models.Author, id uint) error
}

type commentService struct {
	repos        *repositories.Repositories
	sanitizer    *Sanitizer
	maxPageLimit int
	log          *zap.Logger
}

func NewCommentService(repos *repositories.Repositories, sanitizer *Sanitizer, maxPageLimit int, log *zap.Logger) CommentService {
	return &commentService{repos: repos, sanitizer: sanitizer, maxPageLimit: maxPageLimit, log: log}
}

// visibleArticle loads an article and hides drafts the actor cannot see.
func visibleArticle(ctx context.Context, repo repositories.ArticleRepository, actor *models.Author, id uint) (*models.Article, error) {
	article, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished() && !policy.Sees(actor, article.AuthorID) {
		return nil, models.ErrNotFound
	}
	return article, nil
}

// draftScope tells list queries which drafts the actor may see: its own
// (viewer), all of them (editors and admins) or none.
func draftScope(actor *models.Author) (viewer uint, all bool) {
	if actor == nil || !actor.IsActive {
		return 0, false
	}
	switch actor.Role {
	case models.RoleAdmin, models.RoleEditor:
		return 0, true
	}
	return actor.ID, false
}

// visibleComment loads a comment whose article the actor can see.
func visibleComment(ctx context.Context, comments repositories.CommentRepository, articles repositories.ArticleRepository, actor *models.Author, id uint) (*models.Comment, error) {
	comment, err := comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := visibleArticle(ctx, articles, actor, comment.ArticleID); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor *models.Author, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindComment, OwnerID: actorID(actor)}); err != nil {
		return nil, err
	}

	content := s.sanitizer.Plain(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is empty", models.ErrInvalidArgument)
	}

	comment := &models.Comment{
		Content:   content,
		ArticleID: req.ArticleID,
		AuthorID:  actor.ID,
	}

	err := s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := visibleArticle(ctx, s.repos.Articles.WithTx(tx), actor, req.ArticleID); err != nil {
			return referenceErr(err, "article")
		}

		if req.ParentID != nil && *req.ParentID != 0 {
			parent, err := s.repos.Comments.WithTx(tx).GetByID(ctx, *req.ParentID)
			if err != nil {
				return referenceErr(err, "parent comment")
			}
			if parent.ArticleID != req.ArticleID {
				return fmt.Errorf("%w: parent comment belongs to another article", models.ErrInvalidArgument)
			}
			comment.ParentID = &parent.ID
		}

		return s.repos.Comments.WithTx(tx).Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) GetComment(ctx context.Context, actor *models.Author, id uint) (*models.Comment, error) {
	return visibleComment(ctx, s.repos.Comments, s.repos.Articles, actor, id)
}

func (s *commentService) GetArticleComments(ctx context.Context, actor *models.Author, articleID uint, page models.Page) ([]models.Comment, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	if _, err := visibleArticle(ctx, s.repos.Articles, actor, articleID); err != nil {
		return nil, 0, err
	}
	return s.repos.Comments.ListByArticle(ctx, articleID, page)
}

func (s *commentService) UpdateComment(ctx context.Context, actor *models.Author, id uint, req models.UpdateCommentRequest) (*models.Comment, error) {
	if actor == nil {
		return nil, models.ErrUnauthenticated
	}

	comment, err := visibleComment(ctx, s.repos.Comments, s.repos.Articles, actor, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindComment, OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}

	content := s.sanitizer.Plain(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is empty", models.ErrInvalidArgument)
	}
	if err := s.repos.Comments.Update(ctx, id, map[string]interface{}{"content": content}); err != nil {
		return nil, err
	}
	return s.repos.Comments.GetByID(ctx, id)
}

func (s *commentService) DeleteComment(ctx context.Context, actor *models.Author, id uint) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}

	return s.repos.Tx.Transaction(ctx, func(tx *gorm.DB) error {
		comments := s.repos.Comments.WithTx(tx)

		comment, err := visibleComment(ctx, comments, s.repos.Articles.WithTx(tx), actor, id)
		if err != nil {
			return err
		}
		if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindComment, OwnerID: comment.AuthorID}); err != nil {
			return err
		}

		n, err := comments.DeleteSubtree(ctx, id)
		if err != nil {
			return err
		}
		s.log.Debug("comment subtree deleted", zap.Uint("comment_id", id), zap.Int64("rows", n))
		return nil
	})
}

func actorID(actor *models.Author) uint {
	if actor == nil {
		return 0
	}
	return actor.ID
}
