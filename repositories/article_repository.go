package repositories

import (
	"context"
	"strings"
	"time"

	"news-portal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleQuery narrows a listing. When Viewer is set, drafts owned by that
// author are returned alongside published articles; AllDrafts lifts the
// restriction entirely.
type ArticleQuery struct {
	Filter    models.ArticleFilter
	Page      models.Page
	Viewer    uint
	AllDrafts bool
}

type ArticleRepository interface {
	WithTx(tx *gorm.DB) ArticleRepository
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context, q ArticleQuery) ([]models.Article, int64, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	NextRevision(ctx context.Context, id uint) (int, error)
	ReplaceTags(ctx context.Context, articleID uint, tagIDs []uint) error
	TagIDs(ctx context.Context, articleID uint) ([]uint, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	CountByContentType(ctx context.Context, contentTypeID uint) (int64, error)
	CountByTag(ctx context.Context, tagID uint) (int64, error)
	CountPublishedByTag(ctx context.Context) (map[uint]int, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) WithTx(tx *gorm.DB) ArticleRepository {
	return &articleRepository{db: tx}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(article).Error)
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("ContentType").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		First(&article, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, q ArticleQuery) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Article{})

	switch {
	case q.AllDrafts:
	case q.Viewer > 0:
		query = query.Where("(articles.published_at IS NOT NULL OR articles.author_id = ?)", q.Viewer)
	default:
		query = query.Where("articles.published_at IS NOT NULL")
	}

	switch q.Filter.Status {
	case string(models.StatusPublished):
		query = query.Where("articles.published_at IS NOT NULL")
	case string(models.StatusDraft):
		query = query.Where("articles.published_at IS NULL")
	}

	if q.Filter.AuthorID > 0 {
		query = query.Where("articles.author_id = ?", q.Filter.AuthorID)
	}
	if q.Filter.CategoryID > 0 {
		query = query.Where("articles.category_id = ?", q.Filter.CategoryID)
	}
	if q.Filter.TagID > 0 {
		query = query.Where("articles.id IN (?)",
			r.db.Model(&models.ArticleTag{}).Select("article_id").Where("tag_id = ?", q.Filter.TagID))
	}
	if q.Filter.Search != "" {
		query = query.Where("LOWER(articles.title) LIKE ?", "%"+strings.ToLower(q.Filter.Search)+"%")
	}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Order("articles.created_at desc").
		Order("articles.id desc").
		Scopes(paginate(q.Page)).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).UpdateColumns(fields).Error
	return translate(err)
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the counter in SQL so concurrent reads never lose
// an increment.
func (r *articleRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// NextRevision atomically increments the per-article revision counter and
// returns the new value. Must run inside the caller's transaction: the row
// lock taken by the UPDATE serialises concurrent writers on the same article.
func (r *articleRepository) NextRevision(ctx context.Context, id uint) (int, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("revision_count", gorm.Expr("revision_count + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, models.ErrNotFound
	}

	var next int
	err := db.Model(&models.Article{}).Where("id = ?", id).Select("revision_count").Scan(&next).Error
	return next, err
}

// ReplaceTags swaps the full tag set of an article for tagIDs.
func (r *articleRepository) ReplaceTags(ctx context.Context, articleID uint, tagIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("article_id = ?", articleID).Delete(&models.ArticleTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	links := make([]models.ArticleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, models.ArticleTag{ArticleID: articleID, TagID: tagID})
	}
	return translate(db.Create(&links).Error)
}

func (r *articleRepository) TagIDs(ctx context.Context, articleID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ArticleTag{}).
		Where("article_id = ?", articleID).
		Order("tag_id asc").
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *articleRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.countWhere(ctx, "author_id = ?", authorID)
}

func (r *articleRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return r.countWhere(ctx, "category_id = ?", categoryID)
}

func (r *articleRepository) CountByContentType(ctx context.Context, contentTypeID uint) (int64, error) {
	return r.countWhere(ctx, "content_type_id = ?", contentTypeID)
}

func (r *articleRepository) CountByTag(ctx context.Context, tagID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ArticleTag{}).Where("tag_id = ?", tagID).Count(&count).Error
	return count, err
}

func (r *articleRepository) countWhere(ctx context.Context, cond string, arg interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Article{}).Where(cond, arg).Count(&count).Error
	return count, err
}

// CountPublishedByTag returns, per tag id, how many published articles use it.
func (r *articleRepository) CountPublishedByTag(ctx context.Context) (map[uint]int, error) {
	var results []struct {
		TagID uint
		Count int
	}

	query := `
		SELECT
			atg.tag_id,
			COUNT(*) as count
		FROM article_tags atg
		JOIN articles a ON atg.article_id = a.id
		WHERE a.published_at IS NOT NULL
		GROUP BY atg.tag_id
	`

	err := r.db.WithContext(ctx).Raw(query).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.TagID] = result.Count
	}

	return counts, nil
}
