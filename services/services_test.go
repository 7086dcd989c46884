package services

import (
	"context"
	"testing"

	"news-portal/models"
	"news-portal/repositories"
	"news-portal/storage"
	"news-portal/testutil"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceSuite runs services against a fresh sqlite database per test with
// one identity of every role.
type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	db        *gorm.DB
	repos     *repositories.Repositories
	svc       *Services
	publisher *testutil.Publisher

	admin  *models.Author
	editor *models.Author
	alice  *models.Author
	bob    *models.Author

	category *models.Category
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.repos = repositories.NewRepositories(s.db)
	s.publisher = &testutil.Publisher{}

	store, err := storage.NewLocalStore(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)

	s.svc = NewServices(testutil.Config(), s.repos, store, s.publisher, zap.NewNop())

	s.admin = testutil.CreateAuthor(s.T(), s.db, "Admin", models.RoleAdmin)
	s.editor = testutil.CreateAuthor(s.T(), s.db, "Editor", models.RoleEditor)
	s.alice = testutil.CreateAuthor(s.T(), s.db, "Alice", models.RoleUser)
	s.bob = testutil.CreateAuthor(s.T(), s.db, "Bob", models.RoleUser)

	s.category, err = s.svc.Categories.CreateCategory(s.ctx, s.editor, models.CreateCategoryRequest{Name: "World News"})
	s.Require().NoError(err)
}

func (s *ServiceSuite) createArticle(actor *models.Author, title, status string, tagIDs ...uint) *models.Article {
	article, err := s.svc.Articles.CreateArticle(s.ctx, actor, models.CreateArticleRequest{
		Title:      title,
		Content:    "<p>" + title + " body</p>",
		CategoryID: s.category.ID,
		TagIDs:     tagIDs,
		Status:     status,
	})
	s.Require().NoError(err)
	return article
}

func strPtr(v string) *string { return &v }

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
