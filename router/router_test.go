package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"news-portal/models"
	"news-portal/repositories"
	"news-portal/services"
	"news-portal/storage"
	"news-portal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type response[T any] struct {
	Code        int             `json:"code"`
	CodeMessage json.RawMessage `json:"code_message"`
	CodeType    string          `json:"code_type"`
	Data        T               `json:"data"`
}

type listData[T any] struct {
	Items      []T                    `json:"items"`
	Pagination map[string]interface{} `json:"pagination"`
}

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	repos  *repositories.Repositories

	userToken   string
	editorToken string
	adminToken  string
	userID      uint
	categoryID  uint
}

func (suite *IntegrationTestSuite) SetupTest() {
	cfg := testutil.Config()
	cfg.UploadDir = suite.T().TempDir()

	suite.db = testutil.NewDB(suite.T())
	suite.repos = repositories.NewRepositories(suite.db)

	store, err := storage.NewLocalStore(cfg.UploadDir, "/uploads")
	suite.Require().NoError(err)

	svc := services.NewServices(cfg, suite.repos, store, &testutil.Publisher{}, zap.NewNop())
	suite.router = Setup(cfg, svc, nil, zap.NewNop())

	suite.userToken, suite.userID = suite.registerAndLogin("reader@example.com", "Reader", models.RoleUser)
	suite.editorToken, _ = suite.registerAndLogin("editor@example.com", "Editor", models.RoleEditor)
	suite.adminToken, _ = suite.registerAndLogin("admin@example.com", "Admin", models.RoleAdmin)

	w := suite.do(http.MethodPost, "/api/v1/categories", suite.editorToken, models.CreateCategoryRequest{Name: "Politics"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created response[models.Category]
	suite.decode(w, &created)
	suite.categoryID = created.Data.ID
}

func (suite *IntegrationTestSuite) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *IntegrationTestSuite) registerAndLogin(email, name string, role models.Role) (string, uint) {
	w := suite.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Email: email, Name: name, Password: testutil.Password,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var registered response[models.Author]
	suite.decode(w, &registered)
	id := registered.Data.ID

	if role != models.RoleUser {
		suite.Require().NoError(suite.repos.Authors.Update(context.Background(), id, map[string]interface{}{"role": role}))
	}

	w = suite.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": testutil.Password})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var login response[models.TokenPair]
	suite.decode(w, &login)
	return login.Data.AccessToken, id
}

func (suite *IntegrationTestSuite) createArticle(token, title, status string) models.Article {
	w := suite.do(http.MethodPost, "/api/v1/articles", token, models.CreateArticleRequest{
		Title: title, Content: "<p>" + title + "</p>", CategoryID: suite.categoryID, Status: status,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp response[models.Article]
	suite.decode(w, &resp)
	return resp.Data
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	w := suite.do(http.MethodGet, "/api/v1/auth/me", suite.userToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	var me response[models.Author]
	suite.decode(w, &me)
	suite.Equal("reader@example.com", me.Data.Email)
	suite.NotContains(w.Body.String(), "password")

	// OAuth2 style form login
	form := bytes.NewBufferString("username=reader%40example.com&password=" + "S3cret%21pass")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var login response[models.TokenPair]
	suite.decode(w, &login)
	suite.Equal("bearer", login.Data.TokenType)

	// refresh tokens are not access tokens
	w = suite.do(http.MethodGet, "/api/v1/auth/me", login.Data.RefreshToken, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Bearer", w.Header().Get("WWW-Authenticate"))

	w = suite.do(http.MethodPost, "/api/v1/auth/refresh", "", models.RefreshRequest{RefreshToken: login.Data.RefreshToken})
	suite.Require().Equal(http.StatusOK, w.Code)
	var refreshed response[models.TokenPair]
	suite.decode(w, &refreshed)
	suite.NotEmpty(refreshed.Data.AccessToken)

	w = suite.do(http.MethodPost, "/api/v1/auth/refresh", "", models.RefreshRequest{RefreshToken: login.Data.AccessToken})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestRegisterValidation() {
	w := suite.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Email: "reader@example.com", Name: "Another", Password: testutil.Password,
	})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Email: "weak@example.com", Name: "Weakling", Password: "password",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "not-an-email"})
	suite.Equal(http.StatusBadRequest, w.Code)
	var resp response[map[string]interface{}]
	suite.decode(w, &resp)
	suite.Equal("validationError", resp.CodeType)

	w = suite.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "reader@example.com", "password": "Wr0ng!pass"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestArticleLifecycle() {
	article := suite.createArticle(suite.userToken, "Budget passes", "draft")
	suite.Equal(suite.userID, article.AuthorID)
	suite.Equal(models.StatusDraft, article.Status)

	path := fmt.Sprintf("/api/v1/articles/%d", article.ID)

	// drafts are invisible to the public and to other readers
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, path, "", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, path, suite.userToken, nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, path, suite.editorToken, nil).Code)

	historyPath := fmt.Sprintf("/api/v1/articles/history/%d", article.ID)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, historyPath, "", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, historyPath, suite.userToken, nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, historyPath, suite.editorToken, nil).Code)

	for _, title := range []string{"Budget passes Senate", "Budget passes House"} {
		w := suite.do(http.MethodPut, path, suite.userToken, map[string]string{"title": title})
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	w := suite.do(http.MethodPut, path, suite.userToken, map[string]string{"status": "published"})
	suite.Require().Equal(http.StatusOK, w.Code)
	var published response[models.Article]
	suite.decode(w, &published)
	suite.Equal(models.StatusPublished, published.Data.Status)
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, path, "", nil).Code)

	w = suite.do(http.MethodGet, historyPath, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var history response[[]models.Revision]
	suite.decode(w, &history)
	suite.Len(history.Data, 3)
	suite.Equal(3, history.Data[0].VersionNum)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/articles/history/9999", "", nil).Code)

	w = suite.do(http.MethodGet, "/api/v1/articles?limit=5", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list response[listData[models.Article]]
	suite.decode(w, &list)
	suite.Len(list.Data.Items, 1)
	suite.EqualValues(1, list.Data.Pagination["total_records"])

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/articles?limit=0", "", nil).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/articles?status=archived", "", nil).Code)

	suite.Equal(http.StatusOK, suite.do(http.MethodDelete, path, suite.userToken, nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, path, suite.userToken, nil).Code)
}

func (suite *IntegrationTestSuite) TestPermissions() {
	article := suite.createArticle(suite.editorToken, "Editor piece", "published")
	path := fmt.Sprintf("/api/v1/articles/%d", article.ID)

	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPut, path, "", map[string]string{"title": "x"}).Code)
	suite.Equal(http.StatusForbidden, suite.do(http.MethodPut, path, suite.userToken, map[string]string{"title": "x"}).Code)
	suite.Equal(http.StatusForbidden, suite.do(http.MethodDelete, path, suite.userToken, nil).Code)

	suite.Equal(http.StatusForbidden, suite.do(http.MethodPost, "/api/v1/tags", suite.userToken, models.CreateTagRequest{Name: "mine"}).Code)
	suite.Equal(http.StatusCreated, suite.do(http.MethodPost, "/api/v1/tags", suite.editorToken, models.CreateTagRequest{Name: "mine"}).Code)

	suite.Equal(http.StatusForbidden, suite.do(http.MethodGet, "/api/v1/logs", suite.editorToken, nil).Code)
	w := suite.do(http.MethodGet, "/api/v1/logs?event_type=login", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var logs response[listData[models.AuditLog]]
	suite.decode(w, &logs)
	suite.Len(logs.Data.Items, 3)

	w = suite.do(http.MethodPut, fmt.Sprintf("/api/v1/authors/%d/role", suite.userID), suite.editorToken, models.UpdateRoleRequest{Role: models.RoleAdmin})
	suite.Equal(http.StatusForbidden, w.Code)
	w = suite.do(http.MethodPut, fmt.Sprintf("/api/v1/authors/%d/role", suite.userID), suite.adminToken, models.UpdateRoleRequest{Role: models.RoleEditor})
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestReferentialGuards() {
	suite.createArticle(suite.userToken, "Uses politics", "published")

	w := suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", suite.categoryID), suite.editorToken, nil)
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/articles", suite.userToken, models.CreateArticleRequest{
		Title: "Nowhere", Content: "x", CategoryID: 9999,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/categories/abc", "", nil).Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/categories/9999", "", nil).Code)
}

func (suite *IntegrationTestSuite) TestCommentsAndMetrics() {
	article := suite.createArticle(suite.editorToken, "Open thread", "published")

	w := suite.do(http.MethodPost, "/api/v1/comments", suite.userToken, models.CreateCommentRequest{ArticleID: article.ID, Content: "Nice"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/comments/article/%d", article.ID), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var comments response[listData[models.Comment]]
	suite.decode(w, &comments)
	suite.Len(comments.Data.Items, 1)

	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPost, fmt.Sprintf("/api/v1/metrics/%d/like", article.ID), "", nil).Code)
	suite.Equal(http.StatusOK, suite.do(http.MethodPost, fmt.Sprintf("/api/v1/metrics/%d/like", article.ID), suite.userToken, nil).Code)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/metrics/%d", article.ID), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var metrics response[models.MetricsView]
	suite.decode(w, &metrics)
	suite.Equal(int64(1), metrics.Data.Likes)
	suite.Equal(int64(1), metrics.Data.Comments)
}

func (suite *IntegrationTestSuite) TestMediaUpload() {
	article := suite.createArticle(suite.userToken, "Photo essay", "published")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	suite.Require().NoError(mw.WriteField("article_id", fmt.Sprint(article.ID)))
	part, err := mw.CreateFormFile("file", "photo.gif")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.userToken)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var uploaded response[models.Media]
	suite.decode(w, &uploaded)
	suite.Equal(models.MediaImage, uploaded.Data.MediaType)
	suite.Equal("image/gif", uploaded.Data.MimeType)

	w = suite.do(http.MethodGet, uploaded.Data.URL, "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestHealthAndMetrics() {
	suite.Equal(http.StatusOK, suite.do(http.MethodGet, "/health", "", nil).Code)

	w := suite.do(http.MethodGet, "/metrics", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "news_portal_http_requests_total")

	w = suite.do(http.MethodGet, "/api/v1/roles", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var roles response[[]models.Role]
	suite.decode(w, &roles)
	suite.Equal([]models.Role{models.RoleUser, models.RoleEditor, models.RoleAdmin}, roles.Data)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
