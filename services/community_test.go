package services

import (
	"bytes"
	"strings"
	"time"

	"news-portal/models"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func (s *ServiceSuite) TestCommentThreads() {
	article := s.createArticle(s.alice, "Discuss", "published")
	other := s.createArticle(s.alice, "Elsewhere", "published")

	root, err := s.svc.Comments.CreateComment(s.ctx, s.bob, models.CreateCommentRequest{ArticleID: article.ID, Content: "<b>bold</b> take"})
	s.Require().NoError(err)
	s.Equal("bold take", root.Content)

	reply, err := s.svc.Comments.CreateComment(s.ctx, s.alice, models.CreateCommentRequest{ArticleID: article.ID, Content: "reply", ParentID: &root.ID})
	s.Require().NoError(err)
	s.Equal(root.ID, *reply.ParentID)

	_, err = s.svc.Comments.CreateComment(s.ctx, s.alice, models.CreateCommentRequest{ArticleID: other.ID, Content: "wrong thread", ParentID: &root.ID})
	s.ErrorIs(err, models.ErrInvalidArgument)

	_, err = s.svc.Comments.CreateComment(s.ctx, s.alice, models.CreateCommentRequest{ArticleID: article.ID, Content: "<script></script>"})
	s.ErrorIs(err, models.ErrInvalidArgument)

	_, err = s.svc.Comments.CreateComment(s.ctx, nil, models.CreateCommentRequest{ArticleID: article.ID, Content: "anon"})
	s.ErrorIs(err, models.ErrUnauthenticated)

	_, err = s.svc.Comments.UpdateComment(s.ctx, s.alice, root.ID, models.UpdateCommentRequest{Content: "hijack"})
	s.ErrorIs(err, models.ErrPermissionDenied)

	// deleting the root takes the reply with it
	s.Require().NoError(s.svc.Comments.DeleteComment(s.ctx, s.bob, root.ID))
	_, err = s.svc.Comments.GetComment(s.ctx, s.bob, reply.ID)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *ServiceSuite) TestCommentsOnDraftsAreHidden() {
	draft := s.createArticle(s.alice, "Hidden", "draft")

	_, err := s.svc.Comments.CreateComment(s.ctx, s.bob, models.CreateCommentRequest{ArticleID: draft.ID, Content: "peek"})
	s.ErrorIs(err, models.ErrReferenceNotFound)

	_, _, err = s.svc.Comments.GetArticleComments(s.ctx, s.bob, draft.ID, models.Page{Limit: 10})
	s.ErrorIs(err, models.ErrNotFound)

	note, err := s.svc.Comments.CreateComment(s.ctx, s.alice, models.CreateCommentRequest{ArticleID: draft.ID, Content: "note to self"})
	s.Require().NoError(err)

	_, err = s.svc.Comments.GetComment(s.ctx, nil, note.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Comments.GetComment(s.ctx, s.bob, note.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Comments.GetComment(s.ctx, s.editor, note.ID)
	s.NoError(err)

	// hidden, so not found rather than forbidden
	_, err = s.svc.Comments.UpdateComment(s.ctx, s.bob, note.ID, models.UpdateCommentRequest{Content: "edit"})
	s.ErrorIs(err, models.ErrNotFound)
	s.ErrorIs(s.svc.Comments.DeleteComment(s.ctx, s.bob, note.ID), models.ErrNotFound)

	edited, err := s.svc.Comments.UpdateComment(s.ctx, s.editor, note.ID, models.UpdateCommentRequest{Content: "edit"})
	s.Require().NoError(err)
	s.Equal("edit", edited.Content)
}

func (s *ServiceSuite) TestAuthorManagement() {
	created, err := s.svc.Authors.CreateAuthor(s.ctx, s.admin, models.CreateAuthorRequest{
		Email: "dave@example.com", Name: "Dave", Password: "S3cret!pass", Role: models.RoleEditor,
	})
	s.Require().NoError(err)
	s.Equal(models.RoleEditor, created.Role)
	s.Require().NotNil(created.CreatedByID)
	s.Equal(s.admin.ID, *created.CreatedByID)

	_, err = s.svc.Authors.CreateAuthor(s.ctx, s.editor, models.CreateAuthorRequest{
		Email: "erin@example.com", Name: "Erin", Password: "S3cret!pass",
	})
	s.ErrorIs(err, models.ErrPermissionDenied)

	_, err = s.svc.Authors.UpdateAuthor(s.ctx, s.alice, s.bob.ID, models.UpdateAuthorRequest{Bio: strPtr("not mine")})
	s.ErrorIs(err, models.ErrPermissionDenied)

	updated, err := s.svc.Authors.UpdateAuthor(s.ctx, s.alice, s.alice.ID, models.UpdateAuthorRequest{Bio: strPtr("reporter")})
	s.Require().NoError(err)
	s.Equal("reporter", updated.Bio)

	_, err = s.svc.Authors.UpdateAuthor(s.ctx, s.alice, s.alice.ID, models.UpdateAuthorRequest{Name: strPtr("Bob")})
	s.ErrorIs(err, models.ErrDuplicateIdentity)

	inactive := false
	_, err = s.svc.Authors.UpdateAuthor(s.ctx, s.alice, s.alice.ID, models.UpdateAuthorRequest{IsActive: &inactive})
	s.ErrorIs(err, models.ErrPermissionDenied)

	promoted, err := s.svc.Authors.UpdateRole(s.ctx, s.admin, s.bob.ID, models.RoleEditor)
	s.Require().NoError(err)
	s.Equal(models.RoleEditor, promoted.Role)

	_, err = s.svc.Authors.UpdateRole(s.ctx, s.editor, s.alice.ID, models.RoleAdmin)
	s.ErrorIs(err, models.ErrPermissionDenied)

	logs, total, err := s.svc.AuditLogs.List(s.ctx, s.admin, models.AuditLogFilter{EventType: string(models.EventRoleChange)}, models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("user -> editor", logs[0].Details)
}

func (s *ServiceSuite) TestDeleteAuthor() {
	s.createArticle(s.alice, "Keeps Alice around", "published")
	target := s.createArticle(s.alice, "Target", "published")

	_, err := s.svc.Comments.CreateComment(s.ctx, s.bob, models.CreateCommentRequest{ArticleID: target.ID, Content: "bye"})
	s.Require().NoError(err)

	s.ErrorIs(s.svc.Authors.DeleteAuthor(s.ctx, s.admin, s.alice.ID), models.ErrConflict)
	s.ErrorIs(s.svc.Authors.DeleteAuthor(s.ctx, s.admin, s.admin.ID), models.ErrInvalidArgument)
	s.ErrorIs(s.svc.Authors.DeleteAuthor(s.ctx, s.editor, s.bob.ID), models.ErrPermissionDenied)

	s.Require().NoError(s.svc.Authors.DeleteAuthor(s.ctx, s.admin, s.bob.ID))
	_, err = s.svc.Authors.GetAuthor(s.ctx, s.bob.ID)
	s.ErrorIs(err, models.ErrNotFound)

	comments, total, err := s.svc.Comments.GetArticleComments(s.ctx, nil, target.ID, models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(comments)
}

func (s *ServiceSuite) upload(actor *models.Author, articleID uint) *models.Media {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	media, err := s.svc.Media.UploadMedia(s.ctx, actor, models.UploadMediaRequest{ArticleID: articleID}, Upload{
		Filename: "photo.png", Size: int64(len(body)), Body: bytes.NewReader(body),
	})
	s.Require().NoError(err)
	return media
}

func (s *ServiceSuite) TestDeleteAuthorWithUploads() {
	article := s.createArticle(s.alice, "Illustrated", "published")
	s.upload(s.editor, article.ID)

	s.ErrorIs(s.svc.Authors.DeleteAuthor(s.ctx, s.admin, s.editor.ID), models.ErrConflict)
	_, err := s.svc.Authors.GetAuthor(s.ctx, s.editor.ID)
	s.NoError(err)
}

func (s *ServiceSuite) TestMediaOnDraftsIsHidden() {
	published := s.createArticle(s.alice, "Out", "published")
	draft := s.createArticle(s.alice, "In progress", "draft")
	s.upload(s.alice, published.ID)
	hidden := s.upload(s.alice, draft.ID)

	_, err := s.svc.Media.GetMedia(s.ctx, nil, hidden.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Media.GetMedia(s.ctx, s.bob, hidden.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Media.GetMedia(s.ctx, s.alice, hidden.ID)
	s.NoError(err)

	totals := map[string]struct {
		actor *models.Author
		want  int64
	}{
		"anonymous": {nil, 1},
		"stranger":  {s.bob, 1},
		"owner":     {s.alice, 2},
		"editor":    {s.editor, 2},
	}
	for name, tc := range totals {
		list, total, err := s.svc.Media.GetAllMedia(s.ctx, tc.actor, models.Page{Limit: 10})
		s.Require().NoError(err, name)
		s.Equal(tc.want, total, name)
		s.Len(list, int(tc.want), name)
	}

	s.ErrorIs(s.svc.Media.DeleteMedia(s.ctx, s.bob, hidden.ID), models.ErrNotFound)
	s.Require().NoError(s.svc.Media.DeleteMedia(s.ctx, s.alice, hidden.ID))
}

func (s *ServiceSuite) TestMediaLifecycle() {
	article := s.createArticle(s.alice, "Pictures", "published")

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)
	media, err := s.svc.Media.UploadMedia(s.ctx, s.alice, models.UploadMediaRequest{ArticleID: article.ID, Description: "cover"}, Upload{
		Filename: "cover.png",
		Size:     int64(len(body)),
		Body:     bytes.NewReader(body),
	})
	s.Require().NoError(err)
	s.Equal(models.MediaImage, media.MediaType)
	s.Equal("image/png", media.MimeType)
	s.True(strings.HasPrefix(media.URL, "/uploads/articles/"))

	_, err = s.svc.Media.UploadMedia(s.ctx, s.bob, models.UploadMediaRequest{ArticleID: article.ID}, Upload{
		Filename: "x.png", Size: int64(len(body)), Body: bytes.NewReader(body),
	})
	s.ErrorIs(err, models.ErrPermissionDenied)

	list, err := s.svc.Media.GetArticleMedia(s.ctx, nil, article.ID)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.ErrorIs(s.svc.Media.DeleteMedia(s.ctx, s.bob, media.ID), models.ErrPermissionDenied)
	s.Require().NoError(s.svc.Media.DeleteMedia(s.ctx, s.alice, media.ID))
	_, err = s.svc.Media.GetMedia(s.ctx, s.alice, media.ID)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *ServiceSuite) TestMetrics() {
	article := s.createArticle(s.alice, "Counted", "published")

	_, err := s.svc.Metrics.Like(s.ctx, nil, article.ID)
	s.ErrorIs(err, models.ErrUnauthenticated)

	_, err = s.svc.Metrics.Like(s.ctx, s.bob, article.ID)
	s.Require().NoError(err)
	view, err := s.svc.Metrics.Share(s.ctx, s.bob, article.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), view.Likes)
	s.Equal(int64(1), view.Shares)

	_, err = s.svc.Articles.GetArticle(s.ctx, nil, article.ID)
	s.Require().NoError(err)
	view, err = s.svc.Metrics.GetMetrics(s.ctx, nil, article.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), view.Views)

	s.ErrorIs(s.svc.Metrics.Reset(s.ctx, s.editor, article.ID), models.ErrPermissionDenied)
	s.Require().NoError(s.svc.Metrics.Reset(s.ctx, s.admin, article.ID))
	view, err = s.svc.Metrics.GetMetrics(s.ctx, nil, article.ID)
	s.Require().NoError(err)
	s.Zero(view.Likes)
}

func (s *ServiceSuite) TestSocialIntegrations() {
	mine, err := s.svc.Social.CreateIntegration(s.ctx, s.alice, models.CreateSocialIntegrationRequest{
		Platform: models.PlatformTelegram, AccountRef: "@alice_news",
	})
	s.Require().NoError(err)
	s.Equal(s.alice.ID, mine.AuthorID)

	bobID := s.bob.ID
	_, err = s.svc.Social.CreateIntegration(s.ctx, s.alice, models.CreateSocialIntegrationRequest{
		AuthorID: &bobID, Platform: models.PlatformTwitter, AccountRef: "@bob",
	})
	s.ErrorIs(err, models.ErrPermissionDenied)

	_, err = s.svc.Social.GetIntegration(s.ctx, s.bob, mine.ID)
	s.ErrorIs(err, models.ErrNotFound)

	_, err = s.svc.Social.GetIntegration(s.ctx, s.admin, mine.ID)
	s.NoError(err)

	article := s.createArticle(s.alice, "Cross-posted", "published")
	s.NotZero(article.ID)
	evts := s.publisher.Events()
	last := evts[len(evts)-1]
	s.Equal("article.published", last.Name)
	s.Require().Len(last.Integrations, 1)
	s.Equal("@alice_news", last.Integrations[0].AccountRef)
}

func (s *ServiceSuite) TestAuditLogAccess() {
	s.createArticle(s.alice, "Audited", "draft")

	_, _, err := s.svc.AuditLogs.List(s.ctx, s.editor, models.AuditLogFilter{}, models.Page{Limit: 10})
	s.ErrorIs(err, models.ErrPermissionDenied)

	logs, total, err := s.svc.AuditLogs.List(s.ctx, s.admin, models.AuditLogFilter{EventType: string(models.EventArticleCreate)}, models.Page{Limit: 10})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(s.alice.ID, *logs[0].UserID)

	purged, err := s.svc.AuditLogs.Purge(s.ctx, -time.Hour)
	s.Require().NoError(err)
	s.GreaterOrEqual(purged, int64(1))
}
