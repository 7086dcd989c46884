package services

import (
	"errors"

	"news-portal/events"
	"news-portal/models"
)

func (s *ServiceSuite) TestRevisionLedger() {
	article := s.createArticle(s.alice, "First title", "draft")
	s.Equal(1, article.RevisionCount)
	s.Equal(models.StatusDraft, article.Status)

	titles := []string{"Second title", "Third title", "Fourth title"}
	for _, title := range titles {
		_, err := s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{Title: strPtr(title)})
		s.Require().NoError(err)
	}

	history, err := s.svc.Articles.GetHistory(s.ctx, s.alice, article.ID)
	s.Require().NoError(err)
	s.Require().Len(history, len(titles)+1)

	// newest first, gap-free down to the creation snapshot
	for i, rev := range history {
		s.Equal(len(history)-i, rev.VersionNum)
	}
	s.Equal("Fourth title", history[0].Title)
	s.Equal(models.ActionUpdated, history[0].Action)
	s.Equal("First title", history[len(history)-1].Title)
	s.Equal(models.ActionCreated, history[len(history)-1].Action)
}

func (s *ServiceSuite) TestStatusChangeRecordsNoRevision() {
	article := s.createArticle(s.alice, "Quiet", "draft")

	updated, err := s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{Status: strPtr("published")})
	s.Require().NoError(err)
	s.Equal(models.StatusPublished, updated.Status)
	s.Require().NotNil(updated.PublishedAt)
	stamp := *updated.PublishedAt

	again, err := s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{Status: strPtr("published")})
	s.Require().NoError(err)
	s.True(stamp.Equal(*again.PublishedAt), "republishing keeps the first stamp")

	drafted, err := s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{Status: strPtr("draft")})
	s.Require().NoError(err)
	s.Nil(drafted.PublishedAt)

	history, err := s.svc.Articles.GetHistory(s.ctx, s.alice, article.ID)
	s.Require().NoError(err)
	s.Len(history, 1)

	s.Equal([]string{events.ArticleCreated, events.ArticlePublished}, s.publisher.Names())
}

func (s *ServiceSuite) TestTagChangeRecordsRevision() {
	go1, err := s.svc.Tags.CreateTag(s.ctx, s.editor, models.CreateTagRequest{Name: "go"})
	s.Require().NoError(err)
	db, err := s.svc.Tags.CreateTag(s.ctx, s.editor, models.CreateTagRequest{Name: "databases"})
	s.Require().NoError(err)

	article := s.createArticle(s.alice, "Tagged", "published", go1.ID, go1.ID)
	s.Len(article.Tags, 1)

	same := []uint{go1.ID}
	_, err = s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{TagIDs: &same})
	s.Require().NoError(err)

	both := []uint{db.ID, go1.ID}
	updated, err := s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{TagIDs: &both})
	s.Require().NoError(err)
	s.Len(updated.Tags, 2)
	s.Equal(2, updated.RevisionCount)

	missing := []uint{go1.ID, 9999}
	_, err = s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{TagIDs: &missing})
	s.ErrorIs(err, models.ErrReferenceNotFound)
}

func (s *ServiceSuite) TestArticleOwnership() {
	article := s.createArticle(s.alice, "Alice writes", "published")

	_, err := s.svc.Articles.UpdateArticle(s.ctx, s.bob, article.ID, models.UpdateArticleRequest{Title: strPtr("Bob was here")})
	s.ErrorIs(err, models.ErrPermissionDenied)

	err = s.svc.Articles.DeleteArticle(s.ctx, s.bob, article.ID)
	s.ErrorIs(err, models.ErrPermissionDenied)

	_, err = s.svc.Articles.UpdateArticle(s.ctx, s.editor, article.ID, models.UpdateArticleRequest{Title: strPtr("Edited")})
	s.NoError(err)

	_, err = s.svc.Articles.UpdateArticle(s.ctx, nil, article.ID, models.UpdateArticleRequest{Title: strPtr("Anon")})
	s.ErrorIs(err, models.ErrUnauthenticated)

	bobID := s.bob.ID
	_, err = s.svc.Articles.CreateArticle(s.ctx, s.alice, models.CreateArticleRequest{
		Title: "Ghost", Content: "x", CategoryID: s.category.ID, AuthorID: &bobID,
	})
	s.ErrorIs(err, models.ErrPermissionDenied)

	onBehalf, err := s.svc.Articles.CreateArticle(s.ctx, s.editor, models.CreateArticleRequest{
		Title: "Ghost", Content: "x", CategoryID: s.category.ID, AuthorID: &bobID,
	})
	s.Require().NoError(err)
	s.Equal(s.bob.ID, onBehalf.AuthorID)
}

func (s *ServiceSuite) TestDraftVisibility() {
	draft := s.createArticle(s.alice, "Secret", "draft")
	s.createArticle(s.alice, "Public", "published")

	_, err := s.svc.Articles.GetArticle(s.ctx, s.bob, draft.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Articles.GetArticle(s.ctx, nil, draft.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Articles.UpdateArticle(s.ctx, s.bob, draft.ID, models.UpdateArticleRequest{Title: strPtr("x")})
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Articles.GetHistory(s.ctx, nil, draft.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Articles.GetHistory(s.ctx, s.bob, draft.ID)
	s.ErrorIs(err, models.ErrNotFound)

	history, err := s.svc.Articles.GetHistory(s.ctx, s.editor, draft.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("Secret", history[0].Title)

	got, err := s.svc.Articles.GetArticle(s.ctx, s.alice, draft.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), got.ViewCount)

	_, err = s.svc.Articles.GetArticle(s.ctx, s.editor, draft.ID)
	s.NoError(err)

	page := models.Page{Limit: 10}
	_, total, err := s.svc.Articles.GetArticles(s.ctx, nil, models.ArticleFilter{}, page)
	s.Require().NoError(err)
	s.Equal(int64(1), total)

	_, total, err = s.svc.Articles.GetArticles(s.ctx, s.alice, models.ArticleFilter{}, page)
	s.Require().NoError(err)
	s.Equal(int64(2), total)

	_, total, err = s.svc.Articles.GetArticles(s.ctx, s.bob, models.ArticleFilter{Status: "draft"}, page)
	s.Require().NoError(err)
	s.Equal(int64(0), total)

	_, _, err = s.svc.Articles.GetArticles(s.ctx, nil, models.ArticleFilter{}, models.Page{Limit: 1000})
	s.ErrorIs(err, models.ErrInvalidArgument)
}

func (s *ServiceSuite) TestCreateArticleChecksReferences() {
	_, err := s.svc.Articles.CreateArticle(s.ctx, s.alice, models.CreateArticleRequest{
		Title: "Orphan", Content: "x", CategoryID: 9999,
	})
	s.ErrorIs(err, models.ErrReferenceNotFound)

	contentType := uint(9999)
	_, err = s.svc.Articles.CreateArticle(s.ctx, s.alice, models.CreateArticleRequest{
		Title: "Orphan", Content: "x", CategoryID: s.category.ID, ContentTypeID: &contentType,
	})
	s.ErrorIs(err, models.ErrReferenceNotFound)

	_, err = s.svc.Articles.GetHistory(s.ctx, s.alice, 9999)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *ServiceSuite) TestContentIsSanitized() {
	article, err := s.svc.Articles.CreateArticle(s.ctx, s.alice, models.CreateArticleRequest{
		Title:      "XSS",
		Content:    `<p>hello</p><script>alert(1)</script>`,
		CategoryID: s.category.ID,
	})
	s.Require().NoError(err)
	s.NotContains(article.Content, "<script>")
	s.Contains(article.Content, "<p>hello</p>")

	_, err = s.svc.Articles.CreateArticle(s.ctx, s.alice, models.CreateArticleRequest{
		Title:      "Nothing left",
		Content:    `<script>x</script>`,
		CategoryID: s.category.ID,
	})
	s.ErrorIs(err, models.ErrInvalidArgument)

	_, err = s.svc.Articles.UpdateArticle(s.ctx, s.alice, article.ID, models.UpdateArticleRequest{Content: strPtr(`<script>x</script>`)})
	s.ErrorIs(err, models.ErrInvalidArgument)

	history, err := s.svc.Articles.GetHistory(s.ctx, s.alice, article.ID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *ServiceSuite) TestDeleteArticleCascades() {
	article := s.createArticle(s.alice, "Doomed", "published")

	root, err := s.svc.Comments.CreateComment(s.ctx, s.bob, models.CreateCommentRequest{ArticleID: article.ID, Content: "first"})
	s.Require().NoError(err)
	_, err = s.svc.Comments.CreateComment(s.ctx, s.alice, models.CreateCommentRequest{ArticleID: article.ID, Content: "reply", ParentID: &root.ID})
	s.Require().NoError(err)
	_, err = s.svc.Metrics.Like(s.ctx, s.bob, article.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Articles.DeleteArticle(s.ctx, s.alice, article.ID))

	_, err = s.svc.Articles.GetArticle(s.ctx, s.alice, article.ID)
	s.ErrorIs(err, models.ErrNotFound)
	_, err = s.svc.Comments.GetComment(s.ctx, s.alice, root.ID)
	s.ErrorIs(err, models.ErrNotFound)

	revisions, err := s.repos.Revisions.ListByArticle(s.ctx, article.ID)
	s.Require().NoError(err)
	s.Empty(revisions)

	s.Equal(events.ArticleDeleted, s.publisher.Names()[len(s.publisher.Names())-1])
}

func (s *ServiceSuite) TestPublishFailureDoesNotFailWrite() {
	s.publisher.Err = errors.New("broker down")
	article := s.createArticle(s.alice, "Still saved", "published")
	s.NotZero(article.ID)
}
