package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"news-portal/models"
	"news-portal/policy"
	"news-portal/repositories"
	"news-portal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 3072

// Upload is an incoming file as handed over by the HTTP layer.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type MediaService interface {
	UploadMedia(ctx context.Context, actor *models.Author, req models.UploadMediaRequest, file Upload) (*models.Media, error)
	GetMedia(ctx context.Context, actor *models.Author, id uint) (*models.Media, error)
	GetArticleMedia(ctx context.Context, actor *models.Author, articleID uint) ([]models.Media, error)
	// GetAllMedia lists media newest first, leaving out media on drafts the
	// actor cannot see.
	GetAllMedia(ctx context.Context, actor *models.Author, page models.Page) ([]models.Media, int64, error)
	// DeleteMedia removes the record and then the blob; a blob that cannot
	// be removed is logged, not returned.
	DeleteMedia(ctx context.Context, actor *models.Author, id uint) error
}

type mediaService struct {
	repos        *repositories.Repositories
	store        storage.Store
	maxBytes     int64
	maxPageLimit int
	log          *zap.Logger
}

func NewMediaService(repos *repositories.Repositories, store storage.Store, maxBytes int64, maxPageLimit int, log *zap.Logger) MediaService {
	return &mediaService{repos: repos, store: store, maxBytes: maxBytes, maxPageLimit: maxPageLimit, log: log}
}

// classify maps a detected MIME type onto the coarse media type.
func classify(mime string) models.MediaType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaImage
	case strings.HasPrefix(mime, "video/"):
		return models.MediaVideo
	}
	return models.MediaOther
}

func (s *mediaService) UploadMedia(ctx context.Context, actor *models.Author, req models.UploadMediaRequest, file Upload) (*models.Media, error) {
	if actor == nil {
		return nil, models.ErrUnauthenticated
	}
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindMedia, OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	if file.Size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", models.ErrInvalidArgument)
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", models.ErrInvalidArgument, s.maxBytes)
	}

	article, err := visibleArticle(ctx, s.repos.Articles, actor, req.ArticleID)
	if err != nil {
		return nil, referenceErr(err, "article")
	}
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindArticle, OwnerID: article.AuthorID}); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	mt := mimetype.Detect(head)

	key := fmt.Sprintf("articles/%d/%s%s", article.ID, uuid.NewString(), mt.Extension())
	body := io.MultiReader(bytes.NewReader(head), file.Body)
	if s.maxBytes > 0 {
		body = io.LimitReader(body, s.maxBytes)
	}

	url, err := s.store.Put(ctx, key, body, file.Size, mt.String())
	if err != nil {
		return nil, fmt.Errorf("store media: %w", err)
	}
	mediaBytesStoredTotal.Add(float64(file.Size))

	media := &models.Media{
		ArticleID:    article.ID,
		UploadedByID: actor.ID,
		StorageKey:   key,
		URL:          url,
		Filename:     path.Base(file.Filename),
		MimeType:     mt.String(),
		MediaType:    classify(mt.String()),
		Size:         file.Size,
		Description:  req.Description,
		UploadedAt:   time.Now(),
	}
	if err := s.repos.Media.Create(ctx, media); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned media blob", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return media, nil
}

func (s *mediaService) GetMedia(ctx context.Context, actor *models.Author, id uint) (*models.Media, error) {
	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := visibleArticle(ctx, s.repos.Articles, actor, media.ArticleID); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *mediaService) GetArticleMedia(ctx context.Context, actor *models.Author, articleID uint) ([]models.Media, error) {
	if _, err := visibleArticle(ctx, s.repos.Articles, actor, articleID); err != nil {
		return nil, err
	}
	return s.repos.Media.ListByArticle(ctx, articleID)
}

func (s *mediaService) GetAllMedia(ctx context.Context, actor *models.Author, page models.Page) ([]models.Media, int64, error) {
	if err := page.Validate(s.maxPageLimit); err != nil {
		return nil, 0, err
	}
	q := repositories.MediaQuery{Page: page}
	q.Viewer, q.AllDrafts = draftScope(actor)
	return s.repos.Media.List(ctx, q)
}

func (s *mediaService) DeleteMedia(ctx context.Context, actor *models.Author, id uint) error {
	if actor == nil {
		return models.ErrUnauthenticated
	}

	media, err := s.GetMedia(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindMedia, OwnerID: media.UploadedByID}); err != nil {
		return err
	}

	if err := s.repos.Media.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, media.StorageKey); err != nil {
		s.log.Warn("media blob not removed", zap.String("key", media.StorageKey), zap.Error(err))
	}
	return nil
}
