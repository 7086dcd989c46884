package models

import "fmt"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginRequest accepts either an OAuth2 password form (username, password)
// or a JSON body (email, password).
type LoginRequest struct {
	Email    string `form:"username" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Page is a validated skip/limit window.
type Page struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (p Page) Validate(maxLimit int) error {
	if p.Skip < 0 {
		return fmt.Errorf("%w: skip must be >= 0", ErrInvalidArgument)
	}
	if p.Limit < 1 || p.Limit > maxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidArgument, maxLimit)
	}
	return nil
}

type ArticleFilter struct {
	AuthorID   uint   `form:"author_id"`
	CategoryID uint   `form:"category_id"`
	TagID      uint   `form:"tag_id"`
	Status     string `form:"status" binding:"omitempty,oneof=draft published"`
	Search     string `form:"q"`
}

type CreateArticleRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=255"`
	Content       string `json:"content" binding:"required"`
	Description   string `json:"description"`
	CategoryID    uint   `json:"category_id" binding:"required"`
	ContentTypeID *uint  `json:"content_type_id"`
	TagIDs        []uint `json:"tag_ids"`
	AuthorID      *uint  `json:"author_id"`
	Status        string `json:"status" binding:"omitempty,oneof=draft published"`
}

// UpdateArticleRequest is a partial patch; nil fields are left untouched.
type UpdateArticleRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content       *string `json:"content" binding:"omitempty,min=1"`
	Description   *string `json:"description"`
	CategoryID    *uint   `json:"category_id"`
	ContentTypeID *uint   `json:"content_type_id"`
	TagIDs        *[]uint `json:"tag_ids"`
	Status        *string `json:"status" binding:"omitempty,oneof=draft published"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=120"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type UpdateTagRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type CreateContentTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

type UpdateContentTypeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

type CreateCommentRequest struct {
	ArticleID uint   `json:"article_id" binding:"required"`
	Content   string `json:"content" binding:"required,max=5000"`
	ParentID  *uint  `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type UploadMediaRequest struct {
	ArticleID   uint   `form:"article_id" binding:"required"`
	Description string `form:"description"`
}

type CreateAuthorRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,max=128"`
	Bio      string `json:"bio"`
	Role     Role   `json:"role" binding:"omitempty,oneof=user editor admin"`
}

type UpdateAuthorRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Bio      *string `json:"bio"`
	IsActive *bool   `json:"is_active"`
}

type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=user editor admin"`
}

type CreateSocialIntegrationRequest struct {
	AuthorID   *uint    `json:"author_id"`
	Platform   Platform `json:"platform" binding:"required,oneof=telegram twitter facebook tiktok instagram"`
	AccountRef string   `json:"account_ref" binding:"required,max=255"`
	IsActive   *bool    `json:"is_active"`
}

type UpdateSocialIntegrationRequest struct {
	AccountRef *string `json:"account_ref" binding:"omitempty,min=1,max=255"`
	IsActive   *bool   `json:"is_active"`
}

// MetricsView combines stored counters with the article view count and the
// live comment count.
type MetricsView struct {
	ArticleID uint  `json:"article_id"`
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Shares    int64 `json:"shares"`
	Comments  int64 `json:"comments"`
}

type AuditLogFilter struct {
	EventType string `form:"event_type"`
	UserID    uint   `form:"user_id"`
}
