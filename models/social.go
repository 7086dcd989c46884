package models

import "time"

type Platform string

const (
	PlatformTelegram  Platform = "telegram"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformTelegram, PlatformTwitter, PlatformFacebook, PlatformTikTok, PlatformInstagram:
		return true
	}
	return false
}

type SocialIntegration struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	AuthorID   uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_social_author_account"`
	Platform   Platform  `json:"platform" gorm:"size:20;not null;uniqueIndex:idx_social_author_account"`
	AccountRef string    `json:"account_ref" gorm:"size:255;not null;uniqueIndex:idx_social_author_account"`
	IsActive   bool      `json:"is_active" gorm:"not null"`
	AddedAt    time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// AuditLog records who did what to which object.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	EventType  string    `json:"event_type" gorm:"size:50;not null;index"`
	UserID     *uint     `json:"user_id" gorm:"index"`
	ObjectType string    `json:"object_type" gorm:"size:50"`
	ObjectID   *uint     `json:"object_id"`
	EventTime  time.Time `json:"event_time" gorm:"not null;index"`
	Details    string    `json:"details" gorm:"type:text"`
}

const (
	EventLogin          = "login"
	EventArticleCreate  = "article.create"
	EventArticleUpdate  = "article.update"
	EventArticleDelete  = "article.delete"
	EventRoleChange     = "author.role_change"
	EventAuthorDelete   = "author.delete"
	EventCategoryDelete = "category.delete"
	EventTagDelete      = "tag.delete"
	EventContentDelete  = "content_type.delete"
)
