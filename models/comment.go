package models

import "time"

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ArticleID uint      `json:"article_id" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

type Media struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	ArticleID    uint      `json:"article_id" gorm:"not null;index"`
	UploadedByID uint      `json:"uploaded_by" gorm:"not null;index"`
	StorageKey   string    `json:"-" gorm:"size:255;uniqueIndex;not null"`
	URL          string    `json:"url" gorm:"size:1024;not null"`
	Filename     string    `json:"filename" gorm:"size:255"`
	MimeType     string    `json:"mime_type" gorm:"size:127"`
	MediaType    MediaType `json:"media_type" gorm:"size:20;not null"`
	Size         int64     `json:"size"`
	Description  string    `json:"description" gorm:"type:text"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (Media) TableName() string {
	return "media"
}

// ArticleMetrics holds the counters that are not stored on the article row.
type ArticleMetrics struct {
	ArticleID uint      `json:"article_id" gorm:"primaryKey;autoIncrement:false"`
	Likes     int64     `json:"likes" gorm:"not null;default:0"`
	Shares    int64     `json:"shares" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ArticleMetrics) TableName() string {
	return "article_metrics"
}
