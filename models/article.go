package models

import (
	"time"

	"gorm.io/gorm"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

type Article struct {
	ID            uint          `json:"id" gorm:"primarykey"`
	Title         string        `json:"title" gorm:"size:255;not null"`
	Content       string        `json:"content" gorm:"type:text;not null"`
	Description   string        `json:"description" gorm:"type:text"`
	ViewCount     int64         `json:"view_count" gorm:"not null;default:0"`
	PublishedAt   *time.Time    `json:"published_at"`
	Status        ArticleStatus `json:"status" gorm:"-"`
	AuthorID      uint          `json:"author_id" gorm:"not null;index"`
	Author        *Author       `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CategoryID    uint          `json:"category_id" gorm:"not null;index"`
	Category      *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	ContentTypeID *uint         `json:"content_type_id" gorm:"index"`
	ContentType   *ContentType  `json:"content_type,omitempty" gorm:"foreignKey:ContentTypeID"`
	RevisionCount int           `json:"revision_count" gorm:"not null;default:0"`
	Tags          []Tag         `json:"tags" gorm:"many2many:article_tags;"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsPublished reports whether the article has a publication stamp.
func (a *Article) IsPublished() bool {
	return a.PublishedAt != nil
}

func (a *Article) deriveStatus() {
	if a.IsPublished() {
		a.Status = StatusPublished
	} else {
		a.Status = StatusDraft
	}
}

func (a *Article) AfterFind(tx *gorm.DB) error {
	a.deriveStatus()
	return nil
}

func (a *Article) AfterSave(tx *gorm.DB) error {
	a.deriveStatus()
	return nil
}

// ArticleTag is the explicit article<->tag link. The whole set for an
// article is replaced on every write.
type ArticleTag struct {
	ArticleID uint      `json:"article_id" gorm:"primaryKey"`
	TagID     uint      `json:"tag_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
