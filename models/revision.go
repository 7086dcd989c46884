package models

import "time"

type RevisionAction string

const (
	ActionCreated RevisionAction = "created"
	ActionUpdated RevisionAction = "updated"
	ActionDeleted RevisionAction = "deleted"
)

// Revision is an immutable snapshot of an article. VersionNum is unique per
// article and gap-free starting at 1.
type Revision struct {
	ID         uint           `json:"id" gorm:"primarykey"`
	ArticleID  uint           `json:"article_id" gorm:"not null;uniqueIndex:idx_revision_article_version"`
	VersionNum int            `json:"version_num" gorm:"not null;uniqueIndex:idx_revision_article_version"`
	Title      string         `json:"title" gorm:"size:255;not null"`
	Content    string         `json:"content" gorm:"type:text"`
	Action     RevisionAction `json:"action" gorm:"size:20;not null"`
	EditedAt   time.Time      `json:"edited_at" gorm:"not null;index"`
}

func (Revision) TableName() string {
	return "article_revisions"
}
