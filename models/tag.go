package models

import (
	"math"
	"time"
)

type Tag struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	Name          string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	UsageCount    int       `json:"usage_count" gorm:"default:0"`
	TrendingScore float64   `json:"trending_score" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Rescore sets UsageCount and recomputes TrendingScore as usage divided by
// the log of the tag's age in days.
func (t *Tag) Rescore(usage int, now time.Time) {
	t.UsageCount = usage
	daysSinceCreated := now.Sub(t.CreatedAt).Hours() / 24
	if daysSinceCreated > 0 {
		t.TrendingScore = float64(usage) / math.Log(daysSinceCreated+1)
	} else {
		t.TrendingScore = float64(usage)
	}
}

type Category struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ContentType struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
