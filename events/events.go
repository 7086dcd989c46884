// Package events publishes article lifecycle events for downstream
// consumers such as cross-posting workers.
package events

import (
	"context"
	"time"
)

const (
	ArticleCreated   = "article.created"
	ArticleUpdated   = "article.updated"
	ArticlePublished = "article.published"
	ArticleDeleted   = "article.deleted"
)

type Integration struct {
	Platform   string `json:"platform"`
	AccountRef string `json:"account_ref"`
}

type ArticleEvent struct {
	Name         string        `json:"event"`
	ArticleID    uint          `json:"article_id"`
	AuthorID     uint          `json:"author_id"`
	ActorID      uint          `json:"actor_id"`
	Title        string        `json:"title"`
	Version      int           `json:"version,omitempty"`
	Integrations []Integration `json:"integrations,omitempty"`
	OccurredAt   time.Time     `json:"occurred_at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event ArticleEvent) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, ArticleEvent) error { return nil }

func (noopPublisher) Close() error { return nil }
