package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_portal_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	articlesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_portal_articles_created_total",
		Help: "Articles created.",
	})

	revisionsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_portal_revisions_recorded_total",
		Help: "Article revisions appended to the ledger, by action.",
	}, []string{"action"})

	mediaBytesStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_portal_media_bytes_stored_total",
		Help: "Bytes of uploaded media written to the blob store.",
	})

	eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_portal_events_published_total",
		Help: "Article events handed to the publisher, by event and result.",
	}, []string{"event", "result"})
)
