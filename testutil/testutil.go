// Package testutil builds throwaway databases and fakes for package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"news-portal/config"
	"news-portal/events"
	"news-portal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password satisfies the password policy.
const Password = "S3cret!pass"

// Config returns settings suited to tests: cheap bcrypt, short pages and no
// rate limiting.
func Config() *config.Config {
	return &config.Config{
		GinMode:               "test",
		LogLevel:              "error",
		AllowedOrigins:        []string{"*"},
		JWTSecret:             "test-secret",
		JWTAlgorithm:          "HS256",
		AccessTokenTTLMinutes: 30,
		RefreshTokenTTLDays:   7,
		BcryptCost:            bcrypt.MinCost,
		DefaultPageLimit:      10,
		MaxPageLimit:          100,
		MediaBackend:          "local",
		MaxUploadBytes:        1 << 20,
		RateLimitCapacity:     10,
		RateLimitRefill:       time.Second,
		RateLimitPrefix:       "rl-test",
		CronTagStats:          "@hourly",
		CronLogRetention:      "@daily",
		LogRetentionDays:      90,
	}
}

// NewDB opens a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and
	// serialises transactions.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// CreateAuthor inserts an active author with the test password.
func CreateAuthor(t testing.TB, db *gorm.DB, name string, role models.Role) *models.Author {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	author := &models.Author{
		Email:        strings.ToLower(name) + "@example.com",
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(author).Error)
	return author
}

// Publisher records every event it is handed.
type Publisher struct {
	mu     sync.Mutex
	events []events.ArticleEvent
	Err    error
}

var _ events.Publisher = (*Publisher)(nil)

func (p *Publisher) Publish(_ context.Context, evt events.ArticleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *Publisher) Close() error { return nil }

// Names lists the recorded event names in publish order.
func (p *Publisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Name)
	}
	return names
}

// Events returns a copy of the recorded events.
func (p *Publisher) Events() []events.ArticleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.ArticleEvent(nil), p.events...)
}
