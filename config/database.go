package config

import (
	"fmt"
	"strings"
	"time"

	"news-portal/models"

	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialector turns a database URL (postgres://, mysql://, sqlite:) into a gorm dialector.
func Dialector(databaseURL string) (gorm.Dialector, error) {
	u, err := dburl.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}

	switch u.Driver {
	case "postgres":
		return postgres.Open(u.DSN), nil
	case "mysql":
		dsn := u.DSN
		if !strings.Contains(dsn, "parseTime") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "parseTime=true"
		}
		return mysql.Open(dsn), nil
	case "sqlite3":
		return sqlite.Open(u.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", u.Driver)
	}
}

// InitDB opens the connection pool described by cfg.DatabaseURL.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.GinMode == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Article{}, "Tags", &models.ArticleTag{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.Author{},
		&models.Category{},
		&models.ContentType{},
		&models.Tag{},
		&models.Article{},
		&models.ArticleTag{},
		&models.Revision{},
		&models.Comment{},
		&models.Media{},
		&models.ArticleMetrics{},
		&models.SocialIntegration{},
		&models.AuditLog{},
	)
}
