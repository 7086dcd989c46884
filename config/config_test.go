package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		JWTSecret:             "secret",
		JWTAlgorithm:          "hs256",
		AccessTokenTTLMinutes: 60,
		RefreshTokenTTLDays:   7,
		DefaultPageLimit:      10,
		MaxPageLimit:          100,
		MediaBackend:          "local",
		RateLimitEnabled:      true,
		RateLimitCapacity:     10,
		RateLimitRefill:       6 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, "HS256", c.JWTAlgorithm)
	assert.Equal(t, time.Hour, c.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenTTL())

	c = validConfig()
	c.DefaultPageLimit = 500
	require.NoError(t, c.Validate())
	assert.Equal(t, 100, c.DefaultPageLimit)

	broken := map[string]func(*Config){
		"empty secret":     func(c *Config) { c.JWTSecret = "  " },
		"rsa algorithm":    func(c *Config) { c.JWTAlgorithm = "RS256" },
		"zero access ttl":  func(c *Config) { c.AccessTokenTTLMinutes = 0 },
		"zero refresh ttl": func(c *Config) { c.RefreshTokenTTLDays = 0 },
		"zero max page":    func(c *Config) { c.MaxPageLimit = 0 },
		"media backend":    func(c *Config) { c.MediaBackend = "ftp" },
		"rate limit":       func(c *Config) { c.RateLimitCapacity = 0 },
	}
	for name, mutate := range broken {
		c := validConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}

	c = validConfig()
	c.RateLimitEnabled = false
	c.RateLimitCapacity = 0
	assert.NoError(t, c.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "15")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.AllowedOrigins)
	assert.Equal(t, "HS256", c.JWTAlgorithm)
	assert.True(t, c.RateLimitEnabled)
}

func TestDialector(t *testing.T) {
	d, err := Dialector("postgres://u:p@localhost:5432/news?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector("mysql://u:p@localhost:3306/news")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector("sqlite:/tmp/news.db")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector("mongodb://localhost/news")
	assert.Error(t, err)
}

func TestInitDBAndMigrate(t *testing.T) {
	db, err := InitDB(&Config{DatabaseURL: "sqlite:" + t.TempDir() + "/news.db"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable("article_revisions"))
	assert.True(t, db.Migrator().HasTable("article_tags"))
}
