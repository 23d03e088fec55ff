package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "expertlink-api", cfg.AppName)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "coin-transfers", cfg.RabbitMQAuditQueue)
	assert.Equal(t, "accounts", cfg.ESAccountsIndex)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardTTL)
	assert.False(t, cfg.HTTPLogEnabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("LEADERBOARD_CACHE_TTL", "5m")
	t.Setenv("HTTP_LOG_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.LeaderboardTTL)
	assert.True(t, cfg.HTTPLogEnabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("LEADERBOARD_CACHE_TTL", "soon")
	t.Setenv("HTTP_LOG_ENABLED", "yep")

	cfg := Load()
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardTTL)
	assert.False(t, cfg.HTTPLogEnabled)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.PostgresDSN())
}

func TestCORSOrigins(t *testing.T) {
	c := &Config{CORSAllowedOrigins: " http://localhost:3000 , https://app.example.com ,"}
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, c.CORSOrigins())

	c = &Config{}
	assert.Empty(t, c.CORSOrigins())
}

func TestESAddrs(t *testing.T) {
	c := &Config{ElasticsearchAddrs: "http://es1:9200,http://es2:9200"}
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, c.ESAddrs())
}
