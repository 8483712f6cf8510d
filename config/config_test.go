package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("DEBUG_RESET_TOKEN", "")

	cfg := Load()
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.DebugResetToken)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.AllowAllOrigins())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DEBUG_RESET_TOKEN", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, int32(25), cfg.DBMaxConns)
	assert.False(t, cfg.DebugResetToken)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.False(t, cfg.AllowAllOrigins())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("MIGRATE_ON_START", "perhaps")
	t.Setenv("JWT_ACCESS_TTL", "forever")

	cfg := Load()
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "ipo", DBSSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/ipo?sslmode=require", cfg.PostgresDSN())
}

func TestESAddrs_Empty(t *testing.T) {
	cfg := &Config{}
	assert.Empty(t, cfg.ESAddrs())
}

func TestTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")
	t.Setenv("TRUSTED_PLATFORM", "")
	cfg := Load()
	assert.Empty(t, cfg.TrustedProxyList())
	assert.Empty(t, cfg.TrustedPlatform)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")
	t.Setenv("TRUSTED_PLATFORM", "cloudflare")
	cfg = Load()
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.TrustedProxyList())
	assert.Equal(t, "cloudflare", cfg.TrustedPlatform)
}
