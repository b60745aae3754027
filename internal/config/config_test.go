package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "TOKEN_TTL", "REDIS_ADDR", "REDIS_DB", "CORS_ORIGINS", "SEED_ADMIN"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	require.Equal(t, ModeOffline, cfg.Mode)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, 8*time.Hour, cfg.TokenTTL)
	require.Empty(t, cfg.RedisAddr)
	require.Zero(t, cfg.RedisDB)
	require.True(t, cfg.SeedAdmin)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SEED_ADMIN", "no")

	cfg := FromEnv()
	require.Equal(t, ModeOnline, cfg.Mode)
	require.Equal(t, 90*time.Minute, cfg.TokenTTL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.False(t, cfg.SeedAdmin)
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Setenv("AMQP_EXCHANGE", "")
	os.Unsetenv("AMQP_EXCHANGE")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AMQP_EXCHANGE=school.events\n"), 0o600))

	cfg := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.Equal(t, "school.events", cfg.AMQPExchange)
}
