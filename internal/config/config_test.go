package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPasetoKey = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PASETO_KEY", testPasetoKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "devtree", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
	assert.Equal(t, 180*24*time.Hour, cfg.Auth.TokenDuration)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PASETO_KEY", testPasetoKey)
	t.Setenv("SERVER_PORT", "4000")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("TOKEN_DURATION", "3600")
	t.Setenv("TRUSTED_ORIGINS", "https://devtree.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, []string{"https://devtree.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
}

func TestLoad_RejectsBadPasetoKey(t *testing.T) {
	t.Setenv("PASETO_KEY", "too short")

	_, err := Load()
	assert.Error(t, err)
}
