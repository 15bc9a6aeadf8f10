package main

import (
	"encoding/base64"
	"io"
	"testing"

	"donorconnect/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigPrefixAndFallback(t *testing.T) {
	t.Setenv("DONORCONNECT_DATABASE_URL", "postgres://prefixed")
	t.Setenv("SESSION_SECRET", "bare-secret")
	t.Setenv("DONORCONNECT_SERVER_PORT", "9090")

	c, err := loadConfig("DONORCONNECT")
	require.NoError(t, err)

	assert.Equal(t, "postgres://prefixed", c.DatabaseURL)
	assert.Equal(t, "bare-secret", c.SessionSecret)
	assert.Equal(t, uint(9090), c.ServerPort)
	assert.Equal(t, "donorconnect_session", c.CookieName)
	assert.Equal(t, "claude-3-5-sonnet-20241022", c.AnthropicModel)
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DONORCONNECT_DATABASE_URL", "")

	_, err := loadConfig("DONORCONNECT")
	assert.EqualError(t, err, "set DATABASE_URL")
}

func TestDecodeKey(t *testing.T) {
	key, err := decodeKey("K", "", 32)
	require.NoError(t, err)
	assert.Nil(t, key)

	raw := make([]byte, 32)
	key, err = decodeKey("K", base64.StdEncoding.EncodeToString(raw), 16, 32)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = decodeKey("K", base64.StdEncoding.EncodeToString(raw[:10]), 16, 32)
	assert.Error(t, err)

	_, err = decodeKey("K", "not base64!", 32)
	assert.Error(t, err)
}

func TestLoadCookieKeys(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	_, err := loadCookieKeys(&types.Config{}, logger)
	assert.EqualError(t, err, "set SESSION_SECRET")

	keys, err := loadCookieKeys(&types.Config{SessionSecret: "s", Environment: "development"}, logger)
	require.NoError(t, err)
	assert.Len(t, keys.hash, 32)
	assert.Len(t, keys.block, 32)
	assert.Nil(t, keys.csrf)

	_, err = loadCookieKeys(&types.Config{SessionSecret: "s", Environment: "production"}, logger)
	assert.Error(t, err)

	csrfKey := base64.StdEncoding.EncodeToString(make([]byte, 32))
	keys, err = loadCookieKeys(&types.Config{SessionSecret: "s", CSRFAuthKey: csrfKey}, logger)
	require.NoError(t, err)
	assert.Len(t, keys.csrf, 32)
}
