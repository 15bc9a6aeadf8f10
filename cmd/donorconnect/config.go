package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"

	"donorconnect/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// loadConfig reads an optional .env file and then the environment. Variables
// may carry the prefix (DONORCONNECT_DATABASE_URL) or be bare (DATABASE_URL).
func loadConfig(prefix string) (*types.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 60
	}

	return c, nil
}

type cookieKeys struct {
	hash  []byte
	block []byte
	csrf  []byte
}

// loadCookieKeys decodes the configured keys. Missing cookie keys are
// generated, which signs everyone out on restart.
func loadCookieKeys(c *types.Config, logger *logrus.Logger) (*cookieKeys, error) {
	if c.SessionSecret == "" {
		return nil, fmt.Errorf("set SESSION_SECRET")
	}

	hash, err := decodeKey("COOKIE_HASH_KEY", c.CookieHashKey, 32, 64)
	if err != nil {
		return nil, err
	}

	block, err := decodeKey("COOKIE_BLOCK_KEY", c.CookieBlockKey, 16, 24, 32)
	if err != nil {
		return nil, err
	}

	if hash == nil || block == nil {
		if c.IsProduction() {
			return nil, fmt.Errorf("set COOKIE_HASH_KEY and COOKIE_BLOCK_KEY in production")
		}
		logger.Warn("cookie keys not configured, generating random keys; sessions will not survive a restart")
		if hash == nil {
			hash = securecookie.GenerateRandomKey(32)
		}
		if block == nil {
			block = securecookie.GenerateRandomKey(32)
		}
	}

	csrfKey, err := decodeKey("CSRF_AUTH_KEY", c.CSRFAuthKey, 32)
	if err != nil {
		return nil, err
	}
	if csrfKey == nil {
		logger.Warn("CSRF_AUTH_KEY not configured, form posts are not csrf protected")
	}

	return &cookieKeys{hash: hash, block: block, csrf: csrfKey}, nil
}

func decodeKey(name, value string, sizes ...int) ([]byte, error) {
	if value == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	for _, size := range sizes {
		if len(key) == size {
			return key, nil
		}
	}

	return nil, fmt.Errorf("%s must decode to one of %v bytes, got %d", name, sizes, len(key))
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
