package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"CRM_APP_NAME":       os.Getenv("CRM_APP_NAME"),
		"CRM_APP_ENV":        os.Getenv("CRM_APP_ENV"),
		"CRM_APP_PORT":       os.Getenv("CRM_APP_PORT"),
		"CRM_MONGO_URI":      os.Getenv("CRM_MONGO_URI"),
		"CRM_MONGO_DATABASE": os.Getenv("CRM_MONGO_DATABASE"),
		"CRM_CACHE_BACKEND":  os.Getenv("CRM_CACHE_BACKEND"),
		"CRM_MAIL_CHANNEL":   os.Getenv("CRM_MAIL_CHANNEL"),
		"CRM_JWT_SECRET":     os.Getenv("CRM_JWT_SECRET"),
		"CRM_TIMEOUTS_SHORT": os.Getenv("CRM_TIMEOUTS_SHORT"),
		"CRM_TIMEOUTS_LONG":  os.Getenv("CRM_TIMEOUTS_LONG"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("defaults", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "customer-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
		assert.Equal(t, "customers", cfg.Mongo.Database)
		assert.Equal(t, "redis", cfg.Cache.Backend)
		assert.Equal(t, "nats", cfg.Mail.Channel)
		assert.Equal(t, 500*time.Millisecond, cfg.Timeouts.Short)
		assert.Equal(t, 2*time.Second, cfg.Timeouts.Long)
		assert.Equal(t, uint32(5), cfg.Breaker.MinRequests)
		assert.Equal(t, 0.5, cfg.Breaker.FailureRatio)
	})

	t.Run("environment overrides", func(t *testing.T) {
		clearEnv()
		os.Setenv("CRM_APP_PORT", "9090")
		os.Setenv("CRM_MONGO_URI", "mongodb://mongo:27017")
		os.Setenv("CRM_CACHE_BACKEND", "memory")
		os.Setenv("CRM_MAIL_CHANNEL", "smtp")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
		assert.Equal(t, "memory", cfg.Cache.Backend)
		assert.Equal(t, "smtp", cfg.Mail.Channel)
	})

	t.Run("invalid cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("CRM_CACHE_BACKEND", "memcached")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cache.backend")
	})

	t.Run("invalid mail channel", func(t *testing.T) {
		clearEnv()
		os.Setenv("CRM_MAIL_CHANNEL", "carrier-pigeon")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mail.channel")
	})

	t.Run("short timeout above long", func(t *testing.T) {
		clearEnv()
		os.Setenv("CRM_TIMEOUTS_SHORT", "5s")
		os.Setenv("CRM_TIMEOUTS_LONG", "1s")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeouts.short")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := os.Getenv("CRM_APP_ENV")
	originalSecret := os.Getenv("CRM_JWT_SECRET")
	defer func() {
		os.Setenv("CRM_APP_ENV", originalEnv)
		os.Setenv("CRM_JWT_SECRET", originalSecret)
	}()

	t.Run("missing jwt secret rejected", func(t *testing.T) {
		os.Setenv("CRM_APP_ENV", "production")
		os.Unsetenv("CRM_JWT_SECRET")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("jwt secret accepted", func(t *testing.T) {
		os.Setenv("CRM_APP_ENV", "production")
		os.Setenv("CRM_JWT_SECRET", "a-real-secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "a-real-secret", cfg.JWT.Secret)
	})
}
