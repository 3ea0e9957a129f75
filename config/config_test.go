package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestNewConfig(t *testing.T) {
	// Test case 1: Test with environment variables
	t.Run("with environment variables", func(t *testing.T) {
		t.Setenv("GIST_ID", "abc123")
		t.Setenv("RPC_URL", "http://localhost:8545")
		t.Setenv("PRIVATE_KEY", testKey)
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("SCHEDULE", "*/5 * * * *")

		cfg, err := NewConfig()
		require.NoError(t, err)

		assert.Equal(t, "abc123", cfg.GistID)
		assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
		assert.Equal(t, testKey, cfg.PrivateKey)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "*/5 * * * *", cfg.Schedule)
		assert.Equal(t, "https://api.github.com", cfg.GithubAPIURL)
		assert.Equal(t, "pythConfig", cfg.StorageKey)
		assert.True(t, cfg.CanSubmit())
	})

	// Test case 2: Test with missing environment variables
	t.Run("with missing environment variables", func(t *testing.T) {
		t.Setenv("GIST_ID", "")
		t.Setenv("RPC_URL", "")

		cfg, err := NewConfig()
		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("with malformed private key", func(t *testing.T) {
		t.Setenv("GIST_ID", "abc123")
		t.Setenv("RPC_URL", "http://localhost:8545")
		t.Setenv("PRIVATE_KEY", "0x1234")

		_, err := NewConfig()
		assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	})

	t.Run("with dry run option", func(t *testing.T) {
		t.Setenv("GIST_ID", "abc123")
		t.Setenv("RPC_URL", "http://localhost:8545")
		t.Setenv("PRIVATE_KEY", testKey)

		cfg, err := NewConfig(WithDryRun(true))
		require.NoError(t, err)
		assert.False(t, cfg.CanSubmit())
	})

	t.Run("with env file", func(t *testing.T) {
		t.Setenv("GIST_ID", "")
		os.Unsetenv("GIST_ID")
		t.Setenv("RPC_URL", "http://localhost:8545")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("GIST_ID=fromfile\n"), 0o600))

		cfg, err := NewConfig(WithEnvFile(path))
		require.NoError(t, err)
		assert.Equal(t, "fromfile", cfg.GistID)
	})
}
