package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("json", func(t *testing.T) {
		path := writeTemp(t, "fm.json", `{
			"endpoint_addr_http": ":7000",
			"database_dsn": "postgres://x",
			"session_ttl": "12h",
			"blob_backend": "minio",
			"worker_concurrency": 3,
			"enforce_parent_ownership": true
		}`)
		os.Args = []string{"filesmanager", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, ":7000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
		assert.Equal(t, BlobBackendMinio, cfg.BlobBackend)
		assert.Equal(t, 3, cfg.WorkerConcurrency)
		assert.True(t, cfg.EnforceParentOwnership)
		assert.Equal(t, "fileQueue", cfg.QueueName, "absent keys keep defaults")
	})

	t.Run("toml", func(t *testing.T) {
		path := writeTemp(t, "fm.toml", `
redis_addr = "redis:6379"
folder_path = "/var/lib/fm"
session_ttl = "30m"
worker_rate = 0.5
`)
		os.Args = []string{"filesmanager", "worker", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "/var/lib/fm", cfg.FolderPath)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, 0.5, cfg.WorkerRate)
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"filesmanager"}

		cfg := &Config{FolderPath: "/keep"}
		parseFile(cfg)
		assert.Equal(t, "/keep", cfg.FolderPath)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		path := writeTemp(t, "bad.json", `{ not json`)
		os.Args = []string{"filesmanager", "-c", path}
		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"filesmanager", "-c", filepath.Join(t.TempDir(), "absent.json")}
		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
