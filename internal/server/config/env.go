package config

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvPort          = "PORT"
	EnvDatabaseDSN   = "DB_DSN"
	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvBlobBackend   = "BLOB_BACKEND"
	EnvFolderPath    = "FOLDER_PATH"
)

// parseEnv applies non-empty environment overrides. PORT is a bare port
// number and is turned into ":<port>".
func parseEnv(config *Config) {
	if v := env(EnvPort); v != "" {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	if v := env(EnvDatabaseDSN); v != "" {
		config.DatabaseDSN = v
	}
	if v := env(EnvRedisAddr); v != "" {
		config.RedisAddr = v
	}
	if v := env(EnvRedisPassword); v != "" {
		config.RedisPassword = v
	}
	if v := env(EnvBlobBackend); v != "" {
		config.BlobBackend = v
	}
	if v := env(EnvFolderPath); v != "" {
		config.FolderPath = v
	}
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
