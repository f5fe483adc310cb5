package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/filesmanager/internal/flagx"
	"github.com/dmitrijs2005/filesmanager/internal/timex"
)

// FileConfig is the on-disk shape of the configuration. Pointer fields tell
// "absent" apart from a zero value so a partial file only overrides what it
// names.
type FileConfig struct {
	EndpointAddrHTTP       *string         `json:"endpoint_addr_http" toml:"endpoint_addr_http"`
	EndpointAddrGRPC       *string         `json:"endpoint_addr_grpc" toml:"endpoint_addr_grpc"`
	DatabaseDSN            *string         `json:"database_dsn" toml:"database_dsn"`
	RedisAddr              *string         `json:"redis_addr" toml:"redis_addr"`
	RedisPassword          *string         `json:"redis_password" toml:"redis_password"`
	RedisDB                *int            `json:"redis_db" toml:"redis_db"`
	SessionTTL             *timex.Duration `json:"session_ttl" toml:"session_ttl"`
	BlobBackend            *string         `json:"blob_backend" toml:"blob_backend"`
	FolderPath             *string         `json:"folder_path" toml:"folder_path"`
	S3RootUser             *string         `json:"s3_root_user" toml:"s3_root_user"`
	S3RootPassword         *string         `json:"s3_root_password" toml:"s3_root_password"`
	S3Bucket               *string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region               *string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint         *string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	QueueName              *string         `json:"queue_name" toml:"queue_name"`
	WorkerConcurrency      *int            `json:"worker_concurrency" toml:"worker_concurrency"`
	WorkerRate             *float64        `json:"worker_rate" toml:"worker_rate"`
	EnforceParentOwnership *bool           `json:"enforce_parent_ownership" toml:"enforce_parent_ownership"`
}

// parseFile overlays the file named by -c/-config onto config. Files ending in
// ".toml" are decoded as TOML, anything else as JSON. A missing flag is a
// no-op; an unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, fc)
	} else {
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setIf(&c.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setIf(&c.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setIf(&c.DatabaseDSN, fc.DatabaseDSN)
	setIf(&c.RedisAddr, fc.RedisAddr)
	setIf(&c.RedisPassword, fc.RedisPassword)
	setIf(&c.RedisDB, fc.RedisDB)
	if fc.SessionTTL != nil {
		c.SessionTTL = fc.SessionTTL.Duration
	}
	setIf(&c.BlobBackend, fc.BlobBackend)
	setIf(&c.FolderPath, fc.FolderPath)
	setIf(&c.S3RootUser, fc.S3RootUser)
	setIf(&c.S3RootPassword, fc.S3RootPassword)
	setIf(&c.S3Bucket, fc.S3Bucket)
	setIf(&c.S3Region, fc.S3Region)
	setIf(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setIf(&c.QueueName, fc.QueueName)
	setIf(&c.WorkerConcurrency, fc.WorkerConcurrency)
	setIf(&c.WorkerRate, fc.WorkerRate)
	setIf(&c.EnforceParentOwnership, fc.EnforceParentOwnership)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
