package blobstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/server/config"
)

// Open builds the backend selected by cfg.BlobBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	opts := S3Options{
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	}

	switch cfg.BlobBackend {
	case config.BlobBackendLocal, "":
		return NewLocalStore(cfg.FolderPath)
	case config.BlobBackendS3:
		client, err := NewS3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.S3Bucket, cfg.FolderPath), nil
	case config.BlobBackendMinio:
		client, err := NewMinioClient(opts)
		if err != nil {
			return nil, err
		}
		return NewMinioStore(client, cfg.S3Bucket, cfg.FolderPath), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
